package tablestore

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableRow is the physical row of a GORMStore. Cells hold the full-width row from column A.
// UniqueKey is only set for rows written through AppendRowUnique.
type TableRow struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"`
	Sheet     string   `gorm:"type:varchar(100);not null;index;uniqueIndex:idx_sheet_unique_key"`
	UniqueKey *string  `gorm:"type:varchar(512);uniqueIndex:idx_sheet_unique_key"`
	Cells     []string `gorm:"type:text;serializer:json;not null"`
}

// GORMStore is a GORM implementation of TableStore backed by a single table_rows table.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a GORMStore and migrates its table.
func NewGORMStore(db *gorm.DB) (*GORMStore, error) {
	if err := db.AutoMigrate(&TableRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate table rows: %w", err)
	}
	return &GORMStore{db: db}, nil
}

// ReadRange loads the rows of the sheet in insertion order.
func (s *GORMStore) ReadRange(ctx context.Context, rng Range) ([][]string, error) {
	var rows []TableRow
	err := s.db.WithContext(ctx).
		Where("sheet = ?", rng.Sheet).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, upstream(fmt.Sprintf("read %s", rng), err)
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, project(rng, row.Cells))
	}
	return out, nil
}

// AppendRow inserts a row at the end of the sheet.
func (s *GORMStore) AppendRow(ctx context.Context, rng Range, row []string) error {
	record := TableRow{Sheet: rng.Sheet, Cells: place(rng, row)}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return upstream(fmt.Sprintf("append %s", rng), err)
	}
	return nil
}

// AppendRowUnique inserts the row unless the (sheet, key) pair is already taken. The unique
// index makes the check and the insert a single statement.
func (s *GORMStore) AppendRowUnique(ctx context.Context, rng Range, keyIndex int, row []string) (bool, error) {
	if err := checkKey(keyIndex, row); err != nil {
		return false, err
	}

	key := fmt.Sprintf("%s:%s", ColumnLetter(rng.First+keyIndex), row[keyIndex])
	record := TableRow{Sheet: rng.Sheet, UniqueKey: &key, Cells: place(rng, row)}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return false, upstream(fmt.Sprintf("append %s", rng), result.Error)
	}
	return result.RowsAffected == 1, nil
}
