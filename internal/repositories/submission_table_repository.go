package repositories

import (
	"context"
	"fmt"

	"formsheet/internal/models"
	"formsheet/internal/tablestore"

	"go.uber.org/zap"
)

// TableSubmissionRepository stores submissions as rows of a TableStore sheet.
type TableSubmissionRepository struct {
	logs   *zap.SugaredLogger
	store  tablestore.TableStore
	rng    tablestore.Range
	emails tablestore.Range
}

// NewTableSubmissionRepository creates a TableSubmissionRepository over the given sheet.
func NewTableSubmissionRepository(logger *zap.SugaredLogger, store tablestore.TableStore, sheet string) *TableSubmissionRepository {
	return &TableSubmissionRepository{
		logs:   logger,
		store:  store,
		rng:    tablestore.Columns(sheet, 0, models.SubmissionColumns-1),
		emails: tablestore.Columns(sheet, models.SubmissionEmailColumn, models.SubmissionEmailColumn),
	}
}

// EmailExists reads the email column and reports the first exact match.
func (r *TableSubmissionRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	rows, err := r.store.ReadRange(ctx, r.emails)
	if err != nil {
		r.logs.Errorw("failed to read submission emails", "range", r.emails.String(), "error", err)
		return false, fmt.Errorf("failed to check email %s: %w", email, err)
	}

	for _, row := range rows {
		if len(row) > 0 && row[0] == email {
			return true, nil
		}
	}
	return false, nil
}

// Create appends the submission. Callers check EmailExists first.
func (r *TableSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := r.store.AppendRow(ctx, r.rng, submission.ToRow()); err != nil {
		r.logs.Errorw("failed to append submission", "range", r.rng.String(), "error", err)
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// CreateUnique appends the submission unless one with the same email exists, atomically when
// the store supports it.
func (r *TableSubmissionRepository) CreateUnique(ctx context.Context, submission *models.Submission) error {
	if unique, ok := r.store.(tablestore.UniqueAppender); ok {
		written, err := unique.AppendRowUnique(ctx, r.rng, models.SubmissionEmailColumn, submission.ToRow())
		if err != nil {
			r.logs.Errorw("failed to append submission", "range", r.rng.String(), "error", err)
			return fmt.Errorf("failed to create submission: %w", err)
		}
		if !written {
			return fmt.Errorf("submission from %s: %w", submission.Email, ErrEmailTaken)
		}
		return nil
	}

	exists, err := r.EmailExists(ctx, submission.Email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("submission from %s: %w", submission.Email, ErrEmailTaken)
	}
	return r.Create(ctx, submission)
}

// List returns every stored submission row as read from the sheet.
func (r *TableSubmissionRepository) List(ctx context.Context) ([][]string, error) {
	rows, err := r.store.ReadRange(ctx, r.rng)
	if err != nil {
		r.logs.Errorw("failed to read submissions", "range", r.rng.String(), "error", err)
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return rows, nil
}
