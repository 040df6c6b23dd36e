package tablestore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of TableStore and UniqueAppender.
type MemoryStore struct {
	sheets map[string][][]string
	mu     sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sheets: make(map[string][][]string),
	}
}

// ReadRange returns every row of the sheet projected onto the range columns.
func (s *MemoryStore) ReadRange(ctx context.Context, rng Range) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.sheets[rng.Sheet]
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, project(rng, row))
	}
	return out, nil
}

// AppendRow adds a row at the end of the sheet.
func (s *MemoryStore) AppendRow(ctx context.Context, rng Range, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sheets[rng.Sheet] = append(s.sheets[rng.Sheet], place(rng, row))
	return nil
}

// AppendRowUnique appends the row unless a stored row already holds the same key cell.
func (s *MemoryStore) AppendRowUnique(ctx context.Context, rng Range, keyIndex int, row []string) (bool, error) {
	if err := checkKey(keyIndex, row); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col := rng.First + keyIndex
	for _, existing := range s.sheets[rng.Sheet] {
		if col < len(existing) && existing[col] == row[keyIndex] {
			return false, nil
		}
	}
	s.sheets[rng.Sheet] = append(s.sheets[rng.Sheet], place(rng, row))
	return true, nil
}
