package tablestore

import (
	"context"
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable wraps every transport, auth or driver failure of a backend.
var ErrUpstreamUnavailable = errors.New("upstream table store unavailable")

// TableStore is a range-addressable tabular store. Rows are ordered sequences of cell strings;
// the store enforces no schema, callers own the column layout.
type TableStore interface {
	ReadRange(ctx context.Context, rng Range) ([][]string, error)
	AppendRow(ctx context.Context, rng Range, row []string) error
}

// UniqueAppender is implemented by stores that can append a row only when no earlier row
// appended through it carries the same value at row[keyIndex]. It reports whether the row
// was written. The SQL and redis stores only index rows appended with AppendRowUnique, while
// MemoryStore checks every stored row.
type UniqueAppender interface {
	AppendRowUnique(ctx context.Context, rng Range, keyIndex int, row []string) (bool, error)
}

// Range addresses the columns First..Last (zero-based, inclusive) of one sheet.
type Range struct {
	Sheet string
	First int
	Last  int
}

// Columns returns the range covering columns first..last of sheet.
func Columns(sheet string, first, last int) Range {
	return Range{Sheet: sheet, First: first, Last: last}
}

// String renders the range in A1 notation, e.g. "Users!A:C".
func (r Range) String() string {
	return fmt.Sprintf("%s!%s:%s", r.Sheet, ColumnLetter(r.First), ColumnLetter(r.Last))
}

// Width is the number of columns in the range.
func (r Range) Width() int {
	return r.Last - r.First + 1
}

// ColumnLetter converts a zero-based column index into its spreadsheet letters (0 -> A, 26 -> AA).
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var letters []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}

// project cuts a stored full-width row down to the columns of rng, trimming trailing empty
// cells the way the Sheets values API does.
func project(rng Range, row []string) []string {
	out := make([]string, 0, rng.Width())
	for col := rng.First; col <= rng.Last && col < len(row); col++ {
		out = append(out, row[col])
	}
	end := len(out)
	for end > 0 && out[end-1] == "" {
		end--
	}
	return out[:end]
}

// place lays cells out from rng.First, padding earlier columns with empty cells.
func place(rng Range, cells []string) []string {
	row := make([]string, rng.First, rng.First+len(cells))
	return append(row, cells...)
}

func checkKey(keyIndex int, row []string) error {
	if keyIndex < 0 || keyIndex >= len(row) {
		return fmt.Errorf("key index %d out of row bounds (%d cells)", keyIndex, len(row))
	}
	return nil
}

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}
