package tablestore

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig holds the service account credentials and the spreadsheet to address.
type SheetsConfig struct {
	ClientEmail   string
	PrivateKey    string
	SpreadsheetID string
}

// SheetsStore is a TableStore over the Google Sheets v4 values API. It does not implement
// UniqueAppender: a spreadsheet offers no atomic insert-if-absent.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsStore authenticates with the service account and builds the Sheets client.
// Extra options are appended after the credentials, so tests can redirect the endpoint.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsStore, error) {
	jwtCfg := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(jwtCfg.Client(ctx))}, opts...)
	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsStoreWithService(service, cfg.SpreadsheetID), nil
}

// NewSheetsStoreWithService wraps an already configured Sheets service.
func NewSheetsStoreWithService(service *sheets.Service, spreadsheetID string) *SheetsStore {
	return &SheetsStore{service: service, spreadsheetID: spreadsheetID}
}

// ReadRange fetches the values of the range. An empty range yields no rows.
func (s *SheetsStore) ReadRange(ctx context.Context, rng Range) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng.String()).Context(ctx).Do()
	if err != nil {
		return nil, upstream(fmt.Sprintf("read %s", rng), err)
	}

	out := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		out = append(out, row)
	}
	return out, nil
}

// AppendRow appends one row after the last row of the table found in the range.
func (s *SheetsStore) AppendRow(ctx context.Context, rng Range, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, rng.String(), &sheets.ValueRange{Values: [][]interface{}{values}}).
		// cells are parsed as if typed into the sheet, so a leading = or + becomes a formula
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return upstream(fmt.Sprintf("append %s", rng), err)
	}
	return nil
}
