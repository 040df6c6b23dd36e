package tablestore_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"formsheet/internal/tablestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheets serves the two values endpoints the store uses.
type fakeSheets struct {
	values   [][]interface{}
	appended []map[string]interface{}
	status   int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values/"):
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values/"),
			"majorDimension": "ROWS",
			"values":         f.values,
		})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		_ = json.Unmarshal(body, &payload)
		payload["path"] = r.URL.Path
		payload["valueInputOption"] = r.URL.Query().Get("valueInputOption")
		f.appended = append(f.appended, payload)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet-id"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newSheetsStore(t *testing.T, fake *fakeSheets) *tablestore.SheetsStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return tablestore.NewSheetsStoreWithService(service, "sheet-id")
}

func TestSheetsStore_ReadRange(t *testing.T) {
	fake := &fakeSheets{values: [][]interface{}{{"Ann", "ann@example.com", "hi"}, {"Bob"}}}
	store := newSheetsStore(t, fake)

	rows, err := store.ReadRange(context.Background(), tablestore.Columns("BasicInfo", 0, 2))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Ann", "ann@example.com", "hi"}, {"Bob"}}, rows)
}

func TestSheetsStore_ReadRangeEmpty(t *testing.T) {
	store := newSheetsStore(t, &fakeSheets{})

	rows, err := store.ReadRange(context.Background(), tablestore.Columns("BasicInfo", 1, 1))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSheetsStore_AppendRow(t *testing.T) {
	fake := &fakeSheets{}
	store := newSheetsStore(t, fake)

	err := store.AppendRow(context.Background(), tablestore.Columns("Users", 0, 2), []string{"ann", "hash", "ann@example.com"})
	require.NoError(t, err)

	require.Len(t, fake.appended, 1)
	assert.Equal(t, "/v4/spreadsheets/sheet-id/values/Users!A:C:append", fake.appended[0]["path"])
	assert.Equal(t, "USER_ENTERED", fake.appended[0]["valueInputOption"])
	assert.Equal(t, []interface{}{[]interface{}{"ann", "hash", "ann@example.com"}}, fake.appended[0]["values"])
}

func TestSheetsStore_UpstreamUnavailable(t *testing.T) {
	store := newSheetsStore(t, &fakeSheets{status: http.StatusForbidden})

	_, err := store.ReadRange(context.Background(), tablestore.Columns("Users", 0, 2))
	assert.ErrorIs(t, err, tablestore.ErrUpstreamUnavailable)

	err = store.AppendRow(context.Background(), tablestore.Columns("Users", 0, 2), []string{"a"})
	assert.ErrorIs(t, err, tablestore.ErrUpstreamUnavailable)
}
