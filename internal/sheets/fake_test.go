package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var rangePattern = regexp.MustCompile(`^([^!]+)!A(\d*):[A-Z]+(\d*)$`)

// fakeSheets is an in-memory stand-in for the subset of the Sheets REST API the store uses.
type fakeSheets struct {
	tabs     map[string][][]any
	order    []string
	failures int
	requests int
	mu       sync.Mutex
}

func newFakeSheets(tabNames ...string) *fakeSheets {
	f := &fakeSheets{tabs: make(map[string][][]any)}
	for _, name := range tabNames {
		f.addTab(name)
	}
	return f
}

func (f *fakeSheets) addTab(name string) {
	if _, ok := f.tabs[name]; ok {
		return
	}
	f.tabs[name] = nil
	f.order = append(f.order, name)
}

func (f *fakeSheets) rows(name string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]any, len(f.tabs[name]))
	copy(out, f.tabs[name])
	return out
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests++
	if f.failures > 0 {
		f.failures--
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	switch {
	case strings.Contains(path, "/values/"):
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		f.handleValues(w, r, rng)
	case strings.HasSuffix(path, ":batchUpdate"):
		f.handleBatchUpdate(w, r)
	case r.Method == http.MethodGet:
		f.handleGetSpreadsheet(w)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSheets) handleValues(w http.ResponseWriter, r *http.Request, rng string) {
	isAppend := strings.HasSuffix(rng, ":append")
	rng = strings.TrimSuffix(rng, ":append")

	m := rangePattern.FindStringSubmatch(rng)
	if m == nil {
		http.Error(w, "bad range "+rng, http.StatusBadRequest)
		return
	}
	name := m[1]
	if _, ok := f.tabs[name]; !ok {
		http.Error(w, `{"error":{"code":400,"message":"Unable to parse range"}}`, http.StatusBadRequest)
		return
	}
	start := 1
	if m[2] != "" {
		start, _ = strconv.Atoi(m[2])
	}

	switch r.Method {
	case http.MethodGet:
		var values [][]any
		if start-1 < len(f.tabs[name]) {
			values = f.tabs[name][start-1:]
		}
		writeFakeJSON(w, map[string]any{"range": rng, "majorDimension": "ROWS", "values": values})
	case http.MethodPost, http.MethodPut:
		var body sheets.ValueRange
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if isAppend {
			f.tabs[name] = append(f.tabs[name], body.Values...)
		} else {
			for len(f.tabs[name]) < start {
				f.tabs[name] = append(f.tabs[name], []any{})
			}
			f.tabs[name][start-1] = body.Values[0]
		}
		writeFakeJSON(w, map[string]any{})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (f *fakeSheets) handleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	var body sheets.BatchUpdateSpreadsheetRequest
	raw, _ := io.ReadAll(r.Body)
	if err := json.Unmarshal(raw, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, req := range body.Requests {
		if req.AddSheet != nil {
			f.addTab(req.AddSheet.Properties.Title)
		}
		if req.DeleteDimension != nil {
			dr := req.DeleteDimension.Range
			name := f.order[dr.SheetId-1]
			rows := f.tabs[name]
			f.tabs[name] = append(rows[:dr.StartIndex:dr.StartIndex], rows[dr.EndIndex:]...)
		}
	}
	writeFakeJSON(w, map[string]any{})
}

func (f *fakeSheets) handleGetSpreadsheet(w http.ResponseWriter) {
	list := make([]map[string]any, 0, len(f.order))
	for i, name := range f.order {
		list = append(list, map[string]any{
			"properties": map[string]any{"sheetId": i + 1, "title": name},
		})
	}
	writeFakeJSON(w, map[string]any{"spreadsheetId": "sheet-1", "sheets": list})
}

func writeFakeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newTestStore wires a Store to a fake Sheets server.
func newTestStore(t *testing.T, fake *fakeSheets) *Store {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	store := NewStoreWithService(svc, Config{
		SpreadsheetID: "sheet-1",
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return store
}
