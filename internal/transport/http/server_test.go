package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServer(t *testing.T) {
	h := http.NewServeMux()
	srv := NewServer(ServerConfig{Address: ":9999", ReadTimeout: time.Second, WriteTimeout: 2 * time.Second}, h)

	assert.Equal(t, ":9999", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
}

func TestInstrument_CapturesStatusAndPattern(t *testing.T) {
	mux := http.NewServeMux()
	var pattern string
	mux.HandleFunc("DELETE /api/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		pattern = r.Pattern
		w.WriteHeader(http.StatusNoContent)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rr := httptest.NewRecorder()
	Instrument(logger, mux).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/entries/abc", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "DELETE /api/entries/{id}", pattern)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantHeader string
	}{
		{name: "preflight", origin: "http://localhost:5173", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantHeader: "http://localhost:5173"},
		{name: "passthrough", origin: "http://localhost:5173", method: http.MethodGet, wantStatus: http.StatusTeapot, wantHeader: "http://localhost:5173"},
		{name: "no origin configured", method: http.MethodGet, wantStatus: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			CORS(tt.origin, next).ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/entries", nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantHeader, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
