// Package api exposes the macro log over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/observability"
	"github.com/Veraticus/macro-log/internal/service"
)

const maxBodyBytes = 10 << 20

// Handler serves the API. The analyzer and activity provider are optional;
// their endpoints answer 503 when they are nil.
type Handler struct {
	store    service.Storage
	analyzer service.MealAnalyzer
	activity service.ActivityProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(store service.Storage, analyzer service.MealAnalyzer, activity service.ActivityProvider, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    store,
		analyzer: analyzer,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", healthz)

	mux.HandleFunc("GET /api/entries", h.listEntries)
	mux.HandleFunc("POST /api/entries", h.createEntry)
	mux.HandleFunc("PUT /api/entries/{id}", h.updateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", h.deleteEntry)

	mux.HandleFunc("GET /api/weight", h.listWeights)
	mux.HandleFunc("POST /api/weight", h.createWeight)
	mux.HandleFunc("DELETE /api/weight/{id}", h.deleteWeight)

	mux.HandleFunc("GET /api/targets", h.getTargets)
	mux.HandleFunc("PUT /api/targets", h.putTargets)

	mux.HandleFunc("GET /api/popular-meals", h.popularMeals)
	mux.HandleFunc("GET /api/stats", h.stats)
	mux.HandleFunc("POST /api/analyze", h.analyze)
	mux.HandleFunc("GET /api/activity", h.burnedCalories)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// storeFailed logs and counts a storage error, then answers with the status it maps to.
func (h *Handler) storeFailed(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, common.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		observability.RecordStoreError(op)
		h.logger.Error("store operation failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "server_error", "storage unavailable")
	}
}

// dateRange reads optional start and end query parameters.
func dateRange(r *http.Request) (service.EntryFilter, error) {
	filter := service.EntryFilter{
		StartDate: r.URL.Query().Get("start"),
		EndDate:   r.URL.Query().Get("end"),
	}
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := model.ParseDate(d); err != nil {
			return filter, errors.New("dates must be YYYY-MM-DD")
		}
	}
	return filter, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

// writeJSON encodes before writing the header so values JSON cannot carry,
// such as NaN macros from malformed cells, surface as a 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"encoding_failed","detail":"response could not be encoded"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
