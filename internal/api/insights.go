package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/Veraticus/macro-log/internal/llm"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/stats"
)

const defaultStatsDays = 7

// AnalyzeRequest is the payload for POST /api/analyze. Image is base64 encoded.
type AnalyzeRequest struct {
	Description string `json:"description"`
	Image       string `json:"image"`
	MediaType   string `json:"mediaType"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	filter, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	end := h.now()
	if filter.EndDate != "" {
		end, _ = model.ParseDate(filter.EndDate)
	}
	start := end.AddDate(0, 0, -(defaultStatsDays - 1))
	if filter.StartDate != "" {
		start, _ = model.ParseDate(filter.StartDate)
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "validation_failed", "start must not be after end")
		return
	}
	filter.StartDate = start.Format(model.DateLayout)
	filter.EndDate = end.Format(model.DateLayout)

	entries, err := h.store.GetEntries(r.Context(), filter)
	if err != nil {
		h.storeFailed(w, "get_entries", err)
		return
	}
	targets, err := h.store.GetTargets(r.Context())
	if err != nil {
		h.storeFailed(w, "get_targets", err)
		return
	}

	writeJSON(w, http.StatusOK, stats.Summarize(entries, *targets, start, end))
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "meal analysis is not configured")
		return
	}

	var req AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var image []byte
	if req.Image != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "image must be base64 encoded")
			return
		}
		image = decoded
	}

	analysis, err := h.analyzer.AnalyzeMeal(r.Context(), service.MealRequest{
		Description: req.Description,
		MediaType:   req.MediaType,
		ImageData:   image,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyRequest) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		h.logger.Error("meal analysis failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream_error", "meal analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *Handler) burnedCalories(w http.ResponseWriter, r *http.Request) {
	if h.activity == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured", "strava is not configured")
		return
	}

	day := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, raw, day.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := h.activity.BurnedCalories(r.Context(), day)
	if err != nil {
		h.logger.Error("strava request failed", "error", err)
		writeError(w, http.StatusBadGateway, "upstream_error", "activity lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
