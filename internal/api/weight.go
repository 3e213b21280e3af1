package api

import (
	"net/http"

	"github.com/Veraticus/macro-log/internal/model"
)

// WeightRequest is the payload for POST /api/weight.
type WeightRequest struct {
	Date   string  `json:"date"`
	Notes  string  `json:"notes"`
	Weight float64 `json:"weight"`
}

// TargetsRequest is the payload for PUT /api/targets.
type TargetsRequest struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

func (h *Handler) listWeights(w http.ResponseWriter, r *http.Request) {
	filter, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	weights, err := h.store.GetWeights(r.Context(), filter)
	if err != nil {
		h.storeFailed(w, "get_weights", err)
		return
	}
	if weights == nil {
		weights = []model.WeightEntry{}
	}
	writeJSON(w, http.StatusOK, weights)
}

func (h *Handler) createWeight(w http.ResponseWriter, r *http.Request) {
	var req WeightRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Weight <= 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "weight must be > 0")
		return
	}
	if req.Date == "" {
		req.Date = h.now().Format(model.DateLayout)
	} else if _, err := model.ParseDate(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
		return
	}

	weight := model.WeightEntry{Date: req.Date, Weight: req.Weight, Notes: req.Notes}
	if err := h.store.AddWeight(r.Context(), &weight); err != nil {
		h.storeFailed(w, "add_weight", err)
		return
	}
	writeJSON(w, http.StatusCreated, weight)
}

func (h *Handler) deleteWeight(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteWeight(r.Context(), r.PathValue("id")); err != nil {
		h.storeFailed(w, "delete_weight", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.store.GetTargets(r.Context())
	if err != nil {
		h.storeFailed(w, "get_targets", err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}

func (h *Handler) putTargets(w http.ResponseWriter, r *http.Request) {
	var req TargetsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Calories < 0 || req.Protein < 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "targets cannot be negative")
		return
	}

	targets := model.Targets{Calories: req.Calories, Protein: req.Protein}
	if err := h.store.SetTargets(r.Context(), &targets); err != nil {
		h.storeFailed(w, "set_targets", err)
		return
	}
	writeJSON(w, http.StatusOK, targets)
}
