package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/Veraticus/macro-log/internal/model"
)

// EntryRequest is the payload for creating or replacing a meal entry.
type EntryRequest struct {
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	MealName    string            `json:"mealName"`
	Description string            `json:"description"`
	Source      model.EntrySource `json:"source"`
	Calories    float64           `json:"calories"`
	Protein     float64           `json:"protein"`
	Carbs       float64           `json:"carbs"`
	Fat         float64           `json:"fat"`
}

// Validate ensures request correctness.
func (r EntryRequest) Validate() error {
	if strings.TrimSpace(r.MealName) == "" {
		return errors.New("mealName is required")
	}
	if r.Date != "" {
		if _, err := model.ParseDate(r.Date); err != nil {
			return errors.New("date must be YYYY-MM-DD")
		}
	}
	switch r.Source {
	case "", model.SourceManual, model.SourceText, model.SourcePhoto, model.SourceVoice:
	default:
		return fmt.Errorf("unknown source %q", r.Source)
	}
	macros := []struct {
		name  string
		value float64
	}{
		{"calories", r.Calories},
		{"protein", r.Protein},
		{"carbs", r.Carbs},
		{"fat", r.Fat},
	}
	for _, m := range macros {
		if m.value < 0 || math.IsNaN(m.value) || math.IsInf(m.value, 0) {
			return fmt.Errorf("%s must be a non-negative number", m.name)
		}
	}
	return nil
}

func (h *Handler) applyEntry(req EntryRequest, e *model.Entry) {
	now := h.now()
	e.Date = req.Date
	if e.Date == "" {
		e.Date = now.Format(model.DateLayout)
	}
	e.Time = req.Time
	if e.Time == "" {
		e.Time = now.Format("15:04")
	}
	e.MealName = strings.TrimSpace(req.MealName)
	e.Description = req.Description
	e.Source = req.Source
	if e.Source == "" {
		e.Source = model.SourceManual
	}
	e.Calories = req.Calories
	e.Protein = req.Protein
	e.Carbs = req.Carbs
	e.Fat = req.Fat
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	entries, err := h.store.GetEntries(r.Context(), filter)
	if err != nil {
		h.storeFailed(w, "get_entries", err)
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	var entry model.Entry
	h.applyEntry(req, &entry)
	if err := h.store.AddEntry(r.Context(), &entry); err != nil {
		h.storeFailed(w, "add_entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req EntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	entry, err := h.store.GetEntry(r.Context(), id)
	if err != nil {
		h.storeFailed(w, "get_entry", err)
		return
	}

	h.applyEntry(req, entry)
	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		h.storeFailed(w, "update_entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEntry(r.Context(), r.PathValue("id")); err != nil {
		h.storeFailed(w, "delete_entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
