package api

import (
	"net/http"
	"strconv"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/observability"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/suggest"
)

const (
	defaultPopularLimit = 5
	maxPopularLimit     = 50
)

// fallbackSuggestions is served when the log cannot be read, so the quick-add
// panel still has something to offer.
var fallbackSuggestions = []model.MealSuggestion{
	{MealName: "Greek Yogurt with Berries", SimilarNames: []string{"Greek Yogurt with Berries"}, Calories: 180, Protein: 15, Carbs: 22, Fat: 3, Frequency: 1},
	{MealName: "Chicken Salad", SimilarNames: []string{"Chicken Salad"}, Calories: 420, Protein: 38, Carbs: 14, Fat: 22, Frequency: 1},
	{MealName: "Oatmeal with Banana", SimilarNames: []string{"Oatmeal with Banana"}, Calories: 350, Protein: 10, Carbs: 62, Fat: 6, Frequency: 1},
	{MealName: "Scrambled Eggs on Toast", SimilarNames: []string{"Scrambled Eggs on Toast"}, Calories: 380, Protein: 20, Carbs: 30, Fat: 18, Frequency: 1},
	{MealName: "Salmon with Rice", SimilarNames: []string{"Salmon with Rice"}, Calories: 560, Protein: 36, Carbs: 52, Fat: 20, Frequency: 1},
}

func (h *Handler) popularMeals(w http.ResponseWriter, r *http.Request) {
	limit := defaultPopularLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > maxPopularLimit {
				parsed = maxPopularLimit
			}
			limit = parsed
		}
	}

	entries, err := h.store.GetEntries(r.Context(), service.EntryFilter{})
	if err != nil {
		observability.RecordStoreError("get_entries")
		h.logger.Warn("serving fallback meal suggestions", "error", err)
		writeJSON(w, http.StatusOK, fallbackSuggestions[:min(limit, len(fallbackSuggestions))])
		return
	}

	suggestions := suggest.MostPopularMeals(entries, limit)
	observability.RecordSuggestions(len(suggestions))
	writeJSON(w, http.StatusOK, suggestions)
}
