package suggest

import (
	"math"
	"sort"

	"github.com/Veraticus/macro-log/internal/model"
)

const (
	// DefaultLimit is the number of suggestions returned when the caller passes no limit.
	DefaultLimit = 15

	// SimilarityThreshold is the score a name must exceed to join an existing group.
	SimilarityThreshold = 0.7
)

// group is a cluster of entries keyed by the name of the entry that started it.
// Members were each matched against the representative only, so two members
// are not guaranteed to be similar to each other.
type group struct {
	representative string
	members        []model.Entry
}

// groupMeals clusters entries in input order. Each entry joins the first group
// (in creation order) whose representative it is similar enough to, otherwise
// it starts a new group. Entries without a name are skipped.
func groupMeals(entries []model.Entry) []*group {
	var groups []*group

	for _, entry := range entries {
		if entry.MealName == "" {
			continue
		}

		var matched *group
		for _, g := range groups {
			if Similarity(entry.MealName, g.representative) > SimilarityThreshold {
				matched = g
				break
			}
		}

		if matched == nil {
			groups = append(groups, &group{
				representative: entry.MealName,
				members:        []model.Entry{entry},
			})
			continue
		}
		matched.members = append(matched.members, entry)
	}

	return groups
}

// MostPopularMeals groups similar meal names and returns up to limit suggestions
// ordered by how often they were logged. A limit <= 0 uses DefaultLimit.
//
// Calories are averaged to the nearest integer; protein, carbs and fat keep one
// decimal place. Callers are responsible for passing numeric macros: a NaN in any
// member makes that group's average NaN.
func MostPopularMeals(entries []model.Entry, limit int) []model.MealSuggestion {
	if limit <= 0 {
		limit = DefaultLimit
	}

	groups := groupMeals(entries)
	suggestions := make([]model.MealSuggestion, 0, len(groups))
	for _, g := range groups {
		suggestions = append(suggestions, summarize(g))
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Frequency > suggestions[j].Frequency
	})

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func summarize(g *group) model.MealSuggestion {
	var calories, protein, carbs, fat float64
	names := make([]string, 0, 1)
	seen := make(map[string]struct{})

	for _, m := range g.members {
		calories += m.Calories
		protein += m.Protein
		carbs += m.Carbs
		fat += m.Fat

		if _, ok := seen[m.MealName]; !ok {
			seen[m.MealName] = struct{}{}
			names = append(names, m.MealName)
		}
	}

	n := float64(len(g.members))
	return model.MealSuggestion{
		MealName:     g.representative,
		Calories:     math.Round(calories / n),
		Protein:      roundTenth(protein / n),
		Carbs:        roundTenth(carbs / n),
		Fat:          roundTenth(fat / n),
		Frequency:    len(g.members),
		SimilarNames: names,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
