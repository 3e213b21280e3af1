package testutil

import (
	"github.com/Veraticus/macro-log/internal/model"
)

// LogBuilder accumulates meal entries with a fluent API.
type LogBuilder struct {
	date    string
	entries []model.Entry
}

// NewLog starts a log whose meals are dated date until On is called.
func NewLog(date string) *LogBuilder {
	return &LogBuilder{date: date}
}

// On switches the date used for subsequent meals.
func (b *LogBuilder) On(date string) *LogBuilder {
	b.date = date
	return b
}

// Meal adds a manually logged meal.
func (b *LogBuilder) Meal(name string, calories, protein, carbs, fat float64) *LogBuilder {
	b.entries = append(b.entries, model.Entry{
		Date:     b.date,
		MealName: name,
		Source:   model.SourceManual,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	})
	return b
}

// Repeat adds the same meal n times.
func (b *LogBuilder) Repeat(n int, name string, calories, protein, carbs, fat float64) *LogBuilder {
	for range n {
		b.Meal(name, calories, protein, carbs, fat)
	}
	return b
}

// Entries returns a copy of the built entries.
func (b *LogBuilder) Entries() []model.Entry {
	return append([]model.Entry(nil), b.entries...)
}
