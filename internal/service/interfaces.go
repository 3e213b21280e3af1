// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/macro-log/internal/model"
)

// EntryFilter restricts queries to an inclusive date range. Empty bounds are open.
type EntryFilter struct {
	StartDate string
	EndDate   string
}

// Matches reports whether a YYYY-MM-DD date falls inside the filter.
func (f EntryFilter) Matches(date string) bool {
	if f.StartDate != "" && date < f.StartDate {
		return false
	}
	if f.EndDate != "" && date > f.EndDate {
		return false
	}
	return true
}

// EntryStore persists meal log entries.
type EntryStore interface {
	AddEntry(ctx context.Context, entry *model.Entry) error
	GetEntries(ctx context.Context, filter EntryFilter) ([]model.Entry, error)
	GetEntry(ctx context.Context, id string) (*model.Entry, error)
	UpdateEntry(ctx context.Context, entry *model.Entry) error
	DeleteEntry(ctx context.Context, id string) error
}

// WeightStore persists body weight measurements.
type WeightStore interface {
	AddWeight(ctx context.Context, weight *model.WeightEntry) error
	GetWeights(ctx context.Context, filter EntryFilter) ([]model.WeightEntry, error)
	DeleteWeight(ctx context.Context, id string) error
}

// TargetStore persists the daily calorie and protein goals.
type TargetStore interface {
	GetTargets(ctx context.Context) (*model.Targets, error)
	SetTargets(ctx context.Context, targets *model.Targets) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	EntryStore
	WeightStore
	TargetStore
	Close() error
}

// MealAnalyzer estimates the macros of a meal from a description or photo.
type MealAnalyzer interface {
	AnalyzeMeal(ctx context.Context, req MealRequest) (MealAnalysis, error)
}

// MealRequest describes what the user captured. ImageData is raw bytes, not base64.
type MealRequest struct {
	Description string
	MediaType   string
	ImageData   []byte
}

// MealAnalysis is the model's estimate for a whole meal.
type MealAnalysis struct {
	MealName   string         `json:"mealName"`
	Items      []AnalyzedItem `json:"items,omitempty"`
	Calories   float64        `json:"calories"`
	Protein    float64        `json:"protein"`
	Carbs      float64        `json:"carbs"`
	Fat        float64        `json:"fat"`
	Confidence float64        `json:"confidence"`
}

// AnalyzedItem is one component the model recognised in the meal.
type AnalyzedItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ActivityProvider reports calories burned through tracked workouts.
type ActivityProvider interface {
	BurnedCalories(ctx context.Context, day time.Time) (BurnedSummary, error)
}

// BurnedSummary is the workout context for a single day.
type BurnedSummary struct {
	Date       string  `json:"date"`
	Calories   float64 `json:"calories"`
	Activities int     `json:"activities"`
}

// RetryOptions configures retry behavior for external calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
