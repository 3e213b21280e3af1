package model

import "time"

// WeightEntry is a single body weight measurement in kilograms.
type WeightEntry struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	Weight    float64   `json:"weight"`
}

// Targets are the daily calorie and protein goals. A zero value means the goal is not tracked.
type Targets struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
}
