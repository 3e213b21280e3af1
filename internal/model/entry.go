// Package model defines the core domain types for the macro log.
package model

import (
	"time"
)

// DateLayout is the canonical day format used across stores and the API.
const DateLayout = "2006-01-02"

// EntrySource records how a meal was captured.
type EntrySource string

// Entry sources.
const (
	SourceManual EntrySource = "manual"
	SourceText   EntrySource = "text"
	SourcePhoto  EntrySource = "photo"
	SourceVoice  EntrySource = "voice"
)

// Entry is one logged meal. Macro values are already portion-adjusted.
type Entry struct {
	CreatedAt   time.Time   `json:"createdAt"`
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	MealName    string      `json:"mealName"`
	Description string      `json:"description,omitempty"`
	Source      EntrySource `json:"source"`
	Calories    float64     `json:"calories"`
	Protein     float64     `json:"protein"`
	Carbs       float64     `json:"carbs"`
	Fat         float64     `json:"fat"`
}

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Day parses the entry date. Entries with malformed dates return the zero time.
func (e Entry) Day() time.Time {
	d, err := ParseDate(e.Date)
	if err != nil {
		return time.Time{}
	}
	return d
}

// DailyTotals sums the macros logged on a single day.
type DailyTotals struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Entries  int     `json:"entries"`
}

// Add folds an entry into the totals.
func (d *DailyTotals) Add(e Entry) {
	d.Calories += e.Calories
	d.Protein += e.Protein
	d.Carbs += e.Carbs
	d.Fat += e.Fat
	d.Entries++
}
