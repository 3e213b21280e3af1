// Package stats summarizes the meal log over a date range.
package stats

import (
	"sort"
	"time"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/Veraticus/macro-log/internal/suggest"
)

// PopularLimit is how many popular meals a summary carries.
const PopularLimit = 5

// Summary describes eating over an inclusive date range.
type Summary struct {
	Start               string                 `json:"start"`
	End                 string                 `json:"end"`
	Totals              []model.DailyTotals    `json:"totals"`
	Popular             []model.MealSuggestion `json:"popular"`
	Average             model.DailyTotals      `json:"average"`
	Days                int                    `json:"days"`
	LoggedDays          int                    `json:"loggedDays"`
	DaysOnCalorieTarget int                    `json:"daysOnCalorieTarget"`
	DaysOnProteinTarget int                    `json:"daysOnProteinTarget"`
}

// Summarize aggregates the entries dated between start and end. Entries
// outside the range are ignored. A zero target is not tracked.
func Summarize(entries []model.Entry, targets model.Targets, start, end time.Time) Summary {
	filter := service.EntryFilter{
		StartDate: start.Format(model.DateLayout),
		EndDate:   end.Format(model.DateLayout),
	}

	summary := Summary{
		Start:   filter.StartDate,
		End:     filter.EndDate,
		Days:    daysBetween(start, end),
		Totals:  []model.DailyTotals{},
		Popular: []model.MealSuggestion{},
	}
	if summary.Days == 0 {
		return summary
	}

	byDay := make(map[string]*model.DailyTotals)
	var inRange []model.Entry
	for _, e := range entries {
		if !filter.Matches(e.Date) {
			continue
		}
		inRange = append(inRange, e)

		day, ok := byDay[e.Date]
		if !ok {
			day = &model.DailyTotals{Date: e.Date}
			byDay[e.Date] = day
		}
		day.Add(e)
	}

	for _, day := range byDay {
		summary.Totals = append(summary.Totals, *day)
	}
	sort.Slice(summary.Totals, func(i, j int) bool {
		return summary.Totals[i].Date < summary.Totals[j].Date
	})

	for _, day := range summary.Totals {
		summary.Average.Calories += day.Calories
		summary.Average.Protein += day.Protein
		summary.Average.Carbs += day.Carbs
		summary.Average.Fat += day.Fat
		summary.Average.Entries += day.Entries

		if targets.Calories > 0 && day.Calories <= targets.Calories {
			summary.DaysOnCalorieTarget++
		}
		if targets.Protein > 0 && day.Protein >= targets.Protein {
			summary.DaysOnProteinTarget++
		}
	}

	summary.LoggedDays = len(summary.Totals)
	if summary.LoggedDays > 0 {
		n := float64(summary.LoggedDays)
		summary.Average.Calories /= n
		summary.Average.Protein /= n
		summary.Average.Carbs /= n
		summary.Average.Fat /= n
		summary.Average.Entries /= summary.LoggedDays
	}

	summary.Popular = suggest.MostPopularMeals(inRange, PopularLimit)
	return summary
}

// daysBetween counts calendar days in [start, end], or 0 when end precedes start.
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
