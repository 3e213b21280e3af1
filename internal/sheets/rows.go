package sheets

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/macro-log/internal/model"
)

// tab describes one sheet of the spreadsheet. Row 1 is always the header.
type tab struct {
	name    string
	lastCol string
	header  []any
}

var (
	entriesTab = tab{
		name:    "Entries",
		lastCol: "K",
		header:  []any{"ID", "Date", "Time", "Meal", "Description", "Calories", "Protein", "Carbs", "Fat", "Source", "Created At"},
	}
	weightTab = tab{
		name:    "Weight",
		lastCol: "E",
		header:  []any{"ID", "Date", "Weight", "Notes", "Created At"},
	}
	targetsTab = tab{
		name:    "Targets",
		lastCol: "C",
		header:  []any{"Calories", "Protein", "Updated At"},
	}

	allTabs = []tab{entriesTab, weightTab, targetsTab}
)

// dataRange covers every data row below the header.
func (t tab) dataRange() string {
	return t.name + "!A2:" + t.lastCol
}

// appendRange is the table range new rows are appended to.
func (t tab) appendRange() string {
	return t.name + "!A:" + t.lastCol
}

// rowRange addresses a single 1-based sheet row.
func (t tab) rowRange(row int) string {
	r := strconv.Itoa(row)
	return t.name + "!A" + r + ":" + t.lastCol + r
}

func (t tab) headerRange() string {
	return t.rowRange(1)
}

func entryToRow(e model.Entry) []any {
	return []any{
		e.ID,
		e.Date,
		e.Time,
		e.MealName,
		e.Description,
		e.Calories,
		e.Protein,
		e.Carbs,
		e.Fat,
		string(e.Source),
		formatTimestamp(e.CreatedAt),
	}
}

func rowToEntry(row []any) model.Entry {
	return model.Entry{
		ID:          cellString(row, 0),
		Date:        cellString(row, 1),
		Time:        cellString(row, 2),
		MealName:    cellString(row, 3),
		Description: cellString(row, 4),
		Calories:    cellFloat(row, 5),
		Protein:     cellFloat(row, 6),
		Carbs:       cellFloat(row, 7),
		Fat:         cellFloat(row, 8),
		Source:      model.EntrySource(cellString(row, 9)),
		CreatedAt:   parseTimestamp(cellString(row, 10)),
	}
}

func weightToRow(w model.WeightEntry) []any {
	return []any{w.ID, w.Date, w.Weight, w.Notes, formatTimestamp(w.CreatedAt)}
}

func rowToWeight(row []any) model.WeightEntry {
	return model.WeightEntry{
		ID:        cellString(row, 0),
		Date:      cellString(row, 1),
		Weight:    cellFloat(row, 2),
		Notes:     cellString(row, 3),
		CreatedAt: parseTimestamp(cellString(row, 4)),
	}
}

func targetsToRow(t model.Targets) []any {
	return []any{t.Calories, t.Protein, formatTimestamp(t.UpdatedAt)}
}

func rowToTargets(row []any) model.Targets {
	return model.Targets{
		Calories:  cellFloat(row, 0),
		Protein:   cellFloat(row, 1),
		UpdatedAt: parseTimestamp(cellString(row, 2)),
	}
}

// cellString reads a cell as text. Short rows are padded with empty cells by the API.
func cellString(row []any, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// cellFloat coerces a cell to a number. Blank cells read as 0 and text that is
// not a number reads as NaN, so a hand-edited cell shows up in averages
// instead of being silently dropped.
func cellFloat(row []any, i int) float64 {
	if i >= len(row) || row[i] == nil {
		return 0
	}
	switch v := row[i].(type) {
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
