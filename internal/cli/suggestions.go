package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var suggestionHeaders = []string{"#", "Meal", "Times", "kcal", "Protein", "Carbs", "Fat", "Also logged as"}

// RenderSuggestions writes popular meals as an aligned table.
func RenderSuggestions(w io.Writer, suggestions []model.MealSuggestion) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No meals logged yet."))
		return err
	}

	rows := make([][]string, 0, len(suggestions))
	for i, s := range suggestions {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.MealName,
			strconv.Itoa(s.Frequency),
			strconv.FormatFloat(s.Calories, 'f', 0, 64),
			formatGrams(s.Protein),
			formatGrams(s.Carbs),
			formatGrams(s.Fat),
			strings.Join(aliases(s), ", "),
		})
	}

	widths := make([]int, len(suggestionHeaders))
	for i, h := range suggestionHeaders {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(FormatTitle("Most popular meals"))
	b.WriteString("\n")
	b.WriteString(renderRow(suggestionHeaders, widths, TableHeaderStyle))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(renderRow(row, widths, lipgloss.NewStyle()))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
	}
	return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func formatGrams(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "g"
}

// aliases lists the grouped names other than the one shown.
func aliases(s model.MealSuggestion) []string {
	out := make([]string, 0, len(s.SimilarNames))
	for _, n := range s.SimilarNames {
		if n != s.MealName {
			out = append(out, n)
		}
	}
	return out
}
