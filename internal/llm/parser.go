package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/macro-log/internal/service"
)

// cleanMarkdownWrapper strips code fences and any prose around the JSON object.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return content
	}
	return content[start : end+1]
}

// parseAnalysis decodes the model reply. When the model gives item totals but
// no meal totals, the items are summed.
func parseAnalysis(content string) (service.MealAnalysis, error) {
	var analysis service.MealAnalysis
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &analysis); err != nil {
		return service.MealAnalysis{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	analysis.MealName = strings.TrimSpace(analysis.MealName)
	if analysis.MealName == "" {
		return service.MealAnalysis{}, fmt.Errorf("no meal name found in response")
	}

	if analysis.Calories == 0 && analysis.Protein == 0 && analysis.Carbs == 0 && analysis.Fat == 0 {
		for _, item := range analysis.Items {
			analysis.Calories += item.Calories
			analysis.Protein += item.Protein
			analysis.Carbs += item.Carbs
			analysis.Fat += item.Fat
		}
	}

	analysis.Calories = math.Max(0, math.Round(analysis.Calories))
	analysis.Protein = math.Max(0, math.Round(analysis.Protein*10)/10)
	analysis.Carbs = math.Max(0, math.Round(analysis.Carbs*10)/10)
	analysis.Fat = math.Max(0, math.Round(analysis.Fat*10)/10)
	analysis.Confidence = math.Min(1, math.Max(0, analysis.Confidence))

	return analysis, nil
}
