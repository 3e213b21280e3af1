package llm

import (
	"fmt"

	"github.com/Veraticus/macro-log/internal/service"
)

const systemPrompt = `You are a nutrition assistant that estimates the macronutrients of a meal.
Respond with ONLY a JSON object, no markdown and no commentary, in exactly this shape:
{
  "mealName": "short name for the meal",
  "items": [
    {"name": "food item", "quantity": "portion with units", "calories": 0, "protein": 0, "carbs": 0, "fat": 0}
  ],
  "calories": 0,
  "protein": 0,
  "carbs": 0,
  "fat": 0,
  "confidence": 0.0
}
Calories are kcal. Protein, carbs and fat are grams for the whole portion shown or described.
Confidence is between 0 and 1.`

func userPrompt(req service.MealRequest) string {
	switch {
	case req.Description != "" && len(req.ImageData) > 0:
		return fmt.Sprintf("Estimate the macros for the meal in this photo. The user describes it as: %q", req.Description)
	case len(req.ImageData) > 0:
		return "Estimate the macros for the meal in this photo."
	default:
		return fmt.Sprintf("Estimate the macros for this meal: %q", req.Description)
	}
}
