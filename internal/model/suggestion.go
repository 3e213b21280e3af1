package model

// MealSuggestion is the aggregated view of a cluster of similarly named meals.
type MealSuggestion struct {
	MealName     string   `json:"mealName"`
	SimilarNames []string `json:"similarNames"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fat          float64  `json:"fat"`
	Frequency    int      `json:"frequency"`
}
