package cli

import (
	"bytes"
	"testing"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSuggestions(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSuggestions(&buf, []model.MealSuggestion{
		{MealName: "Oatmeal", SimilarNames: []string{"Oatmeal", "oatmeal", "Oatmeal "}, Calories: 310, Protein: 10.5, Carbs: 52, Fat: 6, Frequency: 3},
		{MealName: "Chicken Salad", SimilarNames: []string{"Chicken Salad"}, Calories: 450, Protein: 40, Carbs: 12, Fat: 22.3, Frequency: 1},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Most popular meals")
	assert.Contains(t, out, "Oatmeal")
	assert.Contains(t, out, "oatmeal, Oatmeal")
	assert.Contains(t, out, "10.5g")
	assert.Contains(t, out, "22.3g")
	assert.Contains(t, out, "450")
}

func TestRenderSuggestions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSuggestions(&buf, nil))
	assert.Contains(t, buf.String(), "No meals logged yet.")
}

func TestAliases(t *testing.T) {
	s := model.MealSuggestion{MealName: "Pho", SimilarNames: []string{"Pho", "pho"}}
	assert.Equal(t, []string{"pho"}, aliases(s))
	assert.Empty(t, aliases(model.MealSuggestion{MealName: "Pho", SimilarNames: []string{"Pho"}}))
}

func TestInterruptHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewInterruptHandler(&buf, "Export")
	assert.False(t, h.WasInterrupted())

	h.interrupt()
	h.interrupt()

	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Export interrupted.")))
}
