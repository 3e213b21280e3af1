package suggest

import (
	"math"
	"strings"
	"testing"

	"github.com/Veraticus/macro-log/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meal(name string, calories, protein, carbs, fat float64) model.Entry {
	return model.Entry{
		MealName: name,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
}

// distinctName returns names that share no characters with each other.
func distinctName(i int) string {
	return strings.Repeat(string(rune('a'+i)), 6)
}

func TestMostPopularMeals_ExactDuplicates(t *testing.T) {
	entries := []model.Entry{
		meal("Oatmeal", 300, 10, 50, 5),
		meal("Oatmeal", 300, 10, 50, 5),
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 1)
	assert.Equal(t, model.MealSuggestion{
		MealName:     "Oatmeal",
		Calories:     300,
		Protein:      10,
		Carbs:        50,
		Fat:          5,
		Frequency:    2,
		SimilarNames: []string{"Oatmeal"},
	}, got[0])
}

func TestMostPopularMeals_FuzzyMatch(t *testing.T) {
	entries := []model.Entry{
		meal("Chicken Salad", 400, 35, 10, 20),
		meal("Chicken Salad ", 420, 37, 12, 22),
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 1)
	assert.Equal(t, "Chicken Salad", got[0].MealName)
	assert.Equal(t, 2, got[0].Frequency)
	assert.Equal(t, []string{"Chicken Salad", "Chicken Salad "}, got[0].SimilarNames)
	assert.Equal(t, 410.0, got[0].Calories)
	assert.Equal(t, 36.0, got[0].Protein)
}

func TestMostPopularMeals_NoMatch(t *testing.T) {
	entries := []model.Entry{
		meal("Pizza", 800, 30, 90, 35),
		meal("Sushi", 500, 25, 70, 10),
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 2)
	names := []string{got[0].MealName, got[1].MealName}
	assert.ElementsMatch(t, []string{"Pizza", "Sushi"}, names)
	for _, s := range got {
		assert.Equal(t, 1, s.Frequency)
	}
}

func TestMostPopularMeals_CaseInsensitiveKeepsFirstCasing(t *testing.T) {
	entries := []model.Entry{
		meal("Pizza", 800, 30, 90, 35),
		meal("pizza", 700, 28, 80, 30),
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 1)
	assert.Equal(t, "Pizza", got[0].MealName)
	assert.Equal(t, []string{"Pizza", "pizza"}, got[0].SimilarNames)
}

func TestMostPopularMeals_RoundingAsymmetry(t *testing.T) {
	entries := []model.Entry{
		meal("Toast", 100, 10.05, 20.0, 1.0),
		meal("Toast", 101, 10.15, 20.1, 1.0),
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 1)
	assert.Equal(t, 101.0, got[0].Calories)
	assert.InDelta(t, 10.1, got[0].Protein, 1e-9)
	assert.InDelta(t, 20.1, got[0].Carbs, 1e-9)
	assert.Equal(t, 1.0, got[0].Fat)
}

func TestMostPopularMeals_LimitTruncation(t *testing.T) {
	entries := make([]model.Entry, 0, 20)
	for i := 0; i < 20; i++ {
		entries = append(entries, meal(distinctName(i), 100, 1, 1, 1))
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 5)
	for _, s := range got {
		assert.Equal(t, 1, s.Frequency)
	}
}

func TestMostPopularMeals_DefaultLimit(t *testing.T) {
	entries := make([]model.Entry, 0, 20)
	for i := 0; i < 20; i++ {
		entries = append(entries, meal(distinctName(i), 100, 1, 1, 1))
	}

	assert.Len(t, MostPopularMeals(entries, 0), DefaultLimit)
	assert.Len(t, MostPopularMeals(entries, -1), DefaultLimit)
	assert.Len(t, MostPopularMeals(entries, 50), 20)
}

func TestMostPopularMeals_Empty(t *testing.T) {
	got := MostPopularMeals(nil, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = MostPopularMeals([]model.Entry{}, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = MostPopularMeals([]model.Entry{{MealName: ""}, {MealName: ""}}, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMostPopularMeals_OrdersByFrequency(t *testing.T) {
	entries := []model.Entry{
		meal("Sushi", 500, 25, 70, 10),
		meal("Oatmeal", 300, 10, 50, 5),
		meal("Oatmeal", 300, 10, 50, 5),
		meal("Burrito", 900, 40, 100, 30),
		meal("Burrito", 900, 40, 100, 30),
		meal("Burrito", 900, 40, 100, 30),
	}

	got := MostPopularMeals(entries, 5)

	require.Len(t, got, 3)
	assert.Equal(t, "Burrito", got[0].MealName)
	assert.Equal(t, 3, got[0].Frequency)
	assert.Equal(t, "Oatmeal", got[1].MealName)
	assert.Equal(t, "Sushi", got[2].MealName)
}

func TestMostPopularMeals_FrequencySumsToNamedEntries(t *testing.T) {
	entries := []model.Entry{
		meal("Oatmeal", 300, 10, 50, 5),
		meal("", 100, 1, 1, 1),
		meal("oatmeal", 310, 11, 52, 6),
		meal("Chicken Salad", 400, 35, 10, 20),
		meal("Pizza", 800, 30, 90, 35),
		meal("", 100, 1, 1, 1),
		meal("Chicken Salad ", 400, 35, 10, 20),
	}

	got := MostPopularMeals(entries, 100)

	total := 0
	for _, s := range got {
		total += s.Frequency
	}
	assert.Equal(t, 5, total)
}

func TestMostPopularMeals_Deterministic(t *testing.T) {
	entries := []model.Entry{
		meal("Pizza", 800, 30, 90, 35),
		meal("Sushi", 500, 25, 70, 10),
		meal("pizza", 750, 29, 85, 33),
		meal("Salad", 300, 8, 20, 15),
		meal("Sushi roll", 520, 26, 72, 11),
	}

	first := MostPopularMeals(entries, 10)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, MostPopularMeals(entries, 10))
	}
}

func TestMostPopularMeals_DoesNotMutateInput(t *testing.T) {
	entries := []model.Entry{
		meal("Pizza", 800, 30, 90, 35),
		meal("pizza", 750, 29, 85, 33),
	}
	before := append([]model.Entry(nil), entries...)

	_ = MostPopularMeals(entries, 5)

	assert.Equal(t, before, entries)
}

func TestMostPopularMeals_ComparesAgainstRepresentativeOnly(t *testing.T) {
	a, b, c := "ABCDEFGHIJ", "ABCDEFGHKL", "ABCDEFMNKL"
	require.Greater(t, Similarity(a, b), SimilarityThreshold)
	require.Greater(t, Similarity(b, c), SimilarityThreshold)
	require.LessOrEqual(t, Similarity(a, c), SimilarityThreshold)

	got := MostPopularMeals([]model.Entry{
		meal(a, 100, 1, 1, 1),
		meal(b, 100, 1, 1, 1),
		meal(c, 100, 1, 1, 1),
	}, 5)

	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].MealName)
	assert.Equal(t, []string{a, b}, got[0].SimilarNames)
	assert.Equal(t, c, got[1].MealName)
	assert.Equal(t, 1, got[1].Frequency)
}

func TestMostPopularMeals_FirstMatchWins(t *testing.T) {
	// The probe is closer to the second representative, but the first one is
	// already above the threshold and is checked first.
	first, second, probe := "ABCDEFGHIJKLMNOPQRST", "ABCDEFGHIJKLM1234567", "ABCDEFGHIJKLMNO34567"
	require.LessOrEqual(t, Similarity(first, second), SimilarityThreshold)
	require.Greater(t, Similarity(probe, first), SimilarityThreshold)
	require.Greater(t, Similarity(probe, second), Similarity(probe, first))

	groups := groupMeals([]model.Entry{
		meal(first, 1, 1, 1, 1),
		meal(second, 1, 1, 1, 1),
		meal(probe, 1, 1, 1, 1),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, first, groups[0].representative)
	assert.Len(t, groups[0].members, 2)
	assert.Len(t, groups[1].members, 1)
}

func TestMostPopularMeals_NaNPropagates(t *testing.T) {
	got := MostPopularMeals([]model.Entry{
		meal("Mystery", math.NaN(), 1, 1, 1),
		meal("Mystery", 100, 1, 1, 1),
	}, 5)

	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0].Calories))
	assert.Equal(t, 1.0, got[0].Protein)
}
