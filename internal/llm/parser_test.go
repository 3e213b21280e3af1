package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding prose", input: "Here you go:\n{\"a\":1}\nEnjoy!", want: `{"a":1}`},
		{name: "no object", input: "sorry", want: "sorry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.input))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	t.Run("sums items when totals are missing", func(t *testing.T) {
		analysis, err := parseAnalysis(`{"mealName":"Toast and eggs","items":[
			{"name":"toast","calories":80.4,"protein":3,"carbs":14,"fat":1},
			{"name":"eggs","calories":140,"protein":12.04,"carbs":1,"fat":10}]}`)
		require.NoError(t, err)
		assert.InDelta(t, 220, analysis.Calories, 1e-9)
		assert.InDelta(t, 15.0, analysis.Protein, 1e-9)
		assert.InDelta(t, 15, analysis.Carbs, 1e-9)
		assert.InDelta(t, 11, analysis.Fat, 1e-9)
	})

	t.Run("clamps confidence and negatives", func(t *testing.T) {
		analysis, err := parseAnalysis(`{"mealName":"Water","calories":-5,"confidence":3}`)
		require.NoError(t, err)
		assert.Zero(t, analysis.Calories)
		assert.InDelta(t, 1, analysis.Confidence, 1e-9)
	})

	t.Run("missing meal name", func(t *testing.T) {
		_, err := parseAnalysis(`{"calories":100}`)
		assert.ErrorContains(t, err, "no meal name")
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := parseAnalysis("I think it is about 400 calories")
		assert.ErrorContains(t, err, "failed to parse JSON")
	})
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2)
	defer rl.Close()

	assert.True(t, rl.tryAcquire())
	assert.True(t, rl.tryAcquire())
	assert.False(t, rl.tryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.wait(ctx), context.DeadlineExceeded)

	rl.Close()
}
