package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_AllKnownPairsNonEmpty(t *testing.T) {
	c := Default()

	require.Equal(t, []string{"data analysis", "English conversation", "home workout", "portfolio"}, c.GoalTypes())
	require.Equal(t, []string{"10-minute", "30-minute"}, c.TimeBudgets())

	for _, goal := range c.GoalTypes() {
		for _, budget := range c.TimeBudgets() {
			tasks := c.Lookup(goal, budget)
			assert.NotEmpty(t, tasks, "(%s, %s)", goal, budget)
			for _, task := range tasks {
				assert.NotEmpty(t, task.TaskID)
				assert.NotEmpty(t, task.CoreText)
			}
		}
	}
}

func TestLookup_StableOrder(t *testing.T) {
	c := Default()

	first := c.Lookup("data analysis", "10-minute")
	second := c.Lookup("data analysis", "10-minute")

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"da_gh", "da_kaggle", "da_vid"}, []string{first[0].TaskID, first[1].TaskID, first[2].TaskID})
}

func TestLookup_UnknownKeyIsEmpty(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		goal   string
		budget string
	}{
		{name: "unknown goal", goal: "knitting", budget: "10-minute"},
		{name: "unknown budget", goal: "portfolio", budget: "2-hour"},
		{name: "empty", goal: "", budget: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := c.Lookup(tt.goal, tt.budget)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
		})
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := Default()

	tasks := c.Lookup("portfolio", "30-minute")
	tasks[0].CoreText = "mutated"

	assert.NotEqual(t, "mutated", c.Lookup("portfolio", "30-minute")[0].CoreText)
}

func TestFind(t *testing.T) {
	c := Default()

	task, ok := c.Find("home workout", "10-minute", "fit_walk")
	require.True(t, ok)
	assert.Contains(t, task.CoreText, "walk")

	_, ok = c.Find("home workout", "30-minute", "fit_walk")
	assert.False(t, ok)
}

func TestParse_RejectsDuplicates(t *testing.T) {
	_, err := Parse([]byte(`
buckets:
  - goal_type: g
    time_budget: b
    tasks:
      - task_id: x
        core: one
      - task_id: x
        core: two
`))
	assert.Error(t, err)

	_, err = Parse([]byte(`
buckets:
  - goal_type: g
    time_budget: b
    tasks: []
  - goal_type: g
    time_budget: b
    tasks: []
`))
	assert.Error(t, err)
}
