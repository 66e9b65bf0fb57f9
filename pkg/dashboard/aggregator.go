package dashboard

import (
	"math"
	"sort"

	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/eventlog"
)

// GroupStats is one row of a grouped completion table.
type GroupStats struct {
	GoalType    string         `json:"goal_type,omitempty"`
	Variant     entity.Variant `json:"variant"`
	Actions     int            `json:"actions"`
	Completions int            `json:"completions"`
	Rate        float64        `json:"rate"` // percent, one decimal
}

// Summary is derived on every read and never stored.
type Summary struct {
	TotalActions     int          `json:"total_actions"`
	TotalCompletions int          `json:"total_completions"`
	CompletionRate   float64      `json:"completion_rate"`
	ByVariant        []GroupStats `json:"by_variant"`
	ByGoalVariant    []GroupStats `json:"by_goal_variant"`
}

// Aggregator turns a partition table into completion statistics.
type Aggregator struct{}

// NewAggregator creates a new dashboard aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Summarize counts rows as actions and sums Done as completions, overall and
// per group. A nil or empty table gives an all-zero summary.
func (a *Aggregator) Summarize(table *eventlog.Table) Summary {
	summary := Summary{
		ByVariant:     []GroupStats{},
		ByGoalVariant: []GroupStats{},
	}
	if table.Len() == 0 {
		return summary
	}

	type goalVariant struct {
		goal    string
		variant entity.Variant
	}
	byVariant := make(map[entity.Variant]*GroupStats)
	byGoalVariant := make(map[goalVariant]*GroupStats)

	for _, row := range table.Rows {
		summary.TotalActions++
		summary.TotalCompletions += row.Done

		v, ok := byVariant[row.Variant]
		if !ok {
			v = &GroupStats{Variant: row.Variant}
			byVariant[row.Variant] = v
		}
		v.Actions++
		v.Completions += row.Done

		key := goalVariant{goal: row.GoalType, variant: row.Variant}
		gv, ok := byGoalVariant[key]
		if !ok {
			gv = &GroupStats{GoalType: row.GoalType, Variant: row.Variant}
			byGoalVariant[key] = gv
		}
		gv.Actions++
		gv.Completions += row.Done
	}

	summary.CompletionRate = Rate(summary.TotalCompletions, summary.TotalActions)

	for _, g := range byVariant {
		g.Rate = RoundRate(g.Completions, g.Actions)
		summary.ByVariant = append(summary.ByVariant, *g)
	}
	for _, g := range byGoalVariant {
		g.Rate = RoundRate(g.Completions, g.Actions)
		summary.ByGoalVariant = append(summary.ByGoalVariant, *g)
	}

	sort.Slice(summary.ByVariant, func(i, j int) bool {
		return summary.ByVariant[i].Variant < summary.ByVariant[j].Variant
	})
	sort.Slice(summary.ByGoalVariant, func(i, j int) bool {
		x, y := summary.ByGoalVariant[i], summary.ByGoalVariant[j]
		if x.GoalType != y.GoalType {
			return x.GoalType < y.GoalType
		}
		return x.Variant < y.Variant
	})

	return summary
}

// Rate is completions / actions * 100, or 0 when there were no actions.
func Rate(completions, actions int) float64 {
	if actions == 0 {
		return 0.0
	}
	return float64(completions) / float64(actions) * 100.0
}

// RoundRate is Rate rounded half away from zero to one decimal place.
func RoundRate(completions, actions int) float64 {
	return math.Round(Rate(completions, actions)*10) / 10
}
