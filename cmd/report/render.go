package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/pkg/dashboard"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	mutedColor  = color.New(color.FgYellow)
)

// renderSummary prints the overall totals followed by the per-variant and
// per-goal tables.
func renderSummary(w io.Writer, day time.Time, hasLogs bool, s dashboard.Summary) {
	headerColor.Fprintf(w, "Completion summary for %s\n", day.Format(constant.DateLayout))
	if !hasLogs {
		mutedColor.Fprintln(w, constant.MessageNoLogsYet)
		return
	}

	fmt.Fprintf(w, "actions: %d  completions: %d  rate: %s\n\n",
		s.TotalActions, s.TotalCompletions, rateColor(s.CompletionRate).Sprintf("%.1f%%", s.CompletionRate))

	headerColor.Fprintln(w, "By variant")
	byVariant := newTable("VARIANT", "ACTIONS", "COMPLETIONS", "RATE")
	for _, g := range s.ByVariant {
		byVariant.Row(string(g.Variant), strconv.Itoa(g.Actions), strconv.Itoa(g.Completions), formatRate(g.Rate))
	}
	fmt.Fprintln(w, byVariant.String())

	fmt.Fprintln(w)
	headerColor.Fprintln(w, "By goal and variant")
	byGoal := newTable("GOAL", "VARIANT", "ACTIONS", "COMPLETIONS", "RATE")
	for _, g := range s.ByGoalVariant {
		byGoal.Row(g.GoalType, string(g.Variant), strconv.Itoa(g.Actions), strconv.Itoa(g.Completions), formatRate(g.Rate))
	}
	fmt.Fprintln(w, byGoal.String())
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

func rateColor(rate float64) *color.Color {
	switch {
	case rate >= 70:
		return color.New(color.FgGreen)
	case rate >= 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
