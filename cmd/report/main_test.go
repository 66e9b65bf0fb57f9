package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/eventlog"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store, err := eventlog.NewFileStore(dir, nil)
	require.NoError(t, err)

	ts := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	for i, v := range []entity.Variant{entity.VariantA, entity.VariantA, entity.VariantB} {
		require.NoError(t, store.Append(context.Background(), entity.CompletionEvent{
			SessionID:  string(rune('a' + i)),
			Timestamp:  ts.Add(time.Duration(i) * time.Minute),
			GoalType:   "portfolio",
			TimeBudget: "10-minute",
			TaskID:     "pf_goal",
			Variant:    v,
			Done:       1,
		}))
	}
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSummaryCommand_Tables(t *testing.T) {
	dir := seedLog(t)

	out := run(t, "summary", "--log-dir", dir, "--date", "2026-10-15", "--no-color")

	assert.Contains(t, out, "Completion summary for 2026-10-15")
	assert.Contains(t, out, "actions: 3  completions: 3  rate: 100.0%")
	assert.Contains(t, out, "By variant")
	assert.Contains(t, out, "By goal and variant")
	assert.Contains(t, out, "VARIANT")
	assert.Contains(t, out, "GOAL")
	assert.Regexp(t, `│\s*A\s*│\s*2\s*│\s*2\s*│\s*100\.0\s*│`, out)
	assert.Regexp(t, `│\s*portfolio\s*│\s*B\s*│\s*1\s*│\s*1\s*│\s*100\.0\s*│`, out)
}

func TestSummaryCommand_NoLogs(t *testing.T) {
	out := run(t, "summary", "--log-dir", t.TempDir(), "--date", "2026-10-15")
	assert.Contains(t, out, "no logs yet for this day")
}

func TestSummaryCommand_JSON(t *testing.T) {
	dir := seedLog(t)

	out := run(t, "summary", "--log-dir", dir, "--date", "2026-10-15", "--json")

	var got struct {
		Date    string `json:"date"`
		HasLogs bool   `json:"has_logs"`
		Summary struct {
			TotalActions int `json:"total_actions"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2026-10-15", got.Date)
	assert.True(t, got.HasLogs)
	assert.Equal(t, 3, got.Summary.TotalActions)
}

func TestSummaryCommand_BadDate(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"summary", "--log-dir", t.TempDir(), "--date", "15/10/2026"})
	assert.Error(t, cmd.Execute())
}

func TestDaysCommand(t *testing.T) {
	dir := seedLog(t)
	out := run(t, "days", "--log-dir", dir)
	assert.Equal(t, "2026-10-15\n", out)
}
