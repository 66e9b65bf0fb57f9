package logwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/eventlog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReportsAppendedPartitionOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store, err := eventlog.NewFileStore(dir, nil)
	require.NoError(t, err)

	changed := make(chan time.Time, 8)
	w, err := New(dir, func(day time.Time) { changed <- day }, nil)
	require.NoError(t, err)
	w.SetDebounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Run(ctx) }()

	ts := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, entity.CompletionEvent{
			SessionID:  "sid",
			Timestamp:  ts,
			GoalType:   "portfolio",
			TimeBudget: "10-minute",
			TaskID:     "pf_goal",
			Variant:    entity.VariantA,
			Done:       1,
		}))
	}

	select {
	case day := <-changed:
		assert.Equal(t, entity.TruncateDay(ts), day)
	case <-time.After(5 * time.Second):
		t.Fatal("partition change was not reported")
	}

	// The burst is coalesced into a single report.
	select {
	case day := <-changed:
		t.Fatalf("unexpected second report for %s", day)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-stopped)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	changed := make(chan time.Time, 1)
	w, err := New(dir, func(day time.Time) { changed <- day }, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte("x"), 0o644))

	select {
	case day := <-changed:
		t.Fatalf("unexpected report for %s", day)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-stopped)
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	w, err := New(dir, func(time.Time) {}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
