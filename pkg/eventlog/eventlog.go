// Package eventlog is the append-only, day-partitioned store for completion
// events. Partitions are keyed by the UTC calendar day of the event timestamp.
package eventlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starter-coach-be/internal/entity"
)

// Columns is the fixed header order of every partition.
var Columns = []string{"sid", "ts", "goal_type", "time_budget", "task_id", "variant", "done"}

// ErrStorageWrite matches every *StorageWriteError through errors.Is.
var ErrStorageWrite = errors.New("event log write failed")

// StorageWriteError is returned by Append when the row could not be made
// durable. Stores never retry; the caller decides what the user sees.
type StorageWriteError struct {
	Partition string
	Op        string
	Err       error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("event log %s %s: %v", e.Op, e.Partition, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

func (e *StorageWriteError) Is(target error) bool { return target == ErrStorageWrite }

// Row is one read-back event. Timestamp is nil when the stored value could
// not be parsed; RawTimestamp always keeps what was stored.
type Row struct {
	SessionID    string
	Timestamp    *time.Time
	RawTimestamp string
	GoalType     string
	TimeBudget   string
	TaskID       string
	Variant      entity.Variant
	Done         int
}

// Table is the full content of one partition in append order.
type Table struct {
	Day  time.Time
	Rows []Row
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// EventLog is implemented by the CSV file store, the in-memory store and the
// relational store.
type EventLog interface {
	// Append adds one row to the partition of event.Timestamp's UTC day.
	// Failures are *StorageWriteError.
	Append(ctx context.Context, event entity.CompletionEvent) error

	// ReadAll returns every row of day's partition. The bool is false when
	// the partition is missing, empty, or unreadable.
	ReadAll(ctx context.Context, day time.Time) (*Table, bool)
}

// FormatTimestamp is the stored representation of an event instant.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp accepts ISO-8601 forms with or without an offset. Values
// without an offset are taken as UTC.
func ParseTimestamp(raw string) (*time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			u := t.UTC()
			return &u, true
		}
	}
	return nil, false
}

// RowFromEvent is the read-back shape of an event that was stored intact.
func RowFromEvent(e entity.CompletionEvent) Row {
	ts := e.Timestamp.UTC()
	return Row{
		SessionID:    e.SessionID,
		Timestamp:    &ts,
		RawTimestamp: FormatTimestamp(ts),
		GoalType:     e.GoalType,
		TimeBudget:   e.TimeBudget,
		TaskID:       e.TaskID,
		Variant:      e.Variant,
		Done:         e.Done,
	}
}
