package events

import (
	"testing"
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/eventlog"

	"github.com/stretchr/testify/assert"
)

func TestNewCompletionRecorded(t *testing.T) {
	ts := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	evt := NewCompletionRecorded(entity.CompletionEvent{
		SessionID:  "sid-1",
		Timestamp:  ts,
		GoalType:   "portfolio",
		TimeBudget: "30-minute",
		TaskID:     "pf_case",
		Variant:    entity.VariantB,
		Done:       1,
	})

	assert.Equal(t, constant.EventCompletionRecorded, evt.EventType())
	assert.Equal(t, ts, evt.Timestamp())

	payload := evt.Payload()
	for _, col := range eventlog.Columns {
		assert.Contains(t, payload, col)
	}
	assert.Equal(t, "B", payload["variant"])
	assert.Equal(t, eventlog.FormatTimestamp(ts), payload["ts"])
	assert.Equal(t, 1, payload["done"])
}
