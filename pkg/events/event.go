package events

import (
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/eventlog"
)

// Event is anything published to the external event stream.
type Event interface {
	// EventType is the subject suffix, e.g. "completion_recorded".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewCompletionRecorded carries one stored log row, keyed by its CSV column
// names so consumers can treat the stream and the day files alike.
func NewCompletionRecorded(e entity.CompletionEvent) BaseEvent {
	return BaseEvent{
		Type: constant.EventCompletionRecorded,
		Data: map[string]interface{}{
			"sid":         e.SessionID,
			"ts":          eventlog.FormatTimestamp(e.Timestamp),
			"goal_type":   e.GoalType,
			"time_budget": e.TimeBudget,
			"task_id":     e.TaskID,
			"variant":     string(e.Variant),
			"done":        e.Done,
		},
		OccurredAt: e.Timestamp,
	}
}
