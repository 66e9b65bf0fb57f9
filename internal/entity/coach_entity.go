// FILE: internal/entity/coach_entity.go
// Domain entities for sessions and completion events
package entity

import "time"

// Variant is the copy tone a session is assigned to.
type Variant string

const (
	VariantA Variant = "A" // emotional framing
	VariantB Variant = "B" // ROI / outcome framing
)

// Variants lists the experiment arms in display order.
var Variants = []Variant{VariantA, VariantB}

func (v Variant) Valid() bool {
	return v == VariantA || v == VariantB
}

// Label is the human description shown next to the session's variant.
func (v Variant) Label() string {
	switch v {
	case VariantA:
		return "A: emotional (confidence/praise)"
	case VariantB:
		return "B: practical (ROI/results)"
	default:
		return string(v)
	}
}

// SessionContext is fixed at the first interaction and never changes afterwards.
type SessionContext struct {
	SessionID string
	Variant   Variant
	CreatedAt time.Time
}

// CompletionEvent is one "I did it" click. Done is always 1 when produced by
// this service but is kept as an integer so aggregation sums instead of counting.
type CompletionEvent struct {
	SessionID  string
	Timestamp  time.Time
	GoalType   string
	TimeBudget string
	TaskID     string
	Variant    Variant
	Done       int
}

// Day returns the UTC calendar day the event belongs to.
func (e CompletionEvent) Day() time.Time {
	return TruncateDay(e.Timestamp)
}

// TruncateDay maps any instant to midnight UTC of its calendar day.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
