package dto

import (
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/dashboard"
)

type SessionResponse struct {
	SessionId    string         `json:"session_id"`
	Variant      entity.Variant `json:"variant"`
	VariantLabel string         `json:"variant_label"`
}

type VariantOption struct {
	Code  entity.Variant `json:"code"`
	Label string         `json:"label"`
}

type OptionsResponse struct {
	GoalTypes   []string        `json:"goal_types"`
	TimeBudgets []string        `json:"time_budgets"`
	Variants    []VariantOption `json:"variants"`
}

type MissionsRequest struct {
	GoalType   string `query:"goal_type" validate:"required,max=64"`
	TimeBudget string `query:"time_budget" validate:"required,max=32"`
}

type MissionResponse struct {
	TaskId string `json:"task_id"`
	Text   string `json:"text"`
}

type MissionsResponse struct {
	GoalType   string            `json:"goal_type"`
	TimeBudget string            `json:"time_budget"`
	Variant    entity.Variant    `json:"variant"`
	Missions   []MissionResponse `json:"missions"`
	Message    string            `json:"message,omitempty"`
}

type CreateCompletionRequest struct {
	GoalType   string `json:"goal_type" validate:"required,max=64"`
	TimeBudget string `json:"time_budget" validate:"required,max=32"`
	TaskId     string `json:"task_id" validate:"required,max=64"`
}

type CreateCompletionResponse struct {
	SessionId  string         `json:"session_id"`
	TaskId     string         `json:"task_id"`
	Variant    entity.Variant `json:"variant"`
	RecordedAt time.Time      `json:"recorded_at"`
}

type SummaryRequest struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

type SummaryResponse struct {
	Date    string            `json:"date"`
	HasLogs bool              `json:"has_logs"`
	Summary dashboard.Summary `json:"summary"`
}

// PartitionChangedMessage is the watermill payload announcing that a day's
// partition gained at least one row.
type PartitionChangedMessage struct {
	Date string `json:"date"`
}

// LiveMessage is the frame pushed to websocket clients.
type LiveMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
