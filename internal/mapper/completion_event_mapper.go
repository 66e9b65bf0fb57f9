// FILE: internal/mapper/completion_event_mapper.go
// Mapper for CompletionEvent entity <-> model conversion
package mapper

import (
	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/model"
	"starter-coach-be/pkg/eventlog"

	"gorm.io/datatypes"
)

type CompletionEventMapper struct{}

func NewCompletionEventMapper() *CompletionEventMapper {
	return &CompletionEventMapper{}
}

func (m *CompletionEventMapper) ToModel(e *entity.CompletionEvent) *model.CompletionEvent {
	if e == nil {
		return nil
	}
	return &model.CompletionEvent{
		SessionId:  e.SessionID,
		Ts:         e.Timestamp.UTC(),
		LogDate:    datatypes.Date(e.Day()),
		GoalType:   e.GoalType,
		TimeBudget: e.TimeBudget,
		TaskId:     e.TaskID,
		Variant:    string(e.Variant),
		Done:       e.Done,
	}
}

func (m *CompletionEventMapper) ToEntity(mdl *model.CompletionEvent) *entity.CompletionEvent {
	if mdl == nil {
		return nil
	}
	return &entity.CompletionEvent{
		SessionID:  mdl.SessionId,
		Timestamp:  mdl.Ts.UTC(),
		GoalType:   mdl.GoalType,
		TimeBudget: mdl.TimeBudget,
		TaskID:     mdl.TaskId,
		Variant:    entity.Variant(mdl.Variant),
		Done:       mdl.Done,
	}
}

// ToRow converts a stored record to the read-back row shape.
func (m *CompletionEventMapper) ToRow(mdl *model.CompletionEvent) eventlog.Row {
	return eventlog.RowFromEvent(*m.ToEntity(mdl))
}

func (m *CompletionEventMapper) ToRows(models []*model.CompletionEvent) []eventlog.Row {
	rows := make([]eventlog.Row, 0, len(models))
	for _, mdl := range models {
		rows = append(rows, m.ToRow(mdl))
	}
	return rows
}
