package mapper

import (
	"testing"
	"time"

	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionEventMapper(t *testing.T) {
	m := NewCompletionEventMapper()
	kst := time.FixedZone("KST", 9*60*60)
	event := &entity.CompletionEvent{
		SessionID:  "sid-1",
		Timestamp:  time.Date(2026, 10, 16, 3, 0, 0, 0, kst),
		GoalType:   "portfolio",
		TimeBudget: "10-minute",
		TaskID:     "pf_goal",
		Variant:    entity.VariantB,
		Done:       1,
	}

	mdl := m.ToModel(event)
	require.NotNil(t, mdl)
	// 03:00 KST is still the previous UTC day.
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), time.Time(mdl.LogDate))
	assert.Equal(t, time.UTC, mdl.Ts.Location())
	assert.Equal(t, "B", mdl.Variant)

	row := m.ToRow(mdl)
	require.NotNil(t, row.Timestamp)
	assert.True(t, row.Timestamp.Equal(event.Timestamp))
	assert.Equal(t, "2026-10-15T18:00:00Z", row.RawTimestamp)
	assert.Equal(t, entity.VariantB, row.Variant)

	assert.Nil(t, m.ToModel(nil))
	assert.Nil(t, m.ToEntity(nil))
	assert.Empty(t, m.ToRows(nil))
	assert.Len(t, m.ToRows([]*model.CompletionEvent{mdl, mdl}), 2)
}
