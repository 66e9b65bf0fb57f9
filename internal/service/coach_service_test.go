package service

import (
	"strings"
	"testing"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoachService_Options(t *testing.T) {
	svc := NewCoachService(catalog.Default())

	res := svc.Options()
	assert.Equal(t, catalog.Default().GoalTypes(), res.GoalTypes)
	assert.Equal(t, catalog.Default().TimeBudgets(), res.TimeBudgets)
	require.Len(t, res.Variants, 2)
	assert.Equal(t, entity.VariantA, res.Variants[0].Code)
	assert.Equal(t, "B: practical (ROI/results)", res.Variants[1].Label)
}

func TestCoachService_MissionsRenderedForVariant(t *testing.T) {
	cat := catalog.Default()
	svc := NewCoachService(cat)
	req := &dto.MissionsRequest{GoalType: "data analysis", TimeBudget: "10-minute"}
	tasks := cat.Lookup(req.GoalType, req.TimeBudget)
	require.NotEmpty(t, tasks)

	a := svc.Missions(&entity.SessionContext{SessionID: "s1", Variant: entity.VariantA}, req)
	b := svc.Missions(&entity.SessionContext{SessionID: "s2", Variant: entity.VariantB}, req)

	require.Len(t, a.Missions, len(tasks))
	require.Len(t, b.Missions, len(tasks))
	assert.Empty(t, a.Message)

	for i, task := range tasks {
		assert.Equal(t, task.TaskID, a.Missions[i].TaskId)
		assert.Equal(t, task.TaskID, b.Missions[i].TaskId)
		assert.True(t, strings.Contains(a.Missions[i].Text, task.CoreText))
		assert.True(t, strings.Contains(b.Missions[i].Text, task.CoreText))
		assert.NotEqual(t, a.Missions[i].Text, b.Missions[i].Text)
	}
	assert.Equal(t, entity.VariantB, b.Variant)
}

func TestCoachService_MissionsUnknownCombination(t *testing.T) {
	svc := NewCoachService(catalog.Default())

	res := svc.Missions(
		&entity.SessionContext{SessionID: "s1", Variant: entity.VariantA},
		&dto.MissionsRequest{GoalType: "knitting", TimeBudget: "10-minute"},
	)

	assert.NotNil(t, res.Missions)
	assert.Empty(t, res.Missions)
	assert.Equal(t, constant.MessageNoMatchingTasks, res.Message)
}
