package service

import (
	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/entity"
	"starter-coach-be/pkg/catalog"
	"starter-coach-be/pkg/copywriter"
)

type ICoachService interface {
	Options() *dto.OptionsResponse
	Missions(session *entity.SessionContext, req *dto.MissionsRequest) *dto.MissionsResponse
}

type coachService struct {
	catalog *catalog.Catalog
}

func NewCoachService(c *catalog.Catalog) ICoachService {
	return &coachService{catalog: c}
}

func (s *coachService) Options() *dto.OptionsResponse {
	variants := make([]dto.VariantOption, 0, len(entity.Variants))
	for _, v := range entity.Variants {
		variants = append(variants, dto.VariantOption{Code: v, Label: v.Label()})
	}
	return &dto.OptionsResponse{
		GoalTypes:   s.catalog.GoalTypes(),
		TimeBudgets: s.catalog.TimeBudgets(),
		Variants:    variants,
	}
}

// Missions renders the bucket in the session's tone. An unknown combination
// is not an error; it yields an empty list and a hint for the page.
func (s *coachService) Missions(session *entity.SessionContext, req *dto.MissionsRequest) *dto.MissionsResponse {
	tasks := s.catalog.Lookup(req.GoalType, req.TimeBudget)

	res := &dto.MissionsResponse{
		GoalType:   req.GoalType,
		TimeBudget: req.TimeBudget,
		Variant:    session.Variant,
		Missions:   make([]dto.MissionResponse, 0, len(tasks)),
	}
	for _, t := range tasks {
		res.Missions = append(res.Missions, dto.MissionResponse{
			TaskId: t.TaskID,
			Text:   copywriter.Render(t.CoreText, string(session.Variant)),
		})
	}
	if len(res.Missions) == 0 {
		res.Message = constant.MessageNoMatchingTasks
	}
	return res
}
