package controller

import (
	"errors"
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/pkg/serverutils"
	"starter-coach-be/internal/service"
	"starter-coach-be/pkg/eventlog"

	"github.com/gofiber/fiber/v2"
)

type ICoachController interface {
	RegisterRoutes(r fiber.Router)
	GetSession(ctx *fiber.Ctx) error
	GetOptions(ctx *fiber.Ctx) error
	GetMissions(ctx *fiber.Ctx) error
	CreateCompletion(ctx *fiber.Ctx) error
	GetSummary(ctx *fiber.Ctx) error
}

type coachController struct {
	coachService      service.ICoachService
	completionService service.ICompletionService
}

func NewCoachController(coachService service.ICoachService, completionService service.ICompletionService) ICoachController {
	return &coachController{
		coachService:      coachService,
		completionService: completionService,
	}
}

// RegisterRoutes expects serverutils.SessionMiddleware to run first.
func (c *coachController) RegisterRoutes(r fiber.Router) {
	r.Get("/session", c.GetSession)
	r.Get("/options", c.GetOptions)
	r.Get("/missions", c.GetMissions)
	r.Post("/completions", c.CreateCompletion)
	r.Get("/summary", c.GetSummary)
}

func (c *coachController) GetSession(ctx *fiber.Ctx) error {
	session := serverutils.SessionFrom(ctx)
	if session == nil {
		return fiber.ErrUnauthorized
	}
	return ctx.JSON(serverutils.SuccessResponse("Session", dto.SessionResponse{
		SessionId:    session.SessionID,
		Variant:      session.Variant,
		VariantLabel: session.Variant.Label(),
	}))
}

func (c *coachController) GetOptions(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Options", c.coachService.Options()))
}

func (c *coachController) GetMissions(ctx *fiber.Ctx) error {
	session := serverutils.SessionFrom(ctx)
	if session == nil {
		return fiber.ErrUnauthorized
	}

	var req dto.MissionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.coachService.Missions(session, &req)
	message := "Missions"
	if res.Message != "" {
		message = res.Message
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *coachController) CreateCompletion(ctx *fiber.Ctx) error {
	session := serverutils.SessionFrom(ctx)
	if session == nil {
		return fiber.ErrUnauthorized
	}

	var req dto.CreateCompletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.completionService.Record(ctx.UserContext(), session, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTask):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
		case errors.Is(err, eventlog.ErrStorageWrite):
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, constant.MessageCompletionFailed))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
		}
	}

	body := serverutils.SuccessResponse(constant.MessageCompletionRecorded, res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}

func (c *coachController) GetSummary(ctx *fiber.Ctx) error {
	var req dto.SummaryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	day := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.ParseInLocation(constant.DateLayout, req.Date, time.UTC)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		day = parsed
	}

	res := c.completionService.Summary(ctx.UserContext(), day)
	message := "Summary"
	if !res.HasLogs {
		message = constant.MessageNoLogsYet
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}
