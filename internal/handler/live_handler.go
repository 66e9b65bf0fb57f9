package handler

import (
	"context"
	"encoding/json"
	"time"

	"starter-coach-be/internal/constant"
	"starter-coach-be/internal/dto"
	"starter-coach-be/internal/entity"
	"starter-coach-be/internal/pkg/logger"
	"starter-coach-be/internal/service"
	internalWS "starter-coach-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveHandler streams summary frames to dashboards over a websocket.
type LiveHandler struct {
	hub         *internalWS.Hub
	completions service.ICompletionService
	logger      logger.ILogger
}

func NewLiveHandler(hub *internalWS.Hub, completions service.ICompletionService, log logger.ILogger) *LiveHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LiveHandler{
		hub:         hub,
		completions: completions,
		logger:      log,
	}
}

func (h *LiveHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.RequireUpgrade, websocket.New(h.serve))
}

// RequireUpgrade rejects plain HTTP requests to the websocket route.
func (h *LiveHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *LiveHandler) serve(conn *websocket.Conn) {
	session, ok := conn.Locals(constant.SessionLocalKey).(*entity.SessionContext)
	if !ok {
		conn.Close()
		return
	}

	// The dashboard starts from today's numbers instead of waiting for the
	// next completion.
	summary := h.completions.Summary(context.Background(), time.Now().UTC())
	initial, err := json.Marshal(dto.LiveMessage{Type: "summary", Data: summary})
	if err != nil {
		initial = nil
	}

	h.logger.Info("LiveHandler", "Starting WebSocket session", map[string]interface{}{"session_id": session.SessionID})
	internalWS.ServeWs(h.hub, conn, session.SessionID, initial)
	h.logger.Info("LiveHandler", "WebSocket session ended", map[string]interface{}{"session_id": session.SessionID})
}
