package handler

import (
	"strings"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/internal/pkg/serverutils"
	internalWS "ai-crm-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// LiveHandler upgrades browsers onto the contact event feed.
type LiveHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewLiveHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *LiveHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &LiveHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *LiveHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/live/v1")
	g.Get("/ws", h.ServeWs)
	g.Get("/status", h.Status)
}

func (h *LiveHandler) ServeWs(c *fiber.Ctx) error {
	if err := h.authorize(c); err != nil {
		return err
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("LiveHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			internalWS.ServeWs(h.hub, conn, h.logger)
			h.logger.Info("LiveHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *LiveHandler) Status(c *fiber.Ctx) error {
	return c.JSON(serverutils.SuccessResponse("Live feed status", dto.HealthResponse{
		Status:      "ok",
		LiveClients: h.hub.ClientCount(),
	}))
}

// authorize accepts the token from the query string (browsers cannot set
// headers on websocket upgrades) or the Authorization header.
func (h *LiveHandler) authorize(c *fiber.Ctx) error {
	if h.jwtSecret == "" {
		return nil
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr, _ = strings.CutPrefix(c.Get("Authorization"), "Bearer ")
	}
	if tokenStr == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("LiveHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	return nil
}
