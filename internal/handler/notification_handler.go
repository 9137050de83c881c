package handler

import (
	"os"

	"eras-capsule-be/internal/mapper"
	"eras-capsule-be/internal/pkg/logger"
	"eras-capsule-be/internal/pkg/serverutils"
	"eras-capsule-be/internal/service"
	internalWS "eras-capsule-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NotificationHandler exposes the unified notification feed plus the
// websocket endpoint that streams new entries in real time.
type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(svc *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs upgrades the request to a websocket session. The token travels as
// a query parameter because browsers cannot set headers on the handshake.
func (h *NotificationHandler) ServeWs(ctx *fiber.Ctx) error {
	// 1. Token from query param, falling back to the Authorization header.
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "missing token"))
	}

	// 2. Validate with the same secret the HTTP middleware uses.
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in websocket handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "invalid token"))
	}

	// 3. Extract the user id claim.
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "invalid token claims"))
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "token missing user_id"))
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "invalid user id in token"))
	}

	// 4. Upgrade and hand the connection to the hub.
	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Websocket session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("NotificationHandler", "Websocket session ended", map[string]interface{}{"user_id": userID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotificationHandler) currentUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}
	return userID, nil
}

// List returns a page of the user's notifications with the unread count.
func (h *NotificationHandler) List(ctx *fiber.Ctx) error {
	userID, err := h.currentUser(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	items, total, err := h.service.GetNotifications(ctx.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}
	unread, err := h.service.GetUnreadCount(ctx.UserContext(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notifications retrieved", mapper.ToNotificationListResponse(items, total, unread)))
}

func (h *NotificationHandler) UnreadCount(ctx *fiber.Ctx) error {
	userID, err := h.currentUser(ctx)
	if err != nil {
		return err
	}

	count, err := h.service.GetUnreadCount(ctx.UserContext(), userID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Unread count retrieved", fiber.Map{"count": count}))
}

func (h *NotificationHandler) MarkAsRead(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.service.MarkAsRead(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notification marked as read", struct{}{}))
}

func (h *NotificationHandler) MarkAllAsRead(ctx *fiber.Ctx) error {
	userID, err := h.currentUser(ctx)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllAsRead(ctx.UserContext(), userID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("All notifications marked as read", struct{}{}))
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notification/v1")
	notif.Use(serverutils.JwtMiddleware)
	notif.Get("/", h.List)
	notif.Get("/unread-count", h.UnreadCount)
	notif.Patch("/:id/read", h.MarkAsRead)
	notif.Patch("/read-all", h.MarkAllAsRead)

	// The handshake carries its own token, so no middleware here.
	router.Get("/ws", h.ServeWs)
}
