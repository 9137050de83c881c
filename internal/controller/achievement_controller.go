package controller

import (
	"errors"

	"eras-capsule-be/internal/pkg/serverutils"
	"eras-capsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAchievementController interface {
	RegisterRoutes(r fiber.Router)
	ListAchievements(ctx *fiber.Ctx) error
	ListTitles(ctx *fiber.Ctx) error
	SelectTitle(ctx *fiber.Ctx) error
}

type achievementController struct {
	service service.IAchievementService
}

func NewAchievementController(service service.IAchievementService) IAchievementController {
	return &achievementController{service: service}
}

func (c *achievementController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/achievement/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.ListAchievements)
	h.Get("/titles", c.ListTitles)
	h.Put("/titles/selected", c.SelectTitle)
}

func (c *achievementController) ListAchievements(ctx *fiber.Ctx) error {
	res, err := c.service.ListUserAchievements(ctx.Context(), currentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Achievements", res))
}

func (c *achievementController) ListTitles(ctx *fiber.Ctx) error {
	res, err := c.service.ListUserTitles(ctx.Context(), currentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Titles", res))
}

func (c *achievementController) SelectTitle(ctx *fiber.Ctx) error {
	var req struct {
		Title *string `json:"title"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.SelectTitle(ctx.Context(), currentUser(ctx), req.Title); err != nil {
		if errors.Is(err, service.ErrTitleNotEarned) {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Title updated", nil))
}
