package controller

import (
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/pkg/serverutils"
	"eras-capsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVaultController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SetFavorite(ctx *fiber.Ctx) error
}

type vaultController struct {
	service service.IVaultService
}

func NewVaultController(service service.IVaultService) IVaultController {
	return &vaultController{service: service}
}

func (c *vaultController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/vault/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/upload", c.Upload)
	h.Get("", c.List)
	h.Delete(":id", c.Delete)
	h.Put(":id/favorite", c.SetFavorite)
}

func (c *vaultController) Upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing file"))
	}
	mediaType := ctx.FormValue("type", "photo")

	res, err := c.service.Upload(ctx, currentUser(ctx), mediaType, file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Media vaulted", res))
}

func (c *vaultController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), currentUser(ctx), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vault media", res))
}

func (c *vaultController) Delete(ctx *fiber.Ctx) error {
	mediaID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid media ID"))
	}

	if err := c.service.Delete(ctx.Context(), currentUser(ctx), mediaID); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Media deleted", nil))
}

func (c *vaultController) SetFavorite(ctx *fiber.Ctx) error {
	mediaID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid media ID"))
	}

	var req dto.SetFavoriteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.SetFavorite(ctx.Context(), currentUser(ctx), mediaID, req.Favorite); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Favorite updated", nil))
}
