package controller

import (
	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/pkg/serverutils"
	"eras-capsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICapsuleController interface {
	RegisterRoutes(r fiber.Router)
	Seal(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ListReceived(ctx *fiber.Ctx) error
	Open(ctx *fiber.Ctx) error
	CreateEcho(ctx *fiber.Ctx) error
	ListEchoes(ctx *fiber.Ctx) error
	MarkEchoRead(ctx *fiber.Ctx) error
}

type capsuleController struct {
	capsuleService service.ICapsuleService
	echoService    service.IEchoService
}

func NewCapsuleController(capsuleService service.ICapsuleService, echoService service.IEchoService) ICapsuleController {
	return &capsuleController{
		capsuleService: capsuleService,
		echoService:    echoService,
	}
}

func (c *capsuleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/capsule/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/seal", c.Seal)
	h.Get("", c.List)
	h.Get("/received", c.ListReceived)
	h.Get("/:id", c.Open)
	h.Post("/echo", c.CreateEcho)
	h.Get("/echoes/list", c.ListEchoes)
	h.Put("/echoes/:id/read", c.MarkEchoRead)
}

func currentUser(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func (c *capsuleController) Seal(ctx *fiber.Ctx) error {
	var req dto.SealCapsuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, _ := ctx.Locals("session_id").(string)
	res, err := c.capsuleService.Seal(ctx.Context(), sessionID, currentUser(ctx), &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Capsule sealed", res))
}

func (c *capsuleController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.capsuleService.List(ctx.Context(), currentUser(ctx), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Capsules", res))
}

func (c *capsuleController) ListReceived(ctx *fiber.Ctx) error {
	res, err := c.capsuleService.ListReceived(ctx.Context(), currentUser(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Received capsules", res))
}

func (c *capsuleController) Open(ctx *fiber.Ctx) error {
	capsuleID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid capsule ID"))
	}

	res, err := c.capsuleService.Open(ctx.Context(), currentUser(ctx), capsuleID)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Capsule", res))
}

func (c *capsuleController) CreateEcho(ctx *fiber.Ctx) error {
	var req dto.CreateEchoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.echoService.Create(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Echo sent", res))
}

func (c *capsuleController) ListEchoes(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	echoes, total, err := c.echoService.ListByOwner(ctx.Context(), currentUser(ctx), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Echoes", fiber.Map{"echoes": echoes, "total": total}))
}

func (c *capsuleController) MarkEchoRead(ctx *fiber.Ctx) error {
	echoID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid echo ID"))
	}

	if err := c.echoService.MarkRead(ctx.Context(), currentUser(ctx), echoID); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Echo marked read", nil))
}
