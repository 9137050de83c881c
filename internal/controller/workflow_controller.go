package controller

import (
	"errors"

	"eras-capsule-be/internal/dto"
	"eras-capsule-be/internal/pkg/serverutils"
	"eras-capsule-be/internal/service"
	"eras-capsule-be/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router)
	GetState(ctx *fiber.Ctx) error
	ChangeTab(ctx *fiber.Ctx) error
	SetMedia(ctx *fiber.Ctx) error
	AddMedia(ctx *fiber.Ctx) error
	RemoveMedia(ctx *fiber.Ctx) error
	SetStep(ctx *fiber.Ctx) error
	SetTheme(ctx *fiber.Ctx) error
	ImportVaultMedia(ctx *fiber.Ctx) error
	UncheckVault(ctx *fiber.Ctx) error
	CompleteEnhancement(ctx *fiber.Ctx) error
}

type workflowController struct {
	service service.IWorkflowService
}

func NewWorkflowController(service service.IWorkflowService) IWorkflowController {
	return &workflowController{service: service}
}

func (c *workflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/state", c.GetState)
	h.Post("/tab", c.ChangeTab)
	h.Put("/media", c.SetMedia)
	h.Post("/media", c.AddMedia)
	h.Delete("/media/:id", c.RemoveMedia)
	h.Put("/step", c.SetStep)
	h.Put("/theme", c.SetTheme)
	h.Post("/vault/import", c.ImportVaultMedia)
	h.Post("/vault/uncheck", c.UncheckVault)
	h.Post("/enhancement/complete", c.CompleteEnhancement)
}

func sessionKeys(ctx *fiber.Ctx) (sessionID, userID string) {
	sessionID, _ = ctx.Locals("session_id").(string)
	userID, _ = ctx.Locals("user_id").(string)
	if sessionID == "" {
		// Tokens minted before the gate flow carry no session; fall back to
		// one session per user.
		sessionID = userID
	}
	return sessionID, userID
}

func (c *workflowController) GetState(ctx *fiber.Ctx) error {
	sessionID, userID := sessionKeys(ctx)
	res := c.service.GetState(sessionID, userID)
	return ctx.JSON(serverutils.SuccessResponse("Workflow state", res))
}

// ChangeTab runs the guarded transition. A declined confirmation comes back
// as 409; the client retries with force=true once the user agrees to
// discard.
func (c *workflowController) ChangeTab(ctx *fiber.Ctx) error {
	var req dto.ChangeTabRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	res, err := c.service.ChangeTab(sessionID, userID, &req)
	if err != nil {
		if errors.Is(err, workflow.ErrConfirmationDeclined) {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, "Leaving now discards unsaved work. Repeat with force=true to confirm."))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tab changed", res))
}

func (c *workflowController) SetMedia(ctx *fiber.Ctx) error {
	var req dto.SetMediaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Media replaced", c.service.SetMedia(sessionID, userID, &req)))
}

func (c *workflowController) AddMedia(ctx *fiber.Ctx) error {
	var req dto.AddMediaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Media added", c.service.AddMedia(sessionID, userID, &req)))
}

func (c *workflowController) RemoveMedia(ctx *fiber.Ctx) error {
	mediaID := ctx.Params("id")
	sessionID, userID := sessionKeys(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Media removed", c.service.RemoveMedia(sessionID, userID, mediaID)))
}

func (c *workflowController) SetStep(ctx *fiber.Ctx) error {
	var req dto.SetStepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Step updated", c.service.SetStep(sessionID, userID, &req)))
}

func (c *workflowController) SetTheme(ctx *fiber.Ctx) error {
	var req dto.SetThemeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Theme updated", c.service.SetTheme(sessionID, userID, &req)))
}

func (c *workflowController) ImportVaultMedia(ctx *fiber.Ctx) error {
	var req dto.VaultImportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Vault media imported", c.service.ImportVaultMedia(sessionID, userID, &req)))
}

func (c *workflowController) UncheckVault(ctx *fiber.Ctx) error {
	var req dto.VaultUncheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	removed, state := c.service.UncheckVault(sessionID, userID, &req)
	if !removed {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "No imported media under that key"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Vault media unchecked", state))
}

func (c *workflowController) CompleteEnhancement(ctx *fiber.Ctx) error {
	var req dto.EnhancementCompleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sessionID, userID := sessionKeys(ctx)
	applied, state := c.service.CompleteEnhancement(sessionID, userID, &req)
	if !applied {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Original media not found in draft"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Enhancement applied", state))
}
