package controller

import (
	"career-coach-be/internal/dto"
	"career-coach-be/internal/pkg/serverutils"
	"career-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResumeController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	Improve(ctx *fiber.Ctx) error
}

type resumeController struct {
	service service.IResumeService
}

func NewResumeController(service service.IResumeService) IResumeController {
	return &resumeController{service: service}
}

func (c *resumeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/resume/v1")
	h.Post("/analyze", c.Analyze)
	h.Post("/improve", c.Improve)
}

func (c *resumeController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeResumeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Analyze(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze resume", res))
}

func (c *resumeController) Improve(ctx *fiber.Ctx) error {
	var req dto.ImproveResumeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Improve(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success improve resume", res))
}
