package controller

import (
	"career-coach-be/internal/dto"
	"career-coach-be/internal/pkg/serverutils"
	"career-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICoachController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
}

type coachController struct {
	service service.ICoachService
}

func NewCoachController(service service.ICoachService) ICoachController {
	return &coachController{service: service}
}

func (c *coachController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/coach/v1")
	h.Post("/ask", c.Ask)
	h.Get("/history/:user_id", c.History)
}

func (c *coachController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Ask(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process query", res))
}

func (c *coachController) History(ctx *fiber.Ctx) error {
	userID := ctx.Params("user_id")
	if userID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "user_id is required"))
	}
	limit := ctx.QueryInt("limit", 20)

	res, err := c.service.History(ctx.Context(), userID, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}
