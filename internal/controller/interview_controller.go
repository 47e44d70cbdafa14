package controller

import (
	"net/url"

	"career-coach-be/internal/dto"
	"career-coach-be/internal/pkg/serverutils"
	"career-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Answer(ctx *fiber.Ctx) error
	Finish(ctx *fiber.Ctx) error
	Questions(ctx *fiber.Ctx) error
}

type interviewController struct {
	service service.IInterviewService
}

func NewInterviewController(service service.IInterviewService) IInterviewController {
	return &interviewController{service: service}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interview/v1")
	h.Post("/start", c.Start)
	h.Post("/answer", c.Answer)
	h.Post("/finish", c.Finish)
	h.Get("/questions/:job_title", c.Questions)
}

func (c *interviewController) Start(ctx *fiber.Ctx) error {
	var req dto.StartInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Start(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Interview started", res))
}

func (c *interviewController) Answer(ctx *fiber.Ctx) error {
	var req dto.AnswerInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Answer(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Answer evaluated", res))
}

func (c *interviewController) Finish(ctx *fiber.Ctx) error {
	var req dto.FinishInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Finish(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Interview finished", res))
}

func (c *interviewController) Questions(ctx *fiber.Ctx) error {
	jobTitle, err := url.PathUnescape(ctx.Params("job_title"))
	if err != nil || jobTitle == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid job title"))
	}

	level := ctx.Query("level")
	count := ctx.QueryInt("count", 5)

	res := c.service.QuestionsForRole(ctx.Context(), jobTitle, level, count)

	return ctx.JSON(serverutils.SuccessResponse("Success get interview questions", res))
}
