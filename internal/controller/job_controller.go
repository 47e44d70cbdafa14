package controller

import (
	"net/url"

	"career-coach-be/internal/dto"
	"career-coach-be/internal/pkg/serverutils"
	"career-coach-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJobController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Match(ctx *fiber.Ctx) error
	Location(ctx *fiber.Ctx) error
}

type jobController struct {
	service service.IJobService
}

func NewJobController(service service.IJobService) IJobController {
	return &jobController{service: service}
}

func (c *jobController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/jobs/v1")
	h.Post("/search", c.Search)
	h.Post("/match", c.Match)
	h.Get("/location/:city", c.Location)
}

func (c *jobController) Search(ctx *fiber.Ctx) error {
	var req dto.JobSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search jobs", res))
}

func (c *jobController) Match(ctx *fiber.Ctx) error {
	var req dto.JobSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Match(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success match jobs", res))
}

func (c *jobController) Location(ctx *fiber.Ctx) error {
	city, err := url.PathUnescape(ctx.Params("city"))
	if err != nil || city == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid city"))
	}

	res := c.service.Location(ctx.Context(), city)

	return ctx.JSON(serverutils.SuccessResponse("Success get nearby companies", res))
}
