package controller

import (
	"time"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type healthController struct {
	logger  logger.ILogger
	started time.Time
}

func NewHealthController(log logger.ILogger) IHealthController {
	return &healthController{
		logger:  log,
		started: time.Now(),
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	h := r.Group("/admin/v1")
	h.Get("/logs", c.GetLogs)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", map[string]interface{}{
		"uptime_seconds": time.Since(c.started).Seconds(),
	}))
}

func (c *healthController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level", "")
	limit := ctx.QueryInt("limit", 50)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", logs))
}
