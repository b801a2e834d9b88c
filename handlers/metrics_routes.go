// handlers/metrics_routes.go
package handlers

import (
	"time"

	"arcticcare-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMetricsRoutes(secured fiber.Router, metricsService *services.MetricsService) {
	secured.Get("/institution/metrics", func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		if !hasRole(roles, "institution", "admin") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "institution role required"})
		}

		overview, err := metricsService.Overview(time.Now())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(overview)
	})
}
