// handlers/badge_routes.go
package handlers

import (
	"arcticcare-api/middleware"
	"arcticcare-api/models"
	"arcticcare-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBadgeRoutes(app *fiber.App, secured fiber.Router, badgeService *services.BadgeService) {
	app.Get("/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.ListBadges()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(badges)
	})

	secured.Post("/badges/:id/unlock", func(c *fiber.Ctx) error {
		result, err := badgeService.TryUnlock(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	// Admin endpoints
	adminGroup := secured.Group("/admin")

	adminGroup.Post("/badges", func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		if !hasRole(roles, "admin") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin role required"})
		}

		var req struct {
			Name        string                  `json:"name"`
			Description string                  `json:"description"`
			Icon        string                  `json:"icon"`
			Points      int64                   `json:"points"`
			Category    string                  `json:"category"`
			Requirement models.BadgeRequirement `json:"requirement"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		badge := models.Badge{
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
			Points:      req.Points,
			Category:    req.Category,
			Requirement: req.Requirement,
		}
		if err := badgeService.CreateBadge(&badge); err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(badge)
	})
}
