// handlers/user_routes.go
package handlers

import (
	"strconv"
	"time"

	"arcticcare-api/middleware"
	"arcticcare-api/models"
	"arcticcare-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, secured fiber.Router, userService *services.UserService, rewardService *services.RewardService, badgeService *services.BadgeService, rankingService *services.RankingService) {
	// Registration is invoked by the auth service when an account is created.
	app.Post("/users", func(c *fiber.Ctx) error {
		var req struct {
			Name   string          `json:"name"`
			Email  string          `json:"email"`
			Avatar string          `json:"avatar"`
			Role   models.UserRole `json:"role"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		user, err := userService.Register(req.Name, req.Email, req.Avatar, req.Role)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		profile, err := userService.Profile(middleware.UserID(c), time.Now())
		if err != nil {
			return respondError(c, err)
		}

		rank, err := rankingService.PositionOf(profile.ID)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"id":            profile.ID,
			"name":          profile.Name,
			"avatar":        profile.Avatar,
			"role":          profile.Role,
			"points":        profile.Points,
			"level":         profile.Level,
			"levelProgress": profile.LevelProgress,
			"currentStreak": profile.CurrentStreak,
			"longestStreak": profile.LongestStreak,
			"lastActiveAt":  profile.LastActiveAt,
			"rank":          rank,
		})
	})

	secured.Get("/user/contributions", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		entries, total, err := rewardService.Contributions(middleware.UserID(c), page, limit)
		if err != nil {
			return respondError(c, err)
		}

		totalPages := int((total + int64(limit) - 1) / int64(limit))
		return c.JSON(fiber.Map{
			"contributions": entries,
			"page":          page,
			"limit":         limit,
			"total":         total,
			"totalPages":    totalPages,
		})
	})

	secured.Get("/user/badges", func(c *fiber.Ctx) error {
		badges, err := badgeService.UserBadges(middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(badges)
	})
}
