// handlers/ranking_routes.go
package handlers

import (
	"strconv"
	"time"

	"arcticcare-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(app *fiber.App, rankingService *services.RankingService) {
	app.Get("/ranking", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		windowed := c.Query("window") == "monthly"

		ranking, err := rankingService.Rank(windowed, page, limit, time.Now())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(ranking)
	})
}
