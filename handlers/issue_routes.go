// handlers/issue_routes.go
package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"arcticcare-api/middleware"
	"arcticcare-api/models"
	"arcticcare-api/pkg/logger"
	"arcticcare-api/services"
	"arcticcare-api/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func SetupIssueRoutes(app *fiber.App, secured fiber.Router, issueService *services.IssueService, hub *FeedHub) {
	// Public reads
	app.Get("/issues/nearby", func(c *fiber.Ctx) error {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
		if err1 != nil || err2 != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lat and lng query parameters are required"})
		}
		radius, _ := strconv.ParseFloat(c.Query("radius", "5"), 64)

		issues, err := issueService.Nearby(lat, lng, radius)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"issues": issues, "count": len(issues)})
	})

	app.Get("/issues", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		issues, total, err := issueService.List(services.IssueFilter{
			Category: models.IssueCategory(c.Query("category")),
			Status:   models.IssueStatus(c.Query("status")),
			Severity: models.IssueSeverity(c.Query("severity")),
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			return respondError(c, err)
		}

		totalPages := int((total + int64(limit) - 1) / int64(limit))
		return c.JSON(fiber.Map{
			"issues":     issues,
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		})
	})

	app.Get("/issues/:id", func(c *fiber.Ctx) error {
		issue, err := issueService.Get(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(issue)
	})

	app.Get("/issues/:id/comments", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		comments, total, err := issueService.Comments(c.Params("id"), page, limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"comments": comments,
			"page":     page,
			"limit":    limit,
			"total":    total,
		})
	})

	// Secured writes
	secured.Post("/issues", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var in services.ReportInput
		if form, err := c.MultipartForm(); err == nil && form != nil {
			lat, _ := strconv.ParseFloat(c.FormValue("latitude"), 64)
			lng, _ := strconv.ParseFloat(c.FormValue("longitude"), 64)
			in = services.ReportInput{
				Title:       c.FormValue("title"),
				Description: c.FormValue("description"),
				Category:    models.IssueCategory(c.FormValue("category")),
				Severity:    models.IssueSeverity(c.FormValue("severity")),
				Latitude:    lat,
				Longitude:   lng,
			}

			if fileHeader, err := c.FormFile("photo"); err == nil {
				key := fmt.Sprintf("issues/%s-%s%s",
					slug.Make(in.Title), uuid.NewString()[:8], filepath.Ext(fileHeader.Filename))
				url, err := utils.UploadIssuePhoto(fileHeader, key)
				if err != nil {
					logger.Errorf("photo upload failed: %v", err)
					return respondError(c, err)
				}
				in.PhotoURL = url
			}
		} else if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		issue, err := issueService.Report(userID, in, time.Now())
		if err != nil {
			return respondError(c, err)
		}

		hub.BroadcastIssue(issue)
		return c.Status(fiber.StatusCreated).JSON(issue)
	})

	secured.Post("/issues/:id/confirm", func(c *fiber.Ctx) error {
		issue, err := issueService.Confirm(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(issue)
	})

	secured.Post("/issues/:id/comments", func(c *fiber.Ctx) error {
		var req struct {
			Body string `json:"body"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		comment, err := issueService.AddComment(middleware.UserID(c), c.Params("id"), req.Body)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	secured.Post("/issues/:id/resolve", func(c *fiber.Ctx) error {
		issue, err := issueService.Resolve(middleware.UserID(c), c.Params("id"), time.Now())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(issue)
	})

	secured.Post("/issues/:id/analyze", func(c *fiber.Ctx) error {
		result, err := issueService.Analyze(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(result)
	})
}
