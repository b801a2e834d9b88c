package handlers

import (
	"net/http"
	"testing"

	"arcticcare-api/middleware"
	"arcticcare-api/models"
	"arcticcare-api/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestApp wires the routes the way main does: one secured group shared by
// every setup function, so the user-context middleware runs once per request.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Contribution{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Issue{},
		&models.IssueConfirmation{},
		&models.Comment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	reward := services.NewRewardService(db)
	streak := services.NewStreakService(db)
	badges := services.NewBadgeService(db)
	users := services.NewUserService(db, reward, streak)
	issues := services.NewIssueService(db, reward, streak, badges)
	ranking := services.NewRankingService(db)
	metrics := services.NewMetricsService(db)

	app := fiber.New()
	secured := app.Group("/s", middleware.UserContextMiddleware())

	SetupUserRoutes(app, secured, users, reward, badges, ranking)
	SetupIssueRoutes(app, secured, issues, NewFeedHub())
	SetupRankingRoutes(app, ranking)
	SetupBadgeRoutes(app, secured, badges)
	SetupMetricsRoutes(secured, metrics)

	return app, db
}

func createRouteUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	user := models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
		Level: 1,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return &user
}

func TestSecuredRoutesRequireUserContext(t *testing.T) {
	app, db := newTestApp(t)
	user := createRouteUser(t, db, "alba", models.RoleCitizen)

	// routes registered by different setup functions, all behind the one group
	paths := []string{"/s/user/badges", "/s/user/contributions", "/s/institution/metrics"}
	for _, path := range paths {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s without X-User-ID: status = %d, want 401", path, resp.StatusCode)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "/s/user/badges", nil)
	req.Header.Set("X-User-ID", user.ID)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("with X-User-ID: status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsRouteRequiresInstitutionRole(t *testing.T) {
	app, db := newTestApp(t)
	citizen := createRouteUser(t, db, "breno", models.RoleCitizen)
	institution := createRouteUser(t, db, "prefeitura", models.RoleInstitution)

	req, _ := http.NewRequest(http.MethodGet, "/s/institution/metrics", nil)
	req.Header.Set("X-User-ID", citizen.ID)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("citizen metrics: status = %d, want 403", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, "/s/institution/metrics", nil)
	req.Header.Set("X-User-ID", institution.ID)
	req.Header.Set("X-User-Roles", "institution")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("institution metrics: status = %d, want 200", resp.StatusCode)
	}
}
