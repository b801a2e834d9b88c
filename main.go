package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arcticcare-api/config"
	"arcticcare-api/handlers"
	"arcticcare-api/middleware"
	"arcticcare-api/models"
	"arcticcare-api/pkg/logger"
	"arcticcare-api/services"
	"arcticcare-api/utils"
	"arcticcare-api/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		logger.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // 25MB — issue photos
	})

	// Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.Auth.ServiceToken))

	allowedOriginsList := strings.Split(cfg.Server.AllowedOrigins, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Accept-Language, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	if cfg.Storage.Bucket != "" {
		if err := utils.InitR2(cfg.Storage); err != nil {
			logger.Fatal("failed to initialize R2 client: ", err)
		}
	} else {
		logger.Warn("R2_BUCKET_NAME not set — photo uploads disabled")
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database: ", err)
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
		logger.Fatal("failed to migrate database: ", err)
	}

	rewardService := services.NewRewardService(db)
	streakService := services.NewStreakService(db)
	badgeService := services.NewBadgeService(db)
	userService := services.NewUserService(db, rewardService, streakService)
	issueService := services.NewIssueService(db, rewardService, streakService, badgeService)
	rankingService := services.NewRankingService(db)
	metricsService := services.NewMetricsService(db)

	if err := badgeService.SeedDefaultBadges(); err != nil {
		logger.Fatal("failed to seed badges: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditor := workers.NewLedgerAuditor(db)
	go workers.PollLedgers(ctx, auditor, time.Duration(cfg.Jobs.LedgerAuditInterval)*time.Minute)

	issueService.StartArchiveScheduler(cfg.Jobs.ArchiveAfterDays, cfg.Jobs.ArchiveInterval)

	feedHub := handlers.NewFeedHub()

	// Single secured group: the user-context middleware runs once per request.
	secured := app.Group("/s", middleware.UserContextMiddleware())

	handlers.SetupUserRoutes(app, secured, userService, rewardService, badgeService, rankingService)
	handlers.SetupIssueRoutes(app, secured, issueService, feedHub)
	handlers.SetupRankingRoutes(app, rankingService)
	handlers.SetupBadgeRoutes(app, secured, badgeService)
	handlers.SetupMetricsRoutes(secured, metricsService)
	handlers.SetupFeedRoutes(app, feedHub)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			logger.Errorf("server error: %v", err)
		}
	}()

	logger.Infof("ArcticCare API running on http://localhost:%d", cfg.Server.Port)
	logger.Info("ledger audit worker running")
	logger.Infof("archive scheduler running (every %dm, archive after %dd)", cfg.Jobs.ArchiveInterval, cfg.Jobs.ArchiveAfterDays)

	<-ctx.Done()
	logger.Info("shutting down server...")
	_ = app.Shutdown()
}
