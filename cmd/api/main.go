package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lessonhub/lessonhub-api/internal/config"
	"github.com/lessonhub/lessonhub-api/internal/database"
	"github.com/lessonhub/lessonhub-api/internal/handler"
	"github.com/lessonhub/lessonhub-api/internal/middleware"
	"github.com/lessonhub/lessonhub-api/internal/models"
	"github.com/lessonhub/lessonhub-api/internal/repository"
	"github.com/lessonhub/lessonhub-api/internal/router"
	"github.com/lessonhub/lessonhub-api/internal/service"
	cloud "github.com/lessonhub/lessonhub-api/pkg/cloudinary"
	"github.com/lessonhub/lessonhub-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Lesson{},
		&models.ArkaningConfig{},
		&models.FlipperConfig{},
		&models.ComposerConfig{},
		&models.NewsArticleConfig{},
		&models.Assignment{},
		&models.PointTransaction{},
		&models.WordTap{},
		&models.LyricAttempt{},
		&models.NotificationLog{},
		&models.Badge{},
		&models.UserBadge{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, leaderboard caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, reward events disabled")
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SendGridAPIKey != "" {
		mail, err = mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress, logger)
		if err != nil {
			log.Fatalf("failed to create sendgrid client: %v", err)
		}
	} else {
		logger.Warn().Msg("sendgrid not configured, email delivery disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	wordTapRepo := repository.NewWordTapRepository(db)
	lyricAttemptRepo := repository.NewLyricAttemptRepository(db)
	notificationLogRepo := repository.NewNotificationLogRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	if err := badgeRepo.Seed(context.Background(), models.DefaultBadges()); err != nil {
		log.Fatalf("failed to seed badges: %v", err)
	}

	dispatcher := service.NewMailDispatcher(mail, notificationLogRepo, logger)
	ledgerService := service.NewLedgerService(ledgerRepo, badgeRepo, userRepo, redisClient, cfg.LeaderboardCacheTTL, natsConn, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, lessonRepo, userRepo, validate, dispatcher, logger)
	lessonService := service.NewLessonService(lessonRepo, assignmentService, validate, logger)
	uploadService := service.NewUploadService(uploader, cfg.AttachmentMaxSizeMB, logger)
	submissionService := service.NewSubmissionService(db, assignmentRepo, lyricAttemptRepo, validate, logger)
	gameService := service.NewGameService(db, assignmentRepo, wordTapRepo, ledgerService, validate, logger)
	gradingService := service.NewGradingService(db, assignmentRepo, ledgerService, dispatcher, validate, logger)
	marketplaceService := service.NewMarketplaceService(db, assignmentRepo, ledgerRepo, ledgerService, validate, logger)
	notifierService := service.NewNotifierService(assignmentRepo, lessonRepo, notificationLogRepo, assignmentService, dispatcher, logger)

	lessonHandler := handler.NewLessonHandler(lessonService, uploadService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, gradingService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, gameService, logger)
	marketplaceHandler := handler.NewMarketplaceHandler(marketplaceService, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(ledgerService, logger)
	cronHandler := handler.NewCronHandler(notifierService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		LessonHandler:      lessonHandler,
		AssignmentHandler:  assignmentHandler,
		SubmissionHandler:  submissionHandler,
		MarketplaceHandler: marketplaceHandler,
		LeaderboardHandler: leaderboardHandler,
		CronHandler:        cronHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
