package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"critichub/internal/cache"
	"critichub/internal/config"
	"critichub/internal/database"
	"critichub/internal/handler"
	"critichub/internal/mailer"
	"critichub/internal/middleware"
	"critichub/internal/repository"
	"critichub/internal/service"
	"critichub/internal/token"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Rating cache is optional: without Redis every read recomputes.
	var ratings *cache.RatingCache
	if cfg.RedisURL != "" {
		ratings, err = cache.NewRatingCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			log.Fatalf("could not connect to redis: %v", err)
		}
		defer ratings.Close()
	} else {
		logger.Info("rating cache disabled, REDIS_URL not set")
	}

	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom, cfg.SMTPUser, cfg.SMTPPass)
	} else {
		logger.Info("SMTP_HOST not set, confirmation codes go to the log")
		sender = &mailer.LogSender{Logger: logger}
	}

	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, issuer, sender, logger, cfg.MailTimeout)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo, ratings)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratings)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identify(issuer, userRepo))

	// The limiter covers token exchange too: confirmation codes should
	// not be brute-forceable.
	auth := v1.Group("/auth", middleware.RateLimit(cfg.SignupRate, cfg.SignupBurst))
	handler.NewAuthHandler(authService).RegisterRoutes(auth)

	handler.NewUserHandler(userService).RegisterRoutes(v1)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1)
	handler.NewGenreHandler(genreService).RegisterRoutes(v1)
	handler.NewTitleHandler(titleService).RegisterRoutes(v1)
	handler.NewReviewHandler(reviewService).RegisterRoutes(v1)
	handler.NewCommentHandler(commentService).RegisterRoutes(v1)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
