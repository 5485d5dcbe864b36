package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicsync-triage/config"
	"civicsync-triage/controllers"
	"civicsync-triage/middlewares"
	"civicsync-triage/repositories"
	"civicsync-triage/routes"
	"civicsync-triage/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	settings, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stdout, settings.LogLevel)
	slog.SetDefault(logger)

	if err := run(settings, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := config.ConnectDB(ctx, settings)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("MongoDB disconnect failed", "error", err)
		}
	}()
	if err := config.EnsureIndexes(db); err != nil {
		return err
	}

	rdb, err := config.ConnectRedis(ctx, settings)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_ADDRESS not set, issue creation is not rate limited")
	}

	issueRepo := repositories.NewIssueRepository(db.Collection(config.IssuesCollection))
	voteRepo := repositories.NewVoteRepository(db.Collection(config.VotesCollection))
	commentRepo := repositories.NewCommentRepository(db.Collection(config.CommentsCollection))
	userRepo := repositories.NewUserRepository(db.Collection(config.UsersCollection))

	voteService := services.NewVoteService(voteRepo, issueRepo)
	commentService := services.NewCommentService(commentRepo, issueRepo)
	issueService := services.NewIssueService(issueRepo, voteService, commentService,
		services.WithEnrichTimeout(settings.EnrichTimeout),
		services.WithLogger(logger),
	)
	authService := services.NewAuthService(userRepo, logger)

	if err := authService.SeedAdmin(ctx, settings.AdminName, settings.AdminEmail, settings.AdminPassword); err != nil {
		return err
	}

	if err := controllers.RegisterValidators(); err != nil {
		return err
	}

	if settings.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Deps{
		Auth: controllers.NewAuthController(authService, settings.JWTSecret, settings.TokenTTL, controllers.CookieSettings{
			Domain:     settings.CookieDomain,
			Production: settings.Production(),
		}),
		Issues:       controllers.NewIssueController(issueService, voteService, commentService),
		JWTSecret:    settings.JWTSecret,
		IssueLimiter: middlewares.IssueRateLimiter(rdb, settings.IssueLimitQueue, settings.IssueCreateLimit, settings.IssueLimitWindow),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", settings.Port, "env", settings.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
