package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"redditclone/internal/config"
	"redditclone/internal/db"
	"redditclone/internal/handlers"
	"redditclone/internal/repository"
	"redditclone/internal/router"
	"redditclone/internal/services"
	"redditclone/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type app struct {
	engine *gin.Engine
	reset  *services.ResetService
	redis  *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// buildApp wires repositories, services and handlers onto a gin engine.
func buildApp(ctx context.Context, cfg *config.Config, conn *gorm.DB, logger *zap.Logger) (*app, error) {
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Session cache enabled")
	}

	renderer := utils.NewMarkdownRenderer()

	users := repository.NewUserRepository(conn)
	posts := repository.NewPostRepository(conn)
	comments := repository.NewCommentRepository(conn)
	subreddits := repository.NewSubredditRepository(conn)

	subredditService, err := services.NewSubredditService(subreddits, renderer, logger)
	if err != nil {
		return nil, err
	}
	postService := services.NewPostService(posts, subreddits, renderer, logger)
	commentService := services.NewCommentService(comments, posts, renderer, logger)
	voteService := services.NewVoteService(repository.NewVoteRepository(conn), posts, comments, logger)
	authService := services.NewAuthService(users, logger)
	sessionService := services.NewSessionService(repository.NewSessionRepository(conn), rdb, cfg.SessionTTL, logger)
	mailService := services.NewMailService(cfg, logger)
	resetService := services.NewResetService(users, repository.NewResetTokenRepository(conn), sessionService, mailService, cfg.BaseURL, cfg.ResetTokenTTL, logger)

	captcha, err := services.NewCaptchaService()
	if err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewEngine(router.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookie:  cfg.IsProduction(),
	}, sessionService, logger)
	router.RegisterRoutes(engine, router.Handlers{
		Auth:       handlers.NewAuthHandler(authService, sessionService, resetService, captcha, logger),
		Posts:      handlers.NewPostHandler(postService, commentService, subredditService, logger),
		Votes:      handlers.NewVoteHandler(voteService, logger),
		Subreddits: handlers.NewSubredditHandler(subredditService, logger),
		Users:      handlers.NewUserHandler(authService, postService, logger),
	})

	return &app{engine: engine, reset: resetService, redis: rdb}, nil
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withDatabase(ctx, func(cfg *config.Config, conn *gorm.DB, logger *zap.Logger) error {
		if err := db.Migrate(conn, logger); err != nil {
			return err
		}
		a, err := buildApp(ctx, cfg, conn, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           a.engine,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
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

		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
