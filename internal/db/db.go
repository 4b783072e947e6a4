package db

import (
	"context"
	"fmt"
	"time"

	"redditclone/internal/config"
	"redditclone/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and sizes the connection pool. Every engine call
// borrows a pooled connection for its duration through db.WithContext.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.Int("max_open_conns", cfg.DBMaxOpenConns),
		zap.Int("max_idle_conns", cfg.DBMaxIdleConns))
	return conn, nil
}

// Models lists every table the engine owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Subreddit{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.CommentVote{},
		&models.Session{},
		&models.PasswordResetToken{},
	}
}

// Migrate creates or updates the schema and seeds the default subreddits.
func Migrate(conn *gorm.DB, logger *zap.Logger) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("Database migration completed")

	return seedSubreddits(conn, logger)
}

func seedSubreddits(conn *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := conn.Model(&models.Subreddit{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("Subreddits already seeded, skipping")
		return nil
	}

	subreddits := []models.Subreddit{
		{Name: "announcements", Description: "Site news and updates"},
		{Name: "programming", Description: "Computer programming"},
		{Name: "pics", Description: "Pictures and images"},
		{Name: "askreddit", Description: "Ask and answer thought-provoking questions"},
	}
	if err := conn.Create(&subreddits).Error; err != nil {
		return fmt.Errorf("seed subreddits: %w", err)
	}
	logger.Info("Initial subreddits created", zap.Int("count", len(subreddits)))
	return nil
}
