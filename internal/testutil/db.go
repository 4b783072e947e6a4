// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"redditclone/internal/db"
	"redditclone/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. The pool is pinned to a
// single connection so every query sees the same memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// Seed inserts a user, a subreddit and a post and returns them.
func Seed(t testing.TB, conn *gorm.DB) (*models.User, *models.Subreddit, *models.Post) {
	t.Helper()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	sub := &models.Subreddit{Name: "golang", Description: "The Go programming language"}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := conn.Create(sub).Error; err != nil {
		t.Fatalf("seed subreddit: %v", err)
	}
	text := "hello"
	post := &models.Post{UserID: user.ID, SubredditID: sub.ID, Title: "first", PostText: &text}
	if err := conn.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return user, sub, post
}

// Clock is a settable time source for TTL checks.
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }
