package models

import (
	"time"
)

type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SubredditID uint      `gorm:"not null;index" json:"subreddit_id"`
	Subreddit   Subreddit `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Title       string    `gorm:"size:300;not null" json:"title"`
	URL         *string   `gorm:"size:2048" json:"url"`       // 链接帖
	PostText    *string   `gorm:"type:text" json:"post_text"` // 文本帖, 与 URL 二选一
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
