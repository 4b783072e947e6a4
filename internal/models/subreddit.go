package models

import (
	"time"
)

type Subreddit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:30;not null" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	ModeratorID *uint     `gorm:"index" json:"moderator_id"` // nil: 无版主
	Moderator   *User     `gorm:"foreignKey:ModeratorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsModerator reports whether userID moderates this subreddit.
func (s *Subreddit) IsModerator(userID uint) bool {
	return s.ModeratorID != nil && *s.ModeratorID == userID
}
