package models

import (
	"time"
)

// Vote directions. 0 clears a previous vote without deleting the row.
const (
	VoteDown    = -1
	VoteNeutral = 0
	VoteUp      = 1
)

// ValidVoteDirection reports whether d is one of -1, 0, 1.
func ValidVoteDirection(d int) bool {
	return d == VoteDown || d == VoteNeutral || d == VoteUp
}

// Vote is keyed on (post_id, user_id): one row per user per post.
type Vote struct {
	PostID        uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Post          Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID        uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoteDirection int       `gorm:"not null;default:0" json:"vote_direction"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CommentVote is keyed on (comment_id, user_id).
type CommentVote struct {
	CommentID     uint      `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
	Comment       Comment   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID        uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoteDirection int       `gorm:"not null;default:0" json:"vote_direction"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VoteTally is the read-time aggregate of a vote set.
type VoteTally struct {
	VoteScore    int64 `json:"vote_score"`
	NumUpvotes   int64 `json:"num_upvotes"`
	NumDownvotes int64 `json:"num_downvotes"`
}
