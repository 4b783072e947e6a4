package models

import (
	"time"
)

// PublicUser is every outward projection of a User; it has no password field.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type SubredditView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"` // rendered HTML
	ModeratorID *uint     `json:"moderator_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (v SubredditView) IsModerator(userID uint) bool {
	return (&Subreddit{ModeratorID: v.ModeratorID}).IsModerator(userID)
}

type PostView struct {
	ID           uint          `json:"id"`
	Title        string        `json:"title"`
	URL          *string       `json:"url"`
	PostText     *string       `json:"post_text"` // rendered HTML
	IsImage      bool          `json:"is_image"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	VoteScore    int64         `json:"vote_score"`
	NumUpvotes   int64         `json:"num_upvotes"`
	NumDownvotes int64         `json:"num_downvotes"`
	HotScore     float64       `json:"hot_score"`
	User         PublicUser    `json:"user"`
	Subreddit    SubredditView `json:"subreddit"`
}

type CommentView struct {
	ID        uint       `json:"id"`
	PostID    uint       `json:"post_id"`
	Text      string     `json:"text"` // rendered HTML
	VoteScore int64      `json:"vote_score"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	User      PublicUser `json:"user"`
}

// PostRow is one flat row of the posts ⋈ users ⋈ subreddits ⟕ votes query.
type PostRow struct {
	PostsID             uint      `gorm:"column:posts_id"`
	PostsTitle          string    `gorm:"column:posts_title"`
	PostsURL            *string   `gorm:"column:posts_url"`
	PostsPostText       *string   `gorm:"column:posts_post_text"`
	PostsCreatedAt      time.Time `gorm:"column:posts_created_at"`
	PostsUpdatedAt      time.Time `gorm:"column:posts_updated_at"`
	UsersID             uint      `gorm:"column:users_id"`
	UsersUsername       string    `gorm:"column:users_username"`
	UsersCreatedAt      time.Time `gorm:"column:users_created_at"`
	UsersUpdatedAt      time.Time `gorm:"column:users_updated_at"`
	SubredditsID        uint      `gorm:"column:subreddits_id"`
	SubredditsName      string    `gorm:"column:subreddits_name"`
	SubredditsDesc      *string   `gorm:"column:subreddits_description"`
	SubredditsModerator *uint     `gorm:"column:subreddits_moderator_id"`
	SubredditsCreatedAt time.Time `gorm:"column:subreddits_created_at"`
	SubredditsUpdatedAt time.Time `gorm:"column:subreddits_updated_at"`
	VoteScore           int64     `gorm:"column:vote_score"`
	NumUpvotes          int64     `gorm:"column:num_upvotes"`
	NumDownvotes        int64     `gorm:"column:num_downvotes"`
}

// CommentRow is one flat row of the comments ⋈ users ⟕ comment_votes query.
type CommentRow struct {
	CommentsID        uint      `gorm:"column:comments_id"`
	CommentsPostID    uint      `gorm:"column:comments_post_id"`
	CommentsText      string    `gorm:"column:comments_text"`
	CommentsCreatedAt time.Time `gorm:"column:comments_created_at"`
	CommentsUpdatedAt time.Time `gorm:"column:comments_updated_at"`
	UsersID           uint      `gorm:"column:users_id"`
	UsersUsername     string    `gorm:"column:users_username"`
	VoteScore         int64     `gorm:"column:vote_score"`
}
