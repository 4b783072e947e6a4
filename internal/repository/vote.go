package repository

import (
	"context"
	"time"

	"redditclone/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	// UpsertPostVote writes the user's vote on a post in a single statement.
	// A second call for the same (post, user) pair overwrites the direction.
	UpsertPostVote(ctx context.Context, postID, userID uint, direction int) error
	UpsertCommentVote(ctx context.Context, commentID, userID uint, direction int) error
	PostTally(ctx context.Context, postID uint) (models.VoteTally, error)
	CommentTally(ctx context.Context, commentID uint) (models.VoteTally, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

const tallyColumns = `
	COALESCE(SUM(vote_direction), 0) AS vote_score,
	COALESCE(SUM(CASE WHEN vote_direction = 1 THEN 1 ELSE 0 END), 0) AS num_upvotes,
	COALESCE(SUM(CASE WHEN vote_direction = -1 THEN 1 ELSE 0 END), 0) AS num_downvotes`

func (r *voteRepository) UpsertPostVote(ctx context.Context, postID, userID uint, direction int) error {
	now := time.Now()
	vote := models.Vote{
		PostID:        postID,
		UserID:        userID,
		VoteDirection: direction,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vote_direction", "updated_at"}),
		}).
		Create(&vote).Error
}

func (r *voteRepository) UpsertCommentVote(ctx context.Context, commentID, userID uint, direction int) error {
	now := time.Now()
	vote := models.CommentVote{
		CommentID:     commentID,
		UserID:        userID,
		VoteDirection: direction,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vote_direction", "updated_at"}),
		}).
		Create(&vote).Error
}

func (r *voteRepository) PostTally(ctx context.Context, postID uint) (models.VoteTally, error) {
	var tally models.VoteTally
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select(tallyColumns).
		Where("post_id = ?", postID).
		Scan(&tally).Error
	return tally, err
}

func (r *voteRepository) CommentTally(ctx context.Context, commentID uint) (models.VoteTally, error) {
	var tally models.VoteTally
	err := r.db.WithContext(ctx).
		Model(&models.CommentVote{}).
		Select(tallyColumns).
		Where("comment_id = ?", commentID).
		Scan(&tally).Error
	return tally, err
}
