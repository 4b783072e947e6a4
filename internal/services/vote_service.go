package services

import (
	"context"
	"fmt"

	"redditclone/internal/models"
	"redditclone/internal/repository"

	"go.uber.org/zap"
)

// VoteService records votes on posts and comments. Scores are never stored;
// they are summed from vote rows whenever a post or comment is read.
type VoteService struct {
	votes    repository.VoteRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *zap.Logger
}

func NewVoteService(votes repository.VoteRepository, posts repository.PostRepository, comments repository.CommentRepository, logger *zap.Logger) *VoteService {
	return &VoteService{
		votes:    votes,
		posts:    posts,
		comments: comments,
		logger:   logger.Named("vote"),
	}
}

// CastVote sets userID's vote on postID. Direction 0 clears an earlier vote.
func (s *VoteService) CastVote(ctx context.Context, postID, userID uint, direction int) error {
	if !models.ValidVoteDirection(direction) {
		return models.ErrInvalidVoteDirection
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("post", postID)
		}
		return fmt.Errorf("load post %d: %w", postID, err)
	}

	if err := s.votes.UpsertPostVote(ctx, postID, userID, direction); err != nil {
		s.logger.Error("upsert post vote failed",
			zap.Uint("post_id", postID), zap.Uint("user_id", userID), zap.Error(err))
		return fmt.Errorf("save vote: %w", err)
	}
	return nil
}

func (s *VoteService) CastCommentVote(ctx context.Context, commentID, userID uint, direction int) error {
	if !models.ValidVoteDirection(direction) {
		return models.ErrInvalidVoteDirection
	}
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("comment", commentID)
		}
		return fmt.Errorf("load comment %d: %w", commentID, err)
	}

	if err := s.votes.UpsertCommentVote(ctx, commentID, userID, direction); err != nil {
		s.logger.Error("upsert comment vote failed",
			zap.Uint("comment_id", commentID), zap.Uint("user_id", userID), zap.Error(err))
		return fmt.Errorf("save comment vote: %w", err)
	}
	return nil
}

// PostScore returns the current tally of postID.
func (s *VoteService) PostScore(ctx context.Context, postID uint) (models.VoteTally, error) {
	tally, err := s.votes.PostTally(ctx, postID)
	if err != nil {
		return models.VoteTally{}, fmt.Errorf("tally votes for post %d: %w", postID, err)
	}
	return tally, nil
}
