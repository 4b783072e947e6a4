package services

import (
	"context"
	"fmt"
	"strings"

	"redditclone/internal/mapper"
	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/utils"

	"go.uber.org/zap"
)

const maxCommentLength = 10000

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	renderer utils.Renderer
	logger   *zap.Logger
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, renderer utils.Renderer, logger *zap.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		renderer: renderer,
		logger:   logger.Named("comment"),
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("comment text is required")
	}
	if len(text) > maxCommentLength {
		return nil, models.NewValidationError("comment is too long")
	}
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("post", in.PostID)
		}
		return nil, fmt.Errorf("load post %d: %w", in.PostID, err)
	}

	comment := &models.Comment{PostID: in.PostID, UserID: in.UserID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("create comment failed", zap.Uint("post_id", in.PostID), zap.Error(err))
		return nil, fmt.Errorf("create comment: %w", err)
	}

	row, err := s.comments.GetRow(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("reload comment %d: %w", comment.ID, err)
	}
	view := mapper.Comment(row, s.renderer)
	return &view, nil
}

// ListForPost returns the newest models.PageSize comments of a post. An
// unknown post has no comments.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	rows, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return mapper.Comments(rows, s.renderer), nil
}
