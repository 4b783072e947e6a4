package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"redditclone/internal/mapper"
	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/utils"

	"go.uber.org/zap"
)

const maxTitleLength = 300

type ListPostsInput struct {
	Sort        models.SortMethod
	SubredditID uint // 0: all subreddits
}

type CreatePostInput struct {
	UserID      uint
	SubredditID uint
	Title       string
	URL         string
	PostText    string
}

type PostService struct {
	posts      repository.PostRepository
	subreddits repository.SubredditRepository
	renderer   utils.Renderer
	logger     *zap.Logger
	now        func() time.Time
}

func NewPostService(posts repository.PostRepository, subreddits repository.SubredditRepository, renderer utils.Renderer, logger *zap.Logger) *PostService {
	return &PostService{
		posts:      posts,
		subreddits: subreddits,
		renderer:   renderer,
		logger:     logger.Named("post"),
		now:        time.Now,
	}
}

// ListPosts returns at most models.PageSize posts in the requested order.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostView, error) {
	rows, err := s.posts.List(ctx, repository.PostFilter{
		SubredditID: in.SubredditID,
		Sort:        in.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return mapper.Posts(rows, s.renderer, s.now()), nil
}

// ListPostsByAuthor is ListPosts restricted to one author. An unknown
// username yields an empty list.
func (s *PostService) ListPostsByAuthor(ctx context.Context, username string, sort models.SortMethod) ([]models.PostView, error) {
	rows, err := s.posts.List(ctx, repository.PostFilter{Username: username, Sort: sort})
	if err != nil {
		return nil, fmt.Errorf("list posts by %q: %w", username, err)
	}
	return mapper.Posts(rows, s.renderer, s.now()), nil
}

// GetPost reports found=false for an unknown id instead of an error.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostView, bool, error) {
	row, err := s.posts.GetRow(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get post %d: %w", id, err)
	}
	view := mapper.Post(row, s.renderer, s.now())
	return &view, true, nil
}

// CreatePost stores a link post or a text post; exactly one of URL and
// PostText must be given. A URL without scheme gets https://.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, models.NewValidationError(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if in.SubredditID == 0 {
		return nil, models.NewValidationError("There is no subreddit id")
	}

	link := strings.TrimSpace(in.URL)
	text := strings.TrimSpace(in.PostText)
	if (link == "") == (text == "") {
		return nil, models.NewValidationError("a post needs either a url or a text, not both")
	}

	if _, err := s.subreddits.GetByID(ctx, in.SubredditID); err != nil {
		if repository.IsNotFound(err) {
			return nil, models.NewNotFoundError("subreddit", in.SubredditID)
		}
		return nil, fmt.Errorf("load subreddit %d: %w", in.SubredditID, err)
	}

	post := &models.Post{
		UserID:      in.UserID,
		SubredditID: in.SubredditID,
		Title:       title,
	}
	if link != "" {
		normalized := mapper.NormalizeURL(link)
		post.URL = &normalized
	} else {
		post.PostText = &text
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("create post failed", zap.Uint("user_id", in.UserID), zap.Error(err))
		return nil, fmt.Errorf("create post: %w", err)
	}

	view, found, err := s.GetPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.NewNotFoundError("post", post.ID)
	}
	return view, nil
}

// DeletePost removes a post with its comments and votes. Only the author or
// the subreddit's moderator may do it.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("post", postID)
		}
		return fmt.Errorf("load post %d: %w", postID, err)
	}

	if post.UserID != userID {
		sub, err := s.subreddits.GetByID(ctx, post.SubredditID)
		if err != nil && !repository.IsNotFound(err) {
			return fmt.Errorf("load subreddit %d: %w", post.SubredditID, err)
		}
		if sub == nil || !sub.IsModerator(userID) {
			return models.NewForbiddenError("only the author or a moderator can delete this post")
		}
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		if repository.IsNotFound(err) {
			return models.NewNotFoundError("post", postID)
		}
		return fmt.Errorf("delete post %d: %w", postID, err)
	}
	s.logger.Info("post deleted", zap.Uint("post_id", postID), zap.Uint("by", userID))
	return nil
}
