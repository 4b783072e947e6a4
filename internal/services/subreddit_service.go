package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"redditclone/internal/mapper"
	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/utils"

	"go.uber.org/zap"
)

var subredditNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,30}$`)

const (
	subredditCacheSize = 256
	subredditCacheTTL  = 10 * time.Minute
	maxDescription     = 200
)

type CreateSubredditInput struct {
	Name        string
	Description string
	ModeratorID *uint
}

type SubredditService struct {
	subreddits repository.SubredditRepository
	renderer   utils.Renderer
	logger     *zap.Logger
	// 按名称缓存；只缓存命中的结果
	byName *utils.TTLCache[models.Subreddit]
}

func NewSubredditService(subreddits repository.SubredditRepository, renderer utils.Renderer, logger *zap.Logger) (*SubredditService, error) {
	cache, err := utils.NewTTLCache[models.Subreddit](subredditCacheSize, subredditCacheTTL)
	if err != nil {
		return nil, err
	}
	return &SubredditService{
		subreddits: subreddits,
		renderer:   renderer,
		logger:     logger.Named("subreddit"),
		byName:     cache,
	}, nil
}

func (s *SubredditService) Create(ctx context.Context, in CreateSubredditInput) (*models.SubredditView, error) {
	name := strings.TrimSpace(in.Name)
	if !subredditNamePattern.MatchString(name) {
		return nil, models.NewValidationError("subreddit name must be 2-30 letters, digits or underscores")
	}
	desc := strings.TrimSpace(in.Description)
	if len(desc) > maxDescription {
		return nil, models.NewValidationError(fmt.Sprintf("description must be at most %d characters", maxDescription))
	}

	sub := &models.Subreddit{Name: name, Description: desc, ModeratorID: in.ModeratorID}
	if err := s.subreddits.Create(ctx, sub); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, models.NewConflictError("A subreddit with this name already exists", err)
		}
		s.logger.Error("create subreddit failed", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("create subreddit: %w", err)
	}
	s.byName.Set(sub.Name, *sub)

	view := mapper.Subreddit(sub, s.renderer)
	return &view, nil
}

// List returns every subreddit, newest first.
func (s *SubredditService) List(ctx context.Context) ([]models.SubredditView, error) {
	subs, err := s.subreddits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subreddits: %w", err)
	}
	views := make([]models.SubredditView, 0, len(subs))
	for i := range subs {
		views = append(views, mapper.Subreddit(&subs[i], s.renderer))
	}
	return views, nil
}

// GetByName reports found=false when no subreddit has that name.
func (s *SubredditService) GetByName(ctx context.Context, name string) (*models.SubredditView, bool, error) {
	if sub, ok := s.byName.Get(name); ok {
		view := mapper.Subreddit(&sub, s.renderer)
		return &view, true, nil
	}

	sub, err := s.subreddits.GetByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get subreddit %q: %w", name, err)
	}
	s.byName.Set(sub.Name, *sub)

	view := mapper.Subreddit(sub, s.renderer)
	return &view, true, nil
}
