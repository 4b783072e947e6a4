package repository

import (
	"context"

	"redditclone/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubredditRepository interface {
	Create(ctx context.Context, subreddit *models.Subreddit) error
	GetByID(ctx context.Context, id uint) (*models.Subreddit, error)
	GetByName(ctx context.Context, name string) (*models.Subreddit, error)
	List(ctx context.Context) ([]models.Subreddit, error)
}

type subredditRepository struct {
	db *gorm.DB
}

func NewSubredditRepository(db *gorm.DB) SubredditRepository {
	return &subredditRepository{db: db}
}

func (r *subredditRepository) Create(ctx context.Context, subreddit *models.Subreddit) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(subreddit).Error
}

func (r *subredditRepository) GetByID(ctx context.Context, id uint) (*models.Subreddit, error) {
	var sub models.Subreddit
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subredditRepository) GetByName(ctx context.Context, name string) (*models.Subreddit, error) {
	var sub models.Subreddit
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// List returns every subreddit, newest first.
func (r *subredditRepository) List(ctx context.Context) ([]models.Subreddit, error) {
	var subs []models.Subreddit
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&subs).Error
	return subs, err
}
