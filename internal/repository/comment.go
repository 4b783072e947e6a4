package repository

import (
	"context"

	"redditclone/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetRow(ctx context.Context, id uint) (*models.CommentRow, error)
	// ListByPost returns up to PageSize comments, newest first.
	ListByPost(ctx context.Context, postID uint) ([]models.CommentRow, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	c.id AS comments_id,
	c.post_id AS comments_post_id,
	c.text AS comments_text,
	c.created_at AS comments_created_at,
	c.updated_at AS comments_updated_at,
	u.id AS users_id,
	u.username AS users_username,
	COALESCE(SUM(cv.vote_direction), 0) AS vote_score`

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) GetRow(ctx context.Context, id uint) (*models.CommentRow, error) {
	var rows []models.CommentRow
	if err := r.baseQuery(ctx).Where("c.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.CommentRow, error) {
	rows := make([]models.CommentRow, 0)
	err := r.baseQuery(ctx).
		Where("c.post_id = ?", postID).
		Order("c.created_at DESC").
		Order("c.id DESC").
		Limit(models.PageSize).
		Scan(&rows).Error
	return rows, err
}

func (r *commentRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments AS c").
		Select(commentColumns).
		Joins("JOIN users u ON u.id = c.user_id").
		Joins("LEFT JOIN comment_votes cv ON cv.comment_id = c.id").
		Group("c.id, u.id")
}
