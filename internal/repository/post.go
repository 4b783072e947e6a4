package repository

import (
	"context"

	"redditclone/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a listing. Zero values mean "no restriction".
type PostFilter struct {
	SubredditID uint
	Username    string
	Sort        models.SortMethod
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetRow returns the aggregated, joined row for one post.
	GetRow(ctx context.Context, id uint) (*models.PostRow, error)
	List(ctx context.Context, filter PostFilter) ([]models.PostRow, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
	p.id AS posts_id,
	p.title AS posts_title,
	p.url AS posts_url,
	p.post_text AS posts_post_text,
	p.created_at AS posts_created_at,
	p.updated_at AS posts_updated_at,
	u.id AS users_id,
	u.username AS users_username,
	u.created_at AS users_created_at,
	u.updated_at AS users_updated_at,
	s.id AS subreddits_id,
	s.name AS subreddits_name,
	s.description AS subreddits_description,
	s.moderator_id AS subreddits_moderator_id,
	s.created_at AS subreddits_created_at,
	s.updated_at AS subreddits_updated_at,
	COALESCE(SUM(v.vote_direction), 0) AS vote_score,
	COALESCE(SUM(CASE WHEN v.vote_direction = 1 THEN 1 ELSE 0 END), 0) AS num_upvotes,
	COALESCE(SUM(CASE WHEN v.vote_direction = -1 THEN 1 ELSE 0 END), 0) AS num_downvotes`

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetRow(ctx context.Context, id uint) (*models.PostRow, error) {
	var rows []models.PostRow
	err := r.baseQuery(ctx).
		Where("p.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.PostRow, error) {
	q := r.baseQuery(ctx)
	if filter.SubredditID != 0 {
		q = q.Where("p.subreddit_id = ?", filter.SubredditID)
	}
	if filter.Username != "" {
		q = q.Where("u.username = ?", filter.Username)
	}

	rows := make([]models.PostRow, 0, models.PageSize)
	err := r.applySort(q, filter.Sort).
		Limit(models.PageSize).
		Scan(&rows).Error
	return rows, err
}

// Delete removes the post together with its votes and comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// baseQuery joins posts with their author, subreddit and votes, one row per post.
func (r *postRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts AS p").
		Select(postColumns).
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("JOIN subreddits s ON s.id = p.subreddit_id").
		Joins("LEFT JOIN votes v ON v.post_id = p.id").
		Group("p.id, u.id, s.id")
}

// applySort appends the ORDER BY for the requested sort. posts.id breaks ties
// so repeated reads without writes return the same order.
func (r *postRepository) applySort(q *gorm.DB, sort models.SortMethod) *gorm.DB {
	switch sort {
	case models.SortTop:
		return q.Order("vote_score DESC").Order("p.id DESC")
	case models.SortHot:
		return q.Order(hotScoreExpr(r.db.Dialector.Name()) + " DESC").Order("p.id DESC")
	default: // "new" and anything unrecognized
		return q.Order("p.created_at DESC").Order("p.id DESC")
	}
}

// hotScoreExpr is vote score / seconds since creation, floored at one second.
func hotScoreExpr(dialect string) string {
	var elapsed string
	switch dialect {
	case "sqlite":
		elapsed = "MAX((julianday('now') - julianday(p.created_at)) * 86400.0, 1)"
	default:
		elapsed = "GREATEST(EXTRACT(EPOCH FROM (NOW() - p.created_at)), 1)"
	}
	return "(COALESCE(SUM(v.vote_direction), 0) * 1.0 / " + elapsed + ")"
}
