package repository

import (
	"context"
	"time"

	"redditclone/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// Redeem consumes the token and sets the owner's password hash in one
	// transaction, also dropping every session the owner holds. Tokens created
	// before notBefore are deleted and reported as ErrExpired; a zero notBefore
	// disables the check. An unknown or already used token yields
	// gorm.ErrRecordNotFound.
	Redeem(ctx context.Context, tokenHash, passwordHash string, notBefore time.Time) (uint, error)
	DeleteExpired(ctx context.Context, notBefore time.Time) (int64, error)
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error
}

func (r *resetTokenRepository) Redeem(ctx context.Context, tokenHash, passwordHash string, notBefore time.Time) (uint, error) {
	var (
		userID  uint
		expired bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.PasswordResetToken
		if err := tx.Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
			return err
		}

		// 并发兑换时只有一个事务能删到这一行
		res := tx.Where("token_hash = ?", tokenHash).Delete(&models.PasswordResetToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !notBefore.IsZero() && token.CreatedAt.Before(notBefore) {
			expired = true
			return nil
		}

		res = tx.Model(&models.User{}).
			Where("id = ?", token.UserID).
			Update("password", passwordHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		userID = token.UserID
		return nil
	})
	if err != nil {
		return 0, err
	}
	if expired {
		return 0, ErrExpired
	}
	return userID, nil
}

func (r *resetTokenRepository) DeleteExpired(ctx context.Context, notBefore time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", notBefore).Delete(&models.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
