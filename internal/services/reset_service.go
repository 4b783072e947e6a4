package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/utils"

	"go.uber.org/zap"
)

// Notifier delivers the password reset link to the account's email.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

type ResetService struct {
	users    repository.UserRepository
	tokens   repository.ResetTokenRepository
	sessions *SessionService
	notifier Notifier
	baseURL  string
	ttl      time.Duration // 0: tokens never expire
	logger   *zap.Logger
	now      func() time.Time
}

func NewResetService(users repository.UserRepository, tokens repository.ResetTokenRepository, sessions *SessionService, notifier Notifier, baseURL string, ttl time.Duration, logger *zap.Logger) *ResetService {
	return &ResetService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		notifier: notifier,
		baseURL:  strings.TrimRight(baseURL, "/"),
		ttl:      ttl,
		logger:   logger.Named("reset"),
		now:      time.Now,
	}
}

// ResetLink is the page a reset token is redeemed on.
func (s *ResetService) ResetLink(token string) string {
	return s.baseURL + "/auth/resetPassword?token=" + url.QueryEscape(token)
}

// RequestReset issues a reset token for the account owning email and sends
// the link. The token is stored before sending; when delivery fails the token
// is still returned, together with a NotificationFailed error.
func (s *ResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return "", models.ErrUnknownEmail
		}
		return "", fmt.Errorf("load user by email: %w", err)
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return "", err
	}
	record := &models.PasswordResetToken{
		TokenHash: utils.DigestToken(token),
		UserID:    user.ID,
		CreatedAt: s.now(),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, s.ResetLink(token)); err != nil {
		s.logger.Warn("reset email not delivered", zap.Uint("user_id", user.ID), zap.Error(err))
		return token, models.NewNotificationError(err)
	}
	s.logger.Info("reset email sent", zap.Uint("user_id", user.ID))
	return token, nil
}

// RedeemReset consumes token and sets the new password. It also ends every
// session of the account. A token works once.
func (s *ResetService) RedeemReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return models.ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.tokens.Redeem(ctx, utils.DigestToken(token), hash, s.notBefore())
	if err != nil {
		if repository.IsNotFound(err) || errors.Is(err, repository.ErrExpired) {
			return models.ErrInvalidResetToken
		}
		return fmt.Errorf("redeem reset token: %w", err)
	}

	// 密码已改，但缓存里的会话仍可能有效，必须报告给调用方
	if err := s.sessions.ForgetUser(ctx, userID); err != nil {
		s.logger.Error("evict cached sessions failed", zap.Uint("user_id", userID), zap.Error(err))
		return fmt.Errorf("evict cached sessions of user %d: %w", userID, err)
	}
	s.logger.Info("password reset", zap.Uint("user_id", userID))
	return nil
}

// PurgeExpired deletes reset tokens past their TTL. Without a TTL it does nothing.
func (s *ResetService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	n, err := s.tokens.DeleteExpired(ctx, s.notBefore())
	if err != nil {
		return 0, fmt.Errorf("purge reset tokens: %w", err)
	}
	return n, nil
}

func (s *ResetService) notBefore() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.ttl)
}
