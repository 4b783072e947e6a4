package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"redditclone/internal/mapper"
	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/utils"

	"go.uber.org/zap"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 50
)

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AuthService owns accounts and credential checks.
type AuthService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, logger: logger.Named("auth")}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.PublicUser, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(username) > maxUsernameLength || strings.ContainsAny(username, " \t/") {
		return nil, models.NewValidationError("username must be 1-50 characters without spaces or slashes")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, models.NewValidationError("email address is invalid")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Email: strings.ToLower(addr.Address), Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, models.NewConflictError("A user with this username or email already exists", err)
		}
		s.logger.Error("create user failed", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	pub := mapper.PublicUser(user)
	return &pub, nil
}

// VerifyCredentials returns the same error for an unknown username and a wrong
// password.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*models.PublicUser, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, models.ErrAuthenticationFailed
	}
	pub := mapper.PublicUser(user)
	return &pub, nil
}

// GetUser returns the public projection of a user, or found=false.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.PublicUser, bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load user %d: %w", id, err)
	}
	pub := mapper.PublicUser(user)
	return &pub, true, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return models.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	// bcrypt 只使用前 72 字节
	if len(password) > 72 {
		return models.NewValidationError("password must be at most 72 bytes")
	}
	return nil
}
