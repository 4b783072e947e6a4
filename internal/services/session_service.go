package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionCacheTTL = 10 * time.Minute

// SessionService issues and resolves opaque session tokens. Only the token's
// digest is persisted. When a redis client is given, resolved sessions are
// cached under their digest; the cache never outlives the session itself.
type SessionService struct {
	sessions repository.SessionRepository
	cache    *redis.Client
	ttl      time.Duration // 0: sessions never expire
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionService(sessions repository.SessionRepository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.Named("session"),
		now:      time.Now,
	}
}

func sessionKey(digest string) string { return "session:" + digest }
func userSessionsKey(userID uint) string {
	return "session:user:" + strconv.FormatUint(uint64(userID), 10)
}

// Tombstones block cache fills that race with a revoke. They live as long as
// a cache entry can.
func revokedKey(digest string) string { return "session:revoked:" + digest }
func userRevokedKey(userID uint) string {
	return "session:user-revoked:" + strconv.FormatUint(uint64(userID), 10)
}

// Create returns a fresh token for userID. The raw token is not kept.
func (s *SessionService) Create(ctx context.Context, userID uint) (string, error) {
	token, err := utils.GenerateToken()
	if err != nil {
		return "", err
	}
	session := &models.Session{
		TokenHash: utils.DigestToken(token),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("create session failed", zap.Uint("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Resolve maps a token to its user id, or returns models.ErrNoSuchSession.
func (s *SessionService) Resolve(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, models.ErrNoSuchSession
	}
	digest := utils.DigestToken(token)

	if userID, ok := s.cached(ctx, digest); ok {
		return userID, nil
	}

	session, err := s.sessions.Get(ctx, digest)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, models.ErrNoSuchSession
		}
		return 0, fmt.Errorf("load session: %w", err)
	}

	remaining := sessionCacheTTL
	if s.ttl > 0 {
		left := session.CreatedAt.Add(s.ttl).Sub(s.now())
		if left <= 0 {
			if err := s.sessions.Delete(ctx, digest); err != nil {
				s.logger.Warn("delete expired session failed", zap.Error(err))
			}
			return 0, models.ErrNoSuchSession
		}
		if left < remaining {
			remaining = left
		}
	}

	s.remember(ctx, digest, session.UserID, remaining)
	return session.UserID, nil
}

// Revoke ends the session. Unknown tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	digest := utils.DigestToken(token)
	if err := s.evict(ctx, revokedKey(digest), sessionKey(digest)); err != nil {
		return fmt.Errorf("evict session cache: %w", err)
	}
	if err := s.sessions.Delete(ctx, digest); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	// a Resolve that read the row before the delete may have refilled it
	if s.cache != nil {
		if err := s.cache.Del(ctx, sessionKey(digest)).Err(); err != nil {
			return fmt.Errorf("evict session cache: %w", err)
		}
	}
	return nil
}

// ForgetUser drops cached lookups for every session of userID and keeps new
// ones from being cached for sessionCacheTTL. Rows are removed by the caller.
func (s *SessionService) ForgetUser(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return nil
	}
	key := userSessionsKey(userID)
	if err := s.cache.Set(ctx, userRevokedKey(userID), "1", sessionCacheTTL).Err(); err != nil {
		return fmt.Errorf("mark user sessions revoked: %w", err)
	}
	digests, err := s.cache.SMembers(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("list cached sessions: %w", err)
	}
	keys := make([]string, 0, len(digests)+1)
	for _, d := range digests {
		keys = append(keys, sessionKey(d))
	}
	keys = append(keys, key)
	return s.cache.Del(ctx, keys...).Err()
}

// evict writes a tombstone and then deletes the cache entry.
func (s *SessionService) evict(ctx context.Context, tombstone, entry string) error {
	if s.cache == nil {
		return nil
	}
	_, err := s.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tombstone, "1", sessionCacheTTL)
		pipe.Del(ctx, entry)
		return nil
	})
	return err
}

func (s *SessionService) cached(ctx context.Context, digest string) (uint, bool) {
	if s.cache == nil {
		return 0, false
	}
	val, err := s.cache.Get(ctx, sessionKey(digest)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("session cache read failed", zap.Error(err))
		}
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// remember caches a resolved session unless the session or its user was
// revoked meanwhile. WATCH aborts the write if a tombstone appears between the
// check and EXEC.
func (s *SessionService) remember(ctx context.Context, digest string, userID uint, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	tombstones := []string{revokedKey(digest), userRevokedKey(userID)}
	err := s.cache.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, tombstones...).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessionKey(digest), strconv.FormatUint(uint64(userID), 10), ttl)
			pipe.SAdd(ctx, userSessionsKey(userID), digest)
			pipe.Expire(ctx, userSessionsKey(userID), sessionCacheTTL)
			return nil
		})
		return err
	}, tombstones...)
	if errors.Is(err, redis.TxFailedErr) {
		return
	}
	if err != nil {
		s.logger.Warn("session cache write failed", zap.Error(err))
	}
}
