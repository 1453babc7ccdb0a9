package jwt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AccessTokenKey is the Redis key marking an access token as live.
func AccessTokenKey(userID uuid.UUID, tokenID string) string {
	return "access_token:" + userID.String() + ":" + tokenID
}

// RefreshTokenKey is the Redis key marking a refresh token as live.
func RefreshTokenKey(userID uuid.UUID, tokenID string) string {
	return "refresh_token:" + userID.String() + ":" + tokenID
}

// SessionStore tracks which issued tokens are still live. A token that is
// signed and unexpired but missing here has been revoked or rotated.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save records an access/refresh pair atomically.
func (s *SessionStore) Save(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, AccessTokenKey(userID, accessID), "valid", accessTTL)
		pipe.Set(ctx, RefreshTokenKey(userID, refreshID), "valid", refreshTTL)
		return nil
	})
	return err
}

func (s *SessionStore) AccessActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, AccessTokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionStore) RevokeAccess(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return s.client.Del(ctx, AccessTokenKey(userID, tokenID)).Err()
}

// ConsumeRefresh deletes a refresh token and reports whether it was live.
// Only one caller can consume a given token.
func (s *SessionStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Del(ctx, RefreshTokenKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
