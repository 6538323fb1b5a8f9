package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistKeyPrefix = "blacklist:access_token:"

// TokenStore keeps revoked access tokens in Redis until they expire.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a token store backed by the given Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// BlacklistToken marks a token id as revoked for the remaining token lifetime.
func (s *TokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s == nil || s.client == nil || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a token id has been revoked. Redis
// being unreachable fails open so logins keep working without it.
func (s *TokenStore) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	if s == nil || s.client == nil {
		return false
	}
	res, err := s.client.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return res > 0
}
