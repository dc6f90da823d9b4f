package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found")

// SessionStore tracks revoked session tokens and pending password reset
// tokens.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	StoreResetToken(ctx context.Context, token, uid string, ttl time.Duration) error
	// ConsumeResetToken returns the uid for a valid token and invalidates it.
	ConsumeResetToken(ctx context.Context, token string) (string, error)
}

type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to Redis at the given URL.
func NewRedisSessionStore(url string) (SessionStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &redisSessionStore{client: client}, nil
}

func revokedKey(tokenID string) string { return "session:revoked:" + tokenID }
func resetKey(token string) string     { return "session:reset:" + token }

func (s *redisSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *redisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, revokedKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return true, nil
}

func (s *redisSessionStore) StoreResetToken(ctx context.Context, token, uid string, ttl time.Duration) error {
	if err := s.client.Set(ctx, resetKey(token), uid, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

func (s *redisSessionStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	uid, err := s.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	return uid, nil
}

// MemorySessionStore is an in-process SessionStore for tests and single-node
// development runs.
type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	resets  map[string]resetEntry
}

type resetEntry struct {
	uid     string
	expires time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		revoked: make(map[string]time.Time),
		resets:  make(map[string]resetEntry),
	}
}

func (s *MemorySessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *MemorySessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) StoreResetToken(ctx context.Context, token, uid string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token] = resetEntry{uid: uid, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.resets[token]
	if !ok || time.Now().After(entry.expires) {
		return "", ErrTokenNotFound
	}
	delete(s.resets, token)
	return entry.uid, nil
}
