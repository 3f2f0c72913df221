package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ClaimsStore mirrors the live role claims per identity. Tokens embed the
// claims at issue time; the mirror is what a token refresh re-reads, so a
// role change becomes visible on the next refresh without reissuing anything.
type ClaimsStore interface {
	Set(ctx context.Context, uid string, admin, superadmin bool) error
	Get(ctx context.Context, uid string) (admin, superadmin bool, err error)
	Delete(ctx context.Context, uid string) error
}

type redisClaimsStore struct {
	rdb *redis.Client
}

func NewRedisClaimsStore(rdb *redis.Client) ClaimsStore {
	return &redisClaimsStore{rdb: rdb}
}

func claimsKey(uid string) string {
	return "claims:" + uid
}

func (s *redisClaimsStore) Set(ctx context.Context, uid string, admin, superadmin bool) error {
	if err := s.rdb.HSet(ctx, claimsKey(uid), "admin", boolFlag(admin), "superadmin", boolFlag(superadmin)).Err(); err != nil {
		return fmt.Errorf("failed to mirror claims for %s: %w", uid, err)
	}
	return nil
}

func (s *redisClaimsStore) Get(ctx context.Context, uid string) (bool, bool, error) {
	vals, err := s.rdb.HGetAll(ctx, claimsKey(uid)).Result()
	if err != nil {
		return false, false, fmt.Errorf("failed to read claims for %s: %w", uid, err)
	}
	return vals["admin"] == "1", vals["superadmin"] == "1", nil
}

func (s *redisClaimsStore) Delete(ctx context.Context, uid string) error {
	return s.rdb.Del(ctx, claimsKey(uid)).Err()
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// MemoryClaimsStore backs the claims mirror when Redis is absent (local dev,
// tests).
type MemoryClaimsStore struct {
	mu     sync.RWMutex
	claims map[string][2]bool
}

func NewMemoryClaimsStore() *MemoryClaimsStore {
	return &MemoryClaimsStore{claims: make(map[string][2]bool)}
}

func (s *MemoryClaimsStore) Set(ctx context.Context, uid string, admin, superadmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[uid] = [2]bool{admin, superadmin}
	return nil
}

func (s *MemoryClaimsStore) Get(ctx context.Context, uid string) (bool, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.claims[uid]
	return c[0], c[1], nil
}

func (s *MemoryClaimsStore) Delete(ctx context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, uid)
	return nil
}
