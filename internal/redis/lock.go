package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireJobLock attempts to acquire a lock for the named background job so
// only one instance runs it. Returns true if the lock was acquired, false if
// already held.
func (s *LockStore) AcquireJobLock(ctx context.Context, jobName string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:job:%s", jobName)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseJobLock releases the lock for the named job.
func (s *LockStore) ReleaseJobLock(ctx context.Context, jobName string) error {
	key := fmt.Sprintf("lock:job:%s", jobName)

	return s.client.Del(ctx, key).Err()
}
