package redis

import (
	"context"
	"time"
)

// CacheStoreInterface defines the interface for car catalog caching.
type CacheStoreInterface interface {
	GetCar(ctx context.Context, carID string) (*CachedCar, error)
	SetCar(ctx context.Context, car *CachedCar) error
	InvalidateCar(ctx context.Context, carID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireJobLock(ctx context.Context, jobName string, ttl time.Duration) (bool, error)
	ReleaseJobLock(ctx context.Context, jobName string) error
}

// Ensure concrete types implement interfaces.
var (
	_ CacheStoreInterface = (*CacheStore)(nil)
	_ LockStoreInterface  = (*LockStore)(nil)
)
