// Package jobs holds scheduled background work.
package jobs

import (
	"context"
	"log"
	"time"

	"carshare/internal/redis"
	"carshare/internal/repository"
	"carshare/internal/service"
)

const (
	sweepLockName = "overdue-sweep"
	sweepLockTTL  = 10 * time.Minute
)

// SweepJob scans rentals once a day, partitions them into overdue and
// on-track-or-returned, and sends one status digest per rental to the
// operations recipient. A Redis lock keeps concurrent instances from
// double-reporting.
type SweepJob struct {
	rentalRepo          repository.RentalRepository
	locks               redis.LockStoreInterface
	notificationService *service.NotificationService
	recipient           service.Recipient
	now                 func() time.Time
}

// NewSweepJob creates a new SweepJob. The locks store may be nil for
// single-instance deployments.
func NewSweepJob(
	rentalRepo repository.RentalRepository,
	locks redis.LockStoreInterface,
	notificationService *service.NotificationService,
	recipient service.Recipient,
) *SweepJob {
	return &SweepJob{
		rentalRepo:          rentalRepo,
		locks:               locks,
		notificationService: notificationService,
		recipient:           recipient,
		now:                 time.Now,
	}
}

// Run executes one sweep and returns the overdue and on-track-or-returned
// counts. When another instance holds the lock the sweep is skipped with
// zero counts.
func (j *SweepJob) Run(ctx context.Context) (overdue, onTrack int, err error) {
	if j.locks != nil {
		acquired, lockErr := j.locks.AcquireJobLock(ctx, sweepLockName, sweepLockTTL)
		if lockErr != nil {
			return 0, 0, lockErr
		}
		if !acquired {
			log.Printf("[SWEEP] skipped, lock held elsewhere")
			return 0, 0, nil
		}
		defer func() {
			if releaseErr := j.locks.ReleaseJobLock(ctx, sweepLockName); releaseErr != nil {
				log.Printf("[SWEEP] failed to release lock: %v", releaseErr)
			}
		}()
	}

	rentals, err := j.rentalRepo.List(ctx, repository.RentalFilter{})
	if err != nil {
		return 0, 0, err
	}

	now := j.now()
	for i := range rentals {
		isOverdue := rentals[i].IsOverdue(now)
		if isOverdue {
			overdue++
		} else {
			onTrack++
		}
		j.notificationService.NotifyRentalStatusDigest(ctx, j.recipient, &rentals[i], isOverdue)
	}

	log.Printf("[SWEEP] done: %d overdue, %d on track", overdue, onTrack)
	return overdue, onTrack, nil
}
