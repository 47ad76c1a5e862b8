package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type expiredMembershipStore interface {
	DowngradeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job periodically downgrades paid memberships whose window has closed, so
// expired members stop passing the messaging entitlement check even if the
// row is never touched again by its owner.
type Job struct {
	memberships expiredMembershipStore
	interval    time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewMembershipSweep(memberships expiredMembershipStore, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		memberships: memberships,
		interval:    interval,
		now:         time.Now,
		logger:      logger,
	}
}

// Start runs the sweep on a ticker until the context is cancelled.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("membership sweep failed", zap.Error(err))
			}
		}
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.memberships == nil {
		return nil
	}

	downgraded, err := j.memberships.DowngradeExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("downgrade expired memberships: %w", err)
	}
	if downgraded > 0 {
		j.logger.Info("membership sweep completed", zap.Int64("downgraded", downgraded))
	}

	return nil
}
