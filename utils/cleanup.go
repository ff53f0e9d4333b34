package utils

import (
	"context"
	"fmt"
	"time"

	"enrollment-backend/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// DefaultAuditSchedule runs the ledger audit every day at 1 AM.
const DefaultAuditSchedule = "0 1 * * *"

// runWithRetries calls fn up to attempts times, sleeping delay between failures.
func runWithRetries(attempts int, delay time.Duration, fn func() error) error {
	var err error
	for retry := 0; retry < attempts; retry++ {
		config.Logger.Info("Running scheduled task", zap.Int("attempt", retry+1))
		if err = fn(); err == nil {
			return nil
		}
		config.Logger.Warn("Scheduled task failed", zap.Int("attempt", retry+1), zap.Error(err))
		if retry < attempts-1 {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("task failed after %d attempts: %w", attempts, err)
}

// RunScheduledLedgerAudit schedules audit on the given cron schedule and starts
// the scheduler. onFailure is told when every retry failed. The returned
// scheduler should be stopped on shutdown.
func RunScheduledLedgerAudit(schedule string, audit func(ctx context.Context) error, onFailure func(error)) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		err := runWithRetries(maxRetries, retryDelay, func() error {
			return audit(context.Background())
		})
		if err != nil {
			config.Logger.Error("Ledger audit failed after retries", zap.Error(err))
			if onFailure != nil {
				onFailure(err)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid audit schedule %q: %w", schedule, err)
	}

	c.Start()
	config.Logger.Info("Ledger audit scheduled", zap.String("schedule", schedule))
	return c, nil
}
