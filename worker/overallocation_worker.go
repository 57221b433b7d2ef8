package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"projecttracker/metrics"
	"projecttracker/reports"
	"projecttracker/repository"
)

// OverallocationWorker periodically logs person-months booked above 100%
// and publishes their count as a gauge.
type OverallocationWorker struct {
	Allocations repository.AllocationRepo
	Interval    time.Duration
	Logger      *logrus.Entry
}

func NewOverallocationWorker(allocations repository.AllocationRepo, interval time.Duration) *OverallocationWorker {
	return &OverallocationWorker{
		Allocations: allocations,
		Interval:    interval,
		Logger:      logrus.WithField("worker", "overallocation_audit"),
	}
}

// Start runs an audit immediately and then on every tick until ctx is cancelled.
func (ow *OverallocationWorker) Start(ctx context.Context) {
	ow.Logger.WithField("interval", ow.Interval.String()).Info("Over-allocation audit started")

	ticker := time.NewTicker(ow.Interval)
	defer ticker.Stop()

	ow.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			ow.Logger.Info("Over-allocation audit shutting down...")
			return
		case <-ticker.C:
			ow.runLogged(ctx)
		}
	}
}

func (ow *OverallocationWorker) runLogged(ctx context.Context) {
	if _, err := ow.RunOnce(ctx); err != nil && ctx.Err() == nil {
		ow.Logger.WithError(err).Error("Over-allocation audit failed")
	}
}

// RunOnce audits every allocation and returns the over-allocated groups.
func (ow *OverallocationWorker) RunOnce(ctx context.Context) ([]reports.MemberMonth, error) {
	allocations, err := ow.Allocations.List(ctx, repository.AllocationFilter{})
	if err != nil {
		return nil, err
	}

	over := reports.FindOverAllocated(allocations)
	metrics.SetOverAllocatedGroups(len(over))

	for _, g := range over {
		ow.Logger.WithFields(logrus.Fields{
			"employee":   g.EmployeeName,
			"month":      g.Month,
			"year":       g.Year,
			"percentage": g.TotalPercentage.String(),
		}).Warn("Team member is over-allocated")
	}
	ow.Logger.WithFields(logrus.Fields{
		"allocations":    len(allocations),
		"over_allocated": len(over),
	}).Info("Over-allocation audit complete")

	return over, nil
}
