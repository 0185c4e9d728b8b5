package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// TableStatusJob reconciles the advisory table statuses with the day's
// confirmed reservations.  Tables that are occupied or under maintenance
// are never touched.
type TableStatusJob struct {
	Tables *repository.TableRepo
	Log    logrus.FieldLogger
	Loc    *time.Location
	Now    func() time.Time
	// OnChange runs after a sync that changed at least one table, e.g. to
	// flush cached table listings.
	OnChange func(ctx context.Context) error
}

// SyncTableStatuses releases reserved tables with nothing booked today and
// flags available tables that do have a confirmed booking today.
func (j *TableStatusJob) SyncTableStatuses(ctx context.Context) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	loc := j.Loc
	if loc == nil {
		loc = time.UTC
	}
	today := model.DateOf(now().In(loc))

	released, err := j.Tables.ReleaseIdle(ctx, today)
	if err != nil {
		return fmt.Errorf("table sync: release idle tables: %w", err)
	}
	marked, err := j.Tables.MarkBooked(ctx, today)
	if err != nil {
		return fmt.Errorf("table sync: mark booked tables: %w", err)
	}
	j.Log.WithFields(logrus.Fields{
		"date":     today,
		"released": released,
		"reserved": marked,
	}).Info("table statuses synchronised")

	if released+marked > 0 && j.OnChange != nil {
		if err := j.OnChange(ctx); err != nil {
			j.Log.WithError(err).Warn("table sync: post-change hook failed")
		}
	}
	return nil
}

// StartScheduler runs job once immediately and then on spec (standard
// five-field cron syntax, evaluated in the job's time zone).  The caller
// stops the returned scheduler on shutdown.
func StartScheduler(ctx context.Context, spec string, job *TableStatusJob) (*cron.Cron, error) {
	loc := job.Loc
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	run := func() {
		rctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := job.SyncTableStatuses(rctx); err != nil {
			job.Log.WithError(err).Error("table status job failed")
		}
	}
	if _, err := c.AddFunc(spec, run); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	run()
	c.Start()
	return c, nil
}
