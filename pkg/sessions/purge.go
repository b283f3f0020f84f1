package sessions

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/platinummonkey/gatehouse/pkg/observability"
)

// DefaultPurgeSchedule sweeps expired sessions every ten minutes.
const DefaultPurgeSchedule = "@every 10m"

// Purger periodically deletes expired session rows from the store
type Purger struct {
	store   Store
	logger  *observability.Logger
	metrics *observability.Metrics
	cron    *cron.Cron
}

// NewPurger creates a purger on the given schedule (cron spec or @every)
func NewPurger(store Store, logger *observability.Logger, metrics *observability.Metrics, schedule string) (*Purger, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}

	p := &Purger{
		store:   store,
		logger:  logger,
		metrics: metrics,
		cron:    cron.New(),
	}

	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, err
	}
	return p, nil
}

// Start begins the purge schedule
func (p *Purger) Start() {
	p.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (p *Purger) Stop() {
	<-p.cron.Stop().Done()
}

func (p *Purger) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := p.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		p.logger.WithError(err).Error("session purge failed")
		return
	}
	if removed > 0 {
		p.metrics.SessionsPurged.Add(float64(removed))
		p.logger.WithField("removed", removed).Info("purged expired sessions")
	}
}
