package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Pruner drops client state idle for longer than the given duration and
// reports how many entries it removed.
type Pruner interface {
	Prune(idle time.Duration) int
}

type Scheduler struct {
	cron     *cron.Cron
	pruner   Pruner
	schedule string
	idle     time.Duration
	log      zerolog.Logger
}

func NewScheduler(pruner Pruner, schedule string, idle time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		pruner:   pruner,
		schedule: schedule,
		idle:     idle,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.pruner == nil || s.idle <= 0 {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.pruneClients); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) pruneClients() {
	removed := s.pruner.Prune(s.idle)
	if removed > 0 {
		s.log.Info().
			Int("removed", removed).
			Dur("idle", s.idle).
			Msg("pruned idle clients")
	}
}
