package jobs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakePruner struct {
	calls int
	idle  time.Duration
}

func (f *fakePruner) Prune(idle time.Duration) int {
	f.calls++
	f.idle = idle
	return 2
}

func TestScheduler_PruneUsesIdle(t *testing.T) {
	p := &fakePruner{}
	s := NewScheduler(p, "0 */10 * * * *", time.Hour, zerolog.Nop())

	s.pruneClients()

	if p.calls != 1 || p.idle != time.Hour {
		t.Errorf("pruner calls=%d idle=%v", p.calls, p.idle)
	}
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&fakePruner{}, "not a schedule", time.Hour, zerolog.Nop())
	if err := s.Start(); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestScheduler_DisabledWithoutIdle(t *testing.T) {
	s := NewScheduler(&fakePruner{}, "not a schedule", 0, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("disabled scheduler should not validate schedule: %v", err)
	}
}
