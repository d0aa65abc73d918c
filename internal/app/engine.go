package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avetisov/dimmerd/internal/colortemp"
	"github.com/avetisov/dimmerd/internal/schedule"
)

// Engine drives the automation core with a periodic tick. Both managers are
// updated from this single goroutine; ticks are idempotent and cheap, and a
// delayed tick is recovered by the scheduler's catch-up semantics rather
// than by retries.
type Engine struct {
	interval  time.Duration
	tz        *time.Location
	colortemp *colortemp.Manager
	schedules *schedule.Manager
}

// NewEngine creates the tick loop for the given managers.
func NewEngine(interval time.Duration, tz *time.Location, ct *colortemp.Manager, sm *schedule.Manager) *Engine {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Engine{
		interval:  interval,
		tz:        tz,
		colortemp: ct,
		schedules: sm,
	}
}

// Run ticks immediately, then once per interval until the context is
// cancelled.
func (e *Engine) Run(ctx context.Context) error {
	log.Info().Dur("interval", e.interval).Msg("Engine started")

	e.Tick(time.Now())

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Engine stopping")
			return nil
		case now := <-ticker.C:
			e.Tick(now)
		}
	}
}

// Tick runs one evaluation pass at the given instant.
func (e *Engine) Tick(now time.Time) {
	now = now.In(e.tz)
	e.colortemp.Update(now)
	e.schedules.CheckSchedules(now)
}
