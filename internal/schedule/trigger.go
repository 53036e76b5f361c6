package schedule

import (
	"context"
	"time"

	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
)

// Trigger chequea la regla cada poll e invoca run de forma sincrónica, así
// dos corridas nunca se superponen. lastRun vive sólo en memoria.
type Trigger struct {
	rule *Recurrence
	poll time.Duration
	run  func(ctx context.Context)

	now     func() time.Time
	lastRun time.Time
}

func NewTrigger(rule *Recurrence, poll time.Duration, run func(ctx context.Context)) *Trigger {
	return &Trigger{rule: rule, poll: poll, run: run, now: time.Now}
}

// Start bloquea hasta que ctx se cancela. Con runNow hace una corrida
// inmediata antes de empezar a esperar la regla.
func (t *Trigger) Start(ctx context.Context, runNow bool) error {
	log := logger.From(ctx).With(logger.Component("scheduler"), logger.String("rule", t.rule.String()))

	t.lastRun = t.now()
	if runNow {
		log.Info("running immediately (--run-now)")
		t.fire(ctx)
	}
	log.Info("scheduler started",
		logger.String("poll", t.poll.String()),
		logger.Time("next_run", t.rule.Next(t.lastRun)),
	)

	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if t.Tick(ctx) {
				log.Info("next run scheduled", logger.Time("next_run", t.rule.Next(t.lastRun)))
			}
		}
	}
}

// Tick corre el job si está pendiente. Retorna true si corrió.
func (t *Trigger) Tick(ctx context.Context) bool {
	now := t.now()
	if !t.rule.Due(t.lastRun, now) {
		return false
	}
	if late := now.Sub(t.rule.Next(t.lastRun)); late > t.poll {
		logger.From(ctx).Warn("scheduled run is late", logger.Duration(late))
	}
	t.fire(ctx)
	return true
}

// fire toma como lastRun el inicio de la corrida: instantes de la regla
// que caigan mientras corre el job no se acumulan.
func (t *Trigger) fire(ctx context.Context) {
	t.lastRun = t.now()
	t.run(ctx)
}
