// Package schedule dispara el job según una regla de recurrencia.
//
// En vez de comparar la hora actual contra un instante exacto (lo que
// pierde el mes entero si justo ese tick no corre), la regla se evalúa
// contra el timestamp de la última corrida: el job está pendiente cuando
// now >= Next(lastRun). Un tick atrasado dispara tarde, no se saltea.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Recurrence es una expresión cron estándar (5 campos) en una zona horaria.
type Recurrence struct {
	expr  string
	sched cron.Schedule
}

// ParseRecurrence acepta también los descriptores de cron (@monthly, @daily...).
func ParseRecurrence(expr string, loc *time.Location) (*Recurrence, error) {
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse recurrence %q: %w", expr, err)
	}
	if ss, ok := s.(*cron.SpecSchedule); ok && loc != nil {
		ss.Location = loc
	}
	return &Recurrence{expr: expr, sched: s}, nil
}

func (r *Recurrence) String() string { return r.expr }

// Next es el primer instante de la regla estrictamente posterior a t.
// Zero si no hay ninguno.
func (r *Recurrence) Next(t time.Time) time.Time {
	return r.sched.Next(t)
}

// Due reporta si corresponde correr: hubo al menos un instante de la regla
// entre lastRun (exclusivo) y now (inclusivo).
func (r *Recurrence) Due(lastRun, now time.Time) bool {
	next := r.Next(lastRun)
	if next.IsZero() {
		return false
	}
	return !now.Before(next)
}
