// Package batch es el loop de envío: valida, compone y envía un
// recordatorio por inquilino, en orden y de a uno.
package batch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dropDatabas3/rentreminder/internal/email"
	"github.com/dropDatabas3/rentreminder/internal/metrics"
	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
	"github.com/dropDatabas3/rentreminder/internal/reminder"
	"github.com/dropDatabas3/rentreminder/internal/tenant"
)

// Runner ejecuta el batch de recordatorios.
type Runner struct {
	composer *reminder.Composer
	sender   email.Sender
}

func NewRunner(composer *reminder.Composer, sender email.Sender) *Runner {
	return &Runner{composer: composer, sender: sender}
}

// Run procesa records en el orden dado y retorna el tally de la corrida.
// La falla de un inquilino nunca corta el batch.
func (r *Runner) Run(ctx context.Context, records []tenant.Record) Tally {
	log := logger.From(ctx).With(logger.Component("batch"))

	var tally Tally
	if len(records) == 0 {
		log.Warn("no tenants to process")
		return tally
	}

	for i, rec := range records {
		r.process(ctx, log.With(logger.Int("index", i)), rec, &tally)
	}

	log.Info("batch finished",
		logger.Int("success", tally.SuccessCount),
		logger.Int("failure", tally.FailureCount),
	)
	return tally
}

func (r *Runner) process(ctx context.Context, log *zap.Logger, rec tenant.Record, tally *Tally) {
	t, err := tenant.Validate(rec)
	if err != nil {
		// nunca llega al transporte
		reason := err.Error()
		tally.failure(Outcome{TenantName: rec.Name(), Email: rec.Email(), Reason: reason})
		metrics.Reminders.WithLabelValues(metrics.ResultInvalid).Inc()
		log.Error("tenant rejected", logger.Tenant(rec.Name()), logger.Reason(reason))
		return
	}

	rm := r.composer.Compose(t)
	err = r.sender.Send(ctx, email.Message{
		To:      t.Email,
		Subject: rm.Subject,
		Text:    rm.Text,
		HTML:    rm.HTML,
	})
	if err != nil {
		tally.failure(Outcome{TenantName: t.Name, Email: t.Email, Reason: err.Error()})
		metrics.Reminders.WithLabelValues(metrics.ResultTransportError).Inc()

		code := "unknown"
		var te *email.TransportError
		if errors.As(err, &te) {
			code = te.Code
		}
		log.Error("reminder send failed",
			logger.Tenant(t.Name),
			logger.String("code", code),
			logger.Reason(err.Error()),
		)
		return
	}

	tally.success()
	metrics.Reminders.WithLabelValues(metrics.ResultSent).Inc()
	log.Info("reminder sent", logger.Tenant(t.Name), logger.String("amount", r.composer.FormatAmount(t)))
}
