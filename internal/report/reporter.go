// Package report envía al operador el resumen de la corrida y el archivo de
// log. Ambos son best-effort: los errores se registran y nunca se propagan.
package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dropDatabas3/rentreminder/internal/batch"
	"github.com/dropDatabas3/rentreminder/internal/email"
	"github.com/dropDatabas3/rentreminder/internal/metrics"
	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
)

const (
	SummarySubject = "Rent Reminder Summary"
	LogSubject     = "Rent Reminder Log"
)

// Reporter envía los reportes a una dirección de operador fija.
type Reporter struct {
	sender   email.Sender
	operator string
	now      func() time.Time
}

func NewReporter(sender email.Sender, operatorEmail string) *Reporter {
	return &Reporter{sender: sender, operator: operatorEmail, now: time.Now}
}

// SendSummary envía el resumen de la corrida. Se llama siempre, aun con
// cero inquilinos.
func (r *Reporter) SendSummary(ctx context.Context, runID string, tally batch.Tally, total int) {
	log := logger.From(ctx).With(logger.Component("summary_reporter"))

	msg := email.Message{
		To:      r.operator,
		Subject: SummarySubject,
		Text:    SummaryBody(runID, r.now(), tally, total),
	}
	if err := r.sender.Send(ctx, msg); err != nil {
		metrics.Reports.WithLabelValues("summary", "failed").Inc()
		log.Error("summary email failed", logger.Err(err))
		return
	}
	metrics.Reports.WithLabelValues("summary", "sent").Inc()
	log.Info("summary email sent", logger.Int("total", total), logger.Int("failure", tally.FailureCount))
}

// SummaryBody arma el cuerpo del resumen. Los fallidos van uno por línea,
// en el orden en que fallaron.
func SummaryBody(runID string, at time.Time, tally batch.Tally, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rent reminder run %s finished at %s\n\n", runID, at.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Tenants: %d\n", total)
	fmt.Fprintf(&b, "Successful: %d\n", tally.SuccessCount)
	fmt.Fprintf(&b, "Failed: %d\n", tally.FailureCount)

	if len(tally.Failed) > 0 {
		b.WriteString("\nFailed tenants:\n")
		for _, o := range tally.Failed {
			fmt.Fprintf(&b, "- %s (%s): %s\n", o.TenantName, o.Email, o.Reason)
		}
	}
	return b.String()
}

// SendLog adjunta el archivo de log al operador. Si el archivo no existe lo
// registra y no hace nada más.
func (r *Reporter) SendLog(ctx context.Context, logPath string) {
	log := logger.From(ctx).With(logger.Component("log_reporter"), logger.Path(logPath))

	// lo que esté en buffer tiene que llegar al archivo antes de leerlo
	_ = logger.Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.Reports.WithLabelValues("log", "skipped").Inc()
			log.Warn("log file not found, skipping log report")
			return
		}
		metrics.Reports.WithLabelValues("log", "failed").Inc()
		log.Error("cannot read log file", logger.Err(err))
		return
	}

	msg := email.Message{
		To:      r.operator,
		Subject: LogSubject,
		Text:    fmt.Sprintf("Attached is the rent reminder log (%d bytes).\n", len(data)),
		Attachments: []email.Attachment{{
			Name:        filepath.Base(logPath),
			ContentType: "text/plain; charset=utf-8",
			Data:        data,
		}},
	}
	if err := r.sender.Send(ctx, msg); err != nil {
		metrics.Reports.WithLabelValues("log", "failed").Inc()
		log.Error("log report email failed", logger.Err(err))
		return
	}
	metrics.Reports.WithLabelValues("log", "sent").Inc()
	log.Info("log report sent", logger.Int("bytes", len(data)))
}
