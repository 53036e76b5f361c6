package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/rentreminder/internal/batch"
	"github.com/dropDatabas3/rentreminder/internal/email"
	"github.com/dropDatabas3/rentreminder/internal/email/emailtest"
	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
	"github.com/dropDatabas3/rentreminder/internal/reminder"
	"github.com/dropDatabas3/rentreminder/internal/report"
	"github.com/dropDatabas3/rentreminder/internal/tenant"
)

const operator = "ops@example.com"

func newJob(t *testing.T, src tenant.Source, logPath string) (*Job, *emailtest.Sender, context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))
	fake := emailtest.New()
	j := New(src,
		batch.NewRunner(reminder.NewComposer(reminder.DefaultTemplate()), fake),
		report.NewReporter(fake, operator),
		logPath,
	)
	j.newID = func() string { return "run-test" }
	return j, fake, ctx, logs
}

func TestRun_PhasesInOrder(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rentreminder.log")
	require.NoError(t, os.WriteFile(logPath, []byte("previous run\n"), 0o600))

	src := tenant.Source{Inline: `[
		{"name":"Alice","email":"a@x.com","payment_amount":"950","payment_description":"March rent"},
		{"name":"Bob","payment_amount":"800","payment_description":"March rent"}
	]`}
	j, fake, ctx, logs := newJob(t, src, logPath)

	res := j.Run(ctx)

	require.Equal(t, "run-test", res.RunID)
	require.Equal(t, 2, res.Total)
	require.Equal(t, 1, res.Tally.SuccessCount)
	require.Equal(t, 1, res.Tally.FailureCount)

	// reminder → summary → log
	require.Equal(t, []string{"a@x.com", operator, operator}, fake.Recipients())
	summary, logMsg := fake.Calls[1], fake.Calls[2]
	require.Equal(t, report.SummarySubject, summary.Subject)
	require.Contains(t, summary.Text, "Total Tenants: 2")
	require.Contains(t, summary.Text, "- Bob (): Missing field: email")
	require.Equal(t, report.LogSubject, logMsg.Subject)
	require.Len(t, logMsg.Attachments, 1)

	// todo el log de la corrida lleva el run_id
	for _, e := range logs.All() {
		require.Equal(t, "run-test", e.ContextMap()["run_id"], e.Message)
	}
}

func TestRun_NoTenantsStillReports(t *testing.T) {
	src := tenant.Source{File: filepath.Join(t.TempDir(), "missing.json")}
	j, fake, ctx, logs := newJob(t, src, filepath.Join(t.TempDir(), "missing.log"))

	res := j.Run(ctx)

	require.Equal(t, 0, res.Total)
	require.Equal(t, batch.Tally{}, res.Tally)
	require.Len(t, fake.Calls, 1, "sólo el resumen; el log no existe")
	require.Contains(t, fake.Calls[0].Text, "Total Tenants: 0")
	require.Equal(t, 1, logs.FilterMessage("no tenants to process").Len())
	require.Equal(t, 1, logs.FilterMessage("log file not found, skipping log report").Len())
}

func TestRun_ReportFailuresDoNotStopTheRun(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rentreminder.log")
	require.NoError(t, os.WriteFile(logPath, []byte("x\n"), 0o600))
	src := tenant.Source{Inline: `[{"name":"Alice","email":"a@x.com","payment_amount":1,"payment_description":"d"}]`}
	j, fake, ctx, _ := newJob(t, src, logPath)
	fake.Fail[operator] = &email.TransportError{Code: "dial", Err: os.ErrDeadlineExceeded}

	res := j.Run(ctx)

	require.Equal(t, 1, res.Tally.SuccessCount)
	require.Len(t, fake.Calls, 3, "summary y log se intentan igual")
}
