// Package job es una invocación completa: Validate&Send → Summarize →
// ShipLog. Cada fase corre exactamente una vez, sin importar cómo terminó
// la anterior.
package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/rentreminder/internal/batch"
	"github.com/dropDatabas3/rentreminder/internal/metrics"
	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
	"github.com/dropDatabas3/rentreminder/internal/report"
	"github.com/dropDatabas3/rentreminder/internal/tenant"
)

// Job agrupa las dependencias de una corrida.
type Job struct {
	Source   tenant.Source
	Runner   *batch.Runner
	Reporter *report.Reporter
	LogPath  string

	newID func() string
}

// Result resume una corrida ya reportada.
type Result struct {
	RunID    string
	Total    int
	Tally    batch.Tally
	Duration time.Duration
}

func New(src tenant.Source, runner *batch.Runner, reporter *report.Reporter, logPath string) *Job {
	return &Job{Source: src, Runner: runner, Reporter: reporter, LogPath: logPath, newID: uuid.NewString}
}

// Run ejecuta la corrida. No retorna error: todo lo que falla adentro queda
// en el log y en el resumen.
func (j *Job) Run(ctx context.Context) Result {
	start := time.Now()
	runID := j.newID()

	log := logger.From(ctx).With(logger.RunID(runID))
	ctx = logger.ToContext(ctx, log)
	log.Info("run started", logger.String("source", j.Source.String()))

	records := tenant.Load(ctx, j.Source)
	tally := j.Runner.Run(ctx, records)

	j.Reporter.SendSummary(ctx, runID, tally, len(records))

	res := Result{RunID: runID, Total: len(records), Tally: tally, Duration: time.Since(start)}
	metrics.Runs.Inc()
	metrics.RunDuration.Observe(res.Duration.Seconds())
	metrics.LastRun.SetToCurrentTime()

	// el cierre de la corrida tiene que quedar dentro del log que se envía
	log.Info("run finished",
		logger.Int("total", res.Total),
		logger.Int("success", tally.SuccessCount),
		logger.Int("failure", tally.FailureCount),
		logger.Duration(res.Duration),
	)

	j.Reporter.SendLog(ctx, j.LogPath)
	return res
}
