package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas del job. Funcionan aunque no estén registradas; Register las
// expone en un registry (sólo el modo schedule las sirve por HTTP).

// Valores del label "result" de Reminders.
const (
	ResultSent           = "sent"
	ResultInvalid        = "invalid"
	ResultTransportError = "transport_error"
)

var (
	Reminders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rentreminder_reminders_total",
		Help: "Recordatorios procesados por resultado",
	}, []string{"result"})

	Reports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rentreminder_reports_total",
		Help: "Reportes al operador (summary|log) por resultado (sent|failed|skipped)",
	}, []string{"kind", "result"})

	Runs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rentreminder_runs_total",
		Help: "Corridas completas del job",
	})

	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rentreminder_run_duration_seconds",
		Help:    "Duración de una corrida completa (batch + reportes)",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	LastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rentreminder_last_run_timestamp_seconds",
		Help: "Unix time del fin de la última corrida",
	})
)

// Register registra las métricas en el registry dado (o el default si nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{Reminders, Reports, Runs, RunDuration, LastRun} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
