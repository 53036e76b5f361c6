package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/rentreminder/internal/batch"
	"github.com/dropDatabas3/rentreminder/internal/config"
	"github.com/dropDatabas3/rentreminder/internal/email"
	"github.com/dropDatabas3/rentreminder/internal/job"
	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
	"github.com/dropDatabas3/rentreminder/internal/reminder"
	"github.com/dropDatabas3/rentreminder/internal/report"
	"github.com/dropDatabas3/rentreminder/internal/tenant"
)

type rootOpts struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "rentreminder",
		Short:         "Recordatorios mensuales de alquiler por email",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", envOr("RENTREMINDER_CONFIG", ""), "Archivo YAML de configuración (opcional; env RENTREMINDER_CONFIG)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Archivo .env a cargar antes de leer la configuración")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newScheduleCmd(opts))
	root.AddCommand(newPreviewCmd(opts))
	root.AddCommand(newEncryptCmd(opts))
	return root
}

// loadConfig carga .env + YAML + env e inicializa el logger. Con validate,
// una config inválida es fatal y corta antes de contactar a nadie.
func loadConfig(opts *rootOpts, validate bool) (*config.Config, error) {
	envErr := godotenv.Load(opts.envFile)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, &config.ConfigError{Field: "config", Msg: err.Error()}
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		FilePath:    cfg.Log.File,
		ServiceName: "rentreminder",
		Version:     version,
	})
	log := logger.With(logger.Op("load_config"))
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn("cannot load env file", logger.Path(opts.envFile), logger.Err(envErr))
	}

	if validate {
		if err := cfg.Validate(); err != nil {
			log.Error("invalid configuration, aborting before any send", logger.Err(err))
			return nil, err
		}
	}
	return cfg, nil
}

func newSender(cfg *config.Config) *email.SMTPSender {
	s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	s.TLSMode = cfg.SMTP.TLS
	s.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
	s.Timeout = cfg.SMTPTimeout()
	return s
}

func newComposer(cfg *config.Config) *reminder.Composer {
	return reminder.NewComposer(reminder.Template{
		Currency:         cfg.Reminder.Currency,
		LocationFallback: cfg.Reminder.LocationFallback,
		LateFeeNotice:    cfg.Reminder.LateFeeNotice,
		ContactURL:       cfg.Reminder.ContactURL,
		Signature:        cfg.Reminder.Signature,
	})
}

func tenantSource(cfg *config.Config) tenant.Source {
	return tenant.Source{File: cfg.Tenants.File, Inline: cfg.Tenants.Inline}
}

// newJob arma la corrida completa con un único sender SMTP para
// inquilinos y operador.
func newJob(cfg *config.Config, sender email.Sender) *job.Job {
	return job.New(
		tenantSource(cfg),
		batch.NewRunner(newComposer(cfg), sender),
		report.NewReporter(sender, cfg.Report.OperatorEmail),
		cfg.Log.File,
	)
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func summaryLine(res job.Result) string {
	return fmt.Sprintf("run %s: %d tenants, %d sent, %d failed (%s)",
		res.RunID, res.Total, res.Tally.SuccessCount, res.Tally.FailureCount, res.Duration.Round(time.Millisecond))
}
