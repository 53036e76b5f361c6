package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/rentreminder/internal/metrics"
	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
	"github.com/dropDatabas3/rentreminder/internal/reminder"
	"github.com/dropDatabas3/rentreminder/internal/schedule"
	"github.com/dropDatabas3/rentreminder/internal/tenant"
)

func newRunCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Ejecuta una corrida: recordatorios, resumen y log al operador",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, true)
			if err != nil {
				return err
			}
			res := newJob(cfg, newSender(cfg)).Run(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), summaryLine(res))
			return nil
		},
	}
}

func newScheduleCmd(opts *rootOpts) *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Queda corriendo y dispara el job según schedule.cron",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, true)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rule, err := schedule.ParseRecurrence(cfg.Schedule.Cron, cfg.Location())
			if err != nil {
				return err
			}

			if err := metrics.Register(nil); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}
			j := newJob(cfg, newSender(cfg))
			trigger := schedule.NewTrigger(rule, cfg.PollInterval(), func(ctx context.Context) {
				res := j.Run(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), summaryLine(res))
			})

			g, gctx := errgroup.WithContext(ctx)
			if cfg.Metrics.Addr != "" {
				srv := &http.Server{
					Addr:         cfg.Metrics.Addr,
					Handler:      metrics.Handler(nil),
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 10 * time.Second,
				}
				g.Go(func() error {
					logger.With(logger.Component("metrics_server")).Info("listening", logger.String("addr", cfg.Metrics.Addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("metrics server: %w", err)
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shCtx)
				})
			}
			g.Go(func() error {
				err := trigger.Start(gctx, runNow)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Ejecuta una corrida inmediatamente al arrancar")
	return cmd
}

// preview no envía nada ni requiere credenciales SMTP.
func newPreviewCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Valida los inquilinos e imprime los recordatorios sin enviarlos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			composer := newComposer(cfg)

			records := tenant.Load(cmd.Context(), tenantSource(cfg))
			if len(records) == 0 {
				fmt.Fprintln(out, "no tenants")
				return nil
			}
			for i, rec := range records {
				t, err := tenant.Validate(rec)
				if err != nil {
					fmt.Fprintf(out, "#%d SKIP %s: %s\n\n", i+1, rec.Name(), err)
					continue
				}
				printReminder(out, i+1, t.Email, composer.Compose(t))
			}
			return nil
		},
	}
}

func printReminder(out io.Writer, n int, to string, r reminder.Reminder) {
	fmt.Fprintf(out, "#%d To: %s\nSubject: %s\n\n%s\n\n", n, to, r.Subject, r.Text)
}
