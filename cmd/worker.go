package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"gstinvoice/internal/config"
	"gstinvoice/internal/jobs"
	"gstinvoice/internal/jobs/background"
	"gstinvoice/internal/services"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWorkerCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process invoice emails and run scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx, cfg)
		},
	}
}

func runWorker(ctx context.Context, cfg *config.Config) error {
	in, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	mailer := services.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	invoiceSvc := newInvoiceService(cfg, in, nil, mailer)

	srv := asynq.NewServer(redisClientOpt(cfg), asynq.Config{
		Concurrency: cfg.Queue.Concurrency,
		Queues:      map[string]int{cfg.Queue.Name: 1},
		Logger:      asynqLogger{},
	})
	mux := jobs.NewServeMux(jobs.NewInvoiceEmailHandler(invoiceSvc))

	scheduler, err := background.NewJobScheduler(invoiceSvc, cfg.Jobs.PDFAuditInterval, cfg.Jobs.PDFAuditWindow)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(mux); err != nil {
			return err
		}
		<-gctx.Done()
		srv.Shutdown()
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		return scheduler.Stop()
	})

	log.Info().Str("queue", cfg.Queue.Name).Int("concurrency", cfg.Queue.Concurrency).Msg("Worker started")
	return g.Wait()
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { log.Debug().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { log.Info().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { log.Warn().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { log.Error().Msg(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) { log.Fatal().Msg(fmt.Sprint(args...)) }
