package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"gstinvoice/internal/common"
	"gstinvoice/internal/config"
	"gstinvoice/internal/handlers"
	"gstinvoice/internal/jobs"
	"gstinvoice/internal/middleware"
	"gstinvoice/internal/services"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	in, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	if cfg.Database.AutoMigrate {
		if err := migrateAndSeed(ctx, cfg, in.pool); err != nil {
			return err
		}
	}
	if err := in.storage.EnsureBucketExists(ctx); err != nil {
		return err
	}

	queueClient := asynq.NewClient(redisClientOpt(cfg))
	defer queueClient.Close()

	invoiceSvc := newInvoiceService(cfg, in, jobs.NewEmailQueue(queueClient, cfg.Queue.Name), nil)
	orderSvc := services.NewOrderService(in.pool, common.NewValidator())

	e := echo.New()
	e.HideBanner = true

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestLogger())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.VersionHeader(version))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CorsOrigins,
	}))

	handlers.RegisterRoutes(e,
		handlers.NewOrderHandlers(orderSvc),
		handlers.NewInvoiceHandlers(invoiceSvc),
		handlers.NewHealthHandlers(in.pool, in.cache, in.storage, version),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("version", version).Msg("GST invoice server starting")
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
