package main

import (
	"context"
	"os"
	"strings"
	"time"

	"gstinvoice/internal/caching"
	"gstinvoice/internal/config"
	"gstinvoice/internal/pdf"
	"gstinvoice/internal/repositories"
	"gstinvoice/internal/services"
	"gstinvoice/pkg/database"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// infra holds the connections shared by serve and worker.
type infra struct {
	pool    *pgxpool.Pool
	storage services.PDFStorage
	cache   caching.CacheService
}

func (i *infra) Close() {
	if i.cache != nil {
		if err := i.cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

func openInfra(ctx context.Context, cfg *config.Config) (*infra, error) {
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	in := &infra{pool: pool}

	storage, err := services.NewMinioPDFStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
		cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.storage = storage

	in.cache = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.InvoiceTTL)
	return in, nil
}

func newInvoiceService(cfg *config.Config, in *infra, emails services.EmailQueue, mailer services.Mailer) *services.InvoiceService {
	return services.NewInvoiceService(in.pool, in.storage, pdf.NewGofpdfRenderer(), in.cache, emails, mailer,
		services.InvoiceOptions{
			ShopID:        cfg.ShopID(),
			Location:      cfg.Location(),
			PresignExpiry: cfg.Minio.PresignExpiry,
		})
}

func redisClientOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     strings.TrimPrefix(strings.TrimPrefix(cfg.Redis.Addr, "redis://"), "rediss://"),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// migrateAndSeed applies the schema and inserts the configured shop profile
// when no shop exists yet.
func migrateAndSeed(ctx context.Context, cfg *config.Config, pool repositories.DBTX) error {
	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	shops := repositories.NewShopRepo(pool)
	n, err := shops.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	shop, err := config.LoadShopProfile(cfg.Shop.ProfileFile)
	if err != nil {
		return err
	}
	shop.ID = cfg.ShopID()
	if err := shops.Create(ctx, shop); err != nil {
		return errors.Wrap(err, "seed default shop")
	}

	log.Info().Str("shop_id", shop.ID.String()).Str("name", shop.Name).Msg("Seeded default shop")
	return nil
}
