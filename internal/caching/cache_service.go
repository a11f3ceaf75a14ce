package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "gstinvoice"

type CacheService interface {
	// Invoice metadata caching, keyed by order
	GetInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	SetInvoice(ctx context.Context, invoice *models.Invoice) error
	DeleteInvoice(ctx context.Context, orderID uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCacheService connects to Redis at addr. A redis:// or rediss://
// scheme is accepted and stripped. Entries expire after ttl.
func NewRedisCacheService(addr, password string, db int, ttl time.Duration) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", parsedAddr).Msg("Redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("Redis connection established")
	}

	return &redisCacheService{client: client, ttl: ttl}
}

func invoiceKey(orderID uuid.UUID) string {
	return fmt.Sprintf("%s:invoice:%s", keyPrefix, orderID.String())
}

// GetInvoice returns nil on a cache miss.
func (r *redisCacheService) GetInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	data, err := r.client.Get(ctx, invoiceKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get cached invoice")
	}

	var invoice models.Invoice
	if err := json.Unmarshal(data, &invoice); err != nil {
		return nil, errors.Wrap(err, "decode cached invoice")
	}
	return &invoice, nil
}

func (r *redisCacheService) SetInvoice(ctx context.Context, invoice *models.Invoice) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return errors.Wrap(err, "encode invoice")
	}
	return errors.Wrap(r.client.Set(ctx, invoiceKey(invoice.OrderID), data, r.ttl).Err(), "cache invoice")
}

func (r *redisCacheService) DeleteInvoice(ctx context.Context, orderID uuid.UUID) error {
	return errors.Wrap(r.client.Del(ctx, invoiceKey(orderID)).Err(), "delete cached invoice")
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
