package repositories

import (
	"context"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type ShopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindDefault(ctx context.Context) (*models.Shop, error)
	Count(ctx context.Context) (int, error)
}

type shopRepo struct {
	db DBTX
}

func NewShopRepo(db DBTX) ShopRepository {
	return &shopRepo{db: db}
}

const shopColumns = `id, name, gstin, address, cell, state, state_code, invoice_prefix, bank_name, bank_account_no, bank_ifsc, is_default, created_at, updated_at`

func scanShop(row pgx.Row) (*models.Shop, error) {
	s := &models.Shop{}
	err := row.Scan(&s.ID, &s.Name, &s.GSTIN, &s.Address, &s.Cell, &s.State, &s.StateCode, &s.InvoicePrefix,
		&s.BankName, &s.BankAccountNo, &s.BankIFSC, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *shopRepo) Create(ctx context.Context, shop *models.Shop) error {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	if shop.InvoicePrefix == "" {
		shop.InvoicePrefix = models.DefaultInvoicePrefix
	}
	query := `
		INSERT INTO shops (id, name, gstin, address, cell, state, state_code, invoice_prefix, bank_name, bank_account_no, bank_ifsc, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, shop.ID, shop.Name, shop.GSTIN, shop.Address, shop.Cell, shop.State, shop.StateCode,
		shop.InvoicePrefix, shop.BankName, shop.BankAccountNo, shop.BankIFSC, shop.IsDefault)
	return errors.Wrap(err, "insert shop")
}

func (r *shopRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`
	shop, err := scanShop(r.db.QueryRow(ctx, query, id))
	return shop, errors.Wrap(err, "select shop")
}

// FindDefault returns the first shop flagged default, falling back to the
// first shop ever created. It returns nil when no shop exists.
func (r *shopRepo) FindDefault(ctx context.Context) (*models.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops ORDER BY is_default DESC, created_at ASC, id ASC LIMIT 1`
	shop, err := scanShop(r.db.QueryRow(ctx, query))
	return shop, errors.Wrap(err, "select default shop")
}

func (r *shopRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM shops`).Scan(&n)
	return n, errors.Wrap(err, "count shops")
}
