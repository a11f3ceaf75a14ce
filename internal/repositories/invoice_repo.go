package repositories

import (
	"context"
	"time"

	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	// NextSequence reserves the next invoice sequence for prefix and year.
	// The ledger row stays locked until the surrounding transaction ends,
	// and a rollback releases the number.
	NextSequence(ctx context.Context, prefix string, year int) (int, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Invoice, error)
}

type invoiceRepo struct {
	db DBTX
}

func NewInvoiceRepo(db DBTX) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, order_id, shop_id, invoice_no, prefix, year, sequence, invoice_date, pdf_path, created_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(&inv.ID, &inv.OrderID, &inv.ShopID, &inv.InvoiceNo, &inv.Prefix, &inv.Year, &inv.Sequence,
		&inv.InvoiceDate, &inv.PDFPath, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	query := `
		INSERT INTO invoices (id, order_id, shop_id, invoice_no, prefix, year, sequence, invoice_date, pdf_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, invoice.ID, invoice.OrderID, invoice.ShopID, invoice.InvoiceNo, invoice.Prefix,
		invoice.Year, invoice.Sequence, invoice.InvoiceDate, invoice.PDFPath).Scan(&invoice.CreatedAt)
	return errors.Wrap(err, "insert invoice")
}

func (r *invoiceRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1`
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return inv, errors.Wrap(err, "select invoice")
}

func (r *invoiceRepo) NextSequence(ctx context.Context, prefix string, year int) (int, error) {
	// The ledger is seeded from the highest stored sequence so that invoices
	// written before the ledger existed are never renumbered.
	query := `
		WITH upsert AS (
			INSERT INTO invoice_sequences (prefix, year, last_number)
			VALUES ($1, $2, COALESCE((SELECT MAX(sequence) FROM invoices WHERE prefix = $1 AND year = $2), 0) + 1)
			ON CONFLICT (prefix, year)
			DO UPDATE SET
				last_number = GREATEST(invoice_sequences.last_number + 1, EXCLUDED.last_number),
				updated_at = NOW()
			RETURNING last_number
		)
		SELECT last_number FROM upsert
	`
	var seq int
	if err := r.db.QueryRow(ctx, query, prefix, year).Scan(&seq); err != nil {
		return 0, errors.Wrap(err, "allocate invoice sequence")
	}
	return seq, nil
}

func (r *invoiceRepo) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "select invoices")
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan invoice")
		}
		invoices = append(invoices, inv)
	}
	return invoices, errors.Wrap(rows.Err(), "iterate invoices")
}
