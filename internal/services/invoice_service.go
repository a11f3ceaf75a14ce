package services

import (
	"context"
	"strings"
	"time"

	"gstinvoice/internal/common"
	"gstinvoice/internal/gst"
	"gstinvoice/internal/models"
	"gstinvoice/internal/pdf"
	"gstinvoice/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// InvoiceCache holds invoice metadata keyed by order.
type InvoiceCache interface {
	GetInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	SetInvoice(ctx context.Context, invoice *models.Invoice) error
}

// EmailQueue hands invoice emails to a background worker.
type EmailQueue interface {
	EnqueueInvoiceEmail(ctx context.Context, orderID uuid.UUID) error
}

type InvoiceServiceInterface interface {
	GenerateInvoice(ctx context.Context, orderID uuid.UUID, sendEmail bool) (*models.Invoice, bool, error)
	GetInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	FetchPDF(ctx context.Context, orderID uuid.UUID) ([]byte, string, error)
	PresignedPDFURL(ctx context.Context, invoice *models.Invoice) (string, error)
}

// InvoiceOptions tunes how invoices are numbered, dated and served.
type InvoiceOptions struct {
	// ShopID pins the issuing shop. When unset or missing, the first default
	// shop is used, then the oldest shop.
	ShopID        uuid.UUID
	Location      *time.Location
	PresignExpiry time.Duration
}

type InvoiceService struct {
	db       repositories.Pool
	storage  PDFStorage
	renderer pdf.Renderer
	cache    InvoiceCache
	emails   EmailQueue
	mailer   Mailer
	opts     InvoiceOptions
	now      func() time.Time
}

// NewInvoiceService wires the generation pipeline. cache, emails and mailer may be nil.
func NewInvoiceService(db repositories.Pool, storage PDFStorage, renderer pdf.Renderer, cache InvoiceCache,
	emails EmailQueue, mailer Mailer, opts InvoiceOptions) *InvoiceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = 15 * time.Minute
	}
	return &InvoiceService{
		db:       db,
		storage:  storage,
		renderer: renderer,
		cache:    cache,
		emails:   emails,
		mailer:   mailer,
		opts:     opts,
		now:      time.Now,
	}
}

// GenerateInvoice issues the invoice for an order, or returns the existing one.
// The bool result reports whether a new invoice was created. Totals, number
// allocation and the invoice row are committed together; on failure none of
// them persist and any uploaded PDF is removed.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, orderID uuid.UUID, sendEmail bool) (*models.Invoice, bool, error) {
	var (
		invoice  *models.Invoice
		customer *models.Customer
		created  bool
		uploaded string
	)

	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		orders := repositories.NewOrderRepo(tx)
		invoices := repositories.NewInvoiceRepo(tx)

		order, err := orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return common.ErrOrderNotFound
		}
		customer = order.Customer

		existing, err := invoices.FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if existing != nil {
			invoice = existing
			return nil
		}

		shop, err := s.resolveShop(ctx, repositories.NewShopRepo(tx))
		if err != nil {
			return err
		}

		items, err := repositories.NewOrderItemRepo(tx).ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return common.ErrEmptyOrder
		}

		subtotal := decimal.Zero
		for _, it := range items {
			subtotal = subtotal.Add(it.Amount)
		}
		tb := gst.ComputeTax(subtotal, customer.StateCode, shop.StateCode)
		order.Subtotal, order.CGST, order.SGST, order.IGST, order.Total = tb.Subtotal, tb.CGST, tb.SGST, tb.IGST, tb.Total
		order.IsInterState = tb.InterState
		if err := orders.UpdateTotals(ctx, order); err != nil {
			return err
		}

		now := s.now().In(s.opts.Location)
		number, err := AllocateInvoiceNumber(ctx, invoices, shop.InvoicePrefix, now)
		if err != nil {
			return err
		}
		invoiceNo := number.String()

		data, err := s.renderer.Render(BuildInvoiceDocument(shop, order, items, invoiceNo, now))
		if err != nil {
			return errors.Wrap(err, "render invoice pdf")
		}

		objectName := PDFObjectName(invoiceNo, now)
		if err := s.storage.Put(ctx, objectName, data); err != nil {
			return errors.Wrap(err, "store invoice pdf")
		}
		uploaded = objectName

		inv := &models.Invoice{
			OrderID:     order.ID,
			ShopID:      shop.ID,
			InvoiceNo:   invoiceNo,
			Prefix:      number.Prefix,
			Year:        number.Year,
			Sequence:    number.Sequence,
			InvoiceDate: dateOnly(now),
			PDFPath:     objectName,
		}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}

		invoice = inv
		created = true
		return nil
	})
	if err != nil {
		if uploaded != "" {
			s.discardPDF(uploaded)
		}
		return nil, false, err
	}

	if created {
		log.Info().
			Str("order_id", orderID.String()).
			Str("invoice_no", invoice.InvoiceNo).
			Msg("Invoice generated")
		s.afterCommit(ctx, invoice, customer, sendEmail)
	}
	return invoice, created, nil
}

func (s *InvoiceService) resolveShop(ctx context.Context, shops repositories.ShopRepository) (*models.Shop, error) {
	if s.opts.ShopID != uuid.Nil {
		shop, err := shops.FindByID(ctx, s.opts.ShopID)
		if err != nil {
			return nil, err
		}
		if shop != nil {
			return shop, nil
		}
		log.Warn().Str("shop_id", s.opts.ShopID.String()).Msg("Configured shop not found, using default shop")
	}

	shop, err := shops.FindDefault(ctx)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, common.ErrNoShopConfigured
	}
	return shop, nil
}

// afterCommit runs best-effort side effects. Nothing here may fail the request.
func (s *InvoiceService) afterCommit(ctx context.Context, invoice *models.Invoice, customer *models.Customer, sendEmail bool) {
	if s.cache != nil {
		if err := s.cache.SetInvoice(ctx, invoice); err != nil {
			log.Warn().Err(err).Str("invoice_no", invoice.InvoiceNo).Msg("Failed to cache invoice")
		}
	}

	if !sendEmail {
		return
	}
	if customer == nil || strings.TrimSpace(customer.Email) == "" {
		log.Info().Str("invoice_no", invoice.InvoiceNo).Msg("Email requested but customer has no email address")
		return
	}
	if s.emails == nil {
		log.Warn().Str("invoice_no", invoice.InvoiceNo).Msg("Email requested but no email queue is configured")
		return
	}
	if err := s.emails.EnqueueInvoiceEmail(ctx, invoice.OrderID); err != nil {
		log.Error().Err(err).Str("invoice_no", invoice.InvoiceNo).Msg("Failed to enqueue invoice email")
	}
}

func (s *InvoiceService) discardPDF(objectName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.Delete(ctx, objectName); err != nil {
		log.Warn().Err(err).Str("object", objectName).Msg("Failed to remove orphaned invoice pdf")
	}
}

// GetInvoice returns the invoice for an order or common.ErrInvoiceNotFound.
func (s *InvoiceService) GetInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	if s.cache != nil {
		cached, err := s.cache.GetInvoice(ctx, orderID)
		if err != nil {
			log.Warn().Err(err).Str("order_id", orderID.String()).Msg("Invoice cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	inv, err := repositories.NewInvoiceRepo(s.db).FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, common.ErrInvoiceNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetInvoice(ctx, inv); err != nil {
			log.Warn().Err(err).Str("order_id", orderID.String()).Msg("Failed to cache invoice")
		}
	}
	return inv, nil
}

// FetchPDF returns the stored PDF and its download filename.
func (s *InvoiceService) FetchPDF(ctx context.Context, orderID uuid.UUID) ([]byte, string, error) {
	inv, err := s.GetInvoice(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if inv.PDFPath == "" {
		return nil, "", common.ErrPDFNotFound
	}

	data, err := s.storage.Get(ctx, inv.PDFPath)
	if err != nil {
		return nil, "", err
	}
	return data, DownloadFilename(inv.InvoiceNo), nil
}

// PresignedPDFURL returns a time-limited direct download link for the PDF.
func (s *InvoiceService) PresignedPDFURL(ctx context.Context, invoice *models.Invoice) (string, error) {
	if invoice.PDFPath == "" {
		return "", common.ErrPDFNotFound
	}
	return s.storage.PresignedURL(ctx, invoice.PDFPath, s.opts.PresignExpiry)
}

// SendInvoiceEmail mails the stored PDF to the order's customer. A customer
// without an email address or a missing PDF is logged and skipped.
func (s *InvoiceService) SendInvoiceEmail(ctx context.Context, orderID uuid.UUID) error {
	if s.mailer == nil {
		return errors.New("no mailer configured")
	}

	inv, err := s.GetInvoice(ctx, orderID)
	if err != nil {
		return err
	}

	order, err := repositories.NewOrderRepo(s.db).FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return common.ErrOrderNotFound
	}
	to := strings.TrimSpace(order.Customer.Email)
	if to == "" {
		log.Info().Str("invoice_no", inv.InvoiceNo).Msg("Customer has no email address, skipping")
		return nil
	}

	data, err := s.storage.Get(ctx, inv.PDFPath)
	if errors.Is(err, common.ErrPDFNotFound) {
		log.Warn().Str("invoice_no", inv.InvoiceNo).Str("object", inv.PDFPath).Msg("Invoice pdf missing, email skipped")
		return nil
	}
	if err != nil {
		return err
	}

	shopName := ""
	if shop, err := repositories.NewShopRepo(s.db).FindByID(ctx, inv.ShopID); err == nil && shop != nil {
		shopName = shop.Name
	}

	msg := InvoiceEmail(inv.InvoiceNo, shopName, to, data)
	if err := s.mailer.Send(ctx, msg); err != nil {
		return err
	}
	log.Info().Str("invoice_no", inv.InvoiceNo).Str("to", to).Msg("Invoice emailed")
	return nil
}

// InvoiceEmail builds the customer-facing email for an invoice.
func InvoiceEmail(invoiceNo, shopName, to string, pdfData []byte) EmailMessage {
	subject := "Tax Invoice " + invoiceNo
	if shopName != "" {
		subject += " - " + shopName
	}
	return EmailMessage{
		To:             to,
		Subject:        subject,
		Body:           "Please find attached your tax invoice " + invoiceNo + ".",
		AttachmentName: DownloadFilename(invoiceNo),
		Attachment:     pdfData,
	}
}

// AuditPDFs returns invoices created in [from, to) whose PDF is missing from storage.
func (s *InvoiceService) AuditPDFs(ctx context.Context, from, to time.Time) ([]*models.Invoice, error) {
	invoices, err := repositories.NewInvoiceRepo(s.db).ListCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var missing []*models.Invoice
	for _, inv := range invoices {
		ok, err := s.storage.Exists(ctx, inv.PDFPath)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, inv)
		}
	}
	return missing, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
