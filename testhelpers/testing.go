package testhelpers

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"gstinvoice/internal/common"
	"gstinvoice/internal/models"
	"gstinvoice/internal/repositories"
	"gstinvoice/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL (or connString), applies the
// schema and empties every table. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
	}
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, connString, 20)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	truncate := func() {
		_, err := pool.Exec(ctx, `TRUNCATE invoices, invoice_sequences, order_items, orders, customers, shops CASCADE`)
		if err != nil {
			t.Errorf("Failed to truncate test database: %v", err)
		}
	}
	truncate()

	return &TestDB{
		Pool: pool,
		Cleanup: func() {
			truncate()
			pool.Close()
		},
	}
}

// SetupTestShop creates the default shop for testing
func SetupTestShop(t *testing.T, db *TestDB, prefix, stateCode string) *models.Shop {
	t.Helper()

	shop := &models.Shop{
		Name:          "SAI PAINTS",
		GSTIN:         "37PEFPS6526R1Z6",
		Address:       "Guntakal",
		State:         "A.P.",
		StateCode:     stateCode,
		InvoicePrefix: prefix,
		IsDefault:     true,
	}
	if err := repositories.NewShopRepo(db.Pool).Create(context.Background(), shop); err != nil {
		t.Fatalf("Failed to create test shop: %v", err)
	}
	return shop
}

// SetupTestOrder creates an order with one line per amount for testing
func SetupTestOrder(t *testing.T, db *TestDB, stateCode string, amounts ...string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	customer := &models.Customer{Name: "Test Customer", StateCode: stateCode}
	if err := repositories.NewCustomerRepo(db.Pool).Create(ctx, customer); err != nil {
		t.Fatalf("Failed to create test customer: %v", err)
	}

	order := &models.Order{CustomerID: customer.ID}
	if err := repositories.NewOrderRepo(db.Pool).Create(ctx, order); err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	items := repositories.NewOrderItemRepo(db.Pool)
	for i, a := range amounts {
		amount := decimal.RequireFromString(a)
		item := &models.OrderItem{
			OrderID:     order.ID,
			SNo:         i + 1,
			Description: "Test Item",
			HSNSAC:      models.DefaultHSNSAC,
			Quantity:    decimal.NewFromInt(1),
			Rate:        amount,
			Amount:      amount,
		}
		if err := items.Create(ctx, item); err != nil {
			t.Fatalf("Failed to create test order item: %v", err)
		}
	}
	return order.ID
}

// MemoryPDFStorage keeps PDFs in memory for tests
type MemoryPDFStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryPDFStorage() *MemoryPDFStorage {
	return &MemoryPDFStorage{objects: make(map[string][]byte)}
}

func (m *MemoryPDFStorage) Put(_ context.Context, objectName string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryPDFStorage) Get(_ context.Context, objectName string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	if !ok {
		return nil, common.ErrPDFNotFound
	}
	return data, nil
}

func (m *MemoryPDFStorage) Delete(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *MemoryPDFStorage) Exists(_ context.Context, objectName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objectName]
	return ok, nil
}

func (m *MemoryPDFStorage) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "memory://" + objectName, nil
}

func (m *MemoryPDFStorage) EnsureBucketExists(context.Context) error { return nil }

func (m *MemoryPDFStorage) Ping(context.Context) error { return nil }

// Len reports how many objects are stored.
func (m *MemoryPDFStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
