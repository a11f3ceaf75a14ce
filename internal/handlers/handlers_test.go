package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gstinvoice/internal/common"
	"gstinvoice/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GenerateInvoice(ctx context.Context, orderID uuid.UUID, sendEmail bool) (*models.Invoice, bool, error) {
	args := m.Called(ctx, orderID, sendEmail)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Invoice), args.Bool(1), args.Error(2)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) FetchPDF(ctx context.Context, orderID uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockInvoiceService) PresignedPDFURL(ctx context.Context, invoice *models.Invoice) (string, error) {
	args := m.Called(ctx, invoice)
	return args.String(0), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	echo     *echo.Echo
	orders   *MockOrderService
	invoices *MockInvoiceService
}

func newTestServer(db, cache, storage Pinger) *testServer {
	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	ts := &testServer{echo: e, orders: new(MockOrderService), invoices: new(MockInvoiceService)}
	RegisterRoutes(e, NewOrderHandlers(ts.orders), NewInvoiceHandlers(ts.invoices), NewHealthHandlers(db, cache, storage, "test"))
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sampleInvoice(orderID uuid.UUID) *models.Invoice {
	return &models.Invoice{
		ID:          uuid.New(),
		OrderID:     orderID,
		InvoiceNo:   "SP-2026-0001",
		InvoiceDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		PDFPath:     "invoices/2026/03/invoice_SP_2026_0001.pdf",
	}
}

func TestCreateOrder_Created(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	orderID := uuid.New()
	ts.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(r *models.CreateOrderRequest) bool {
		return r.Customer.Name == "Ravi Traders" && len(r.Items) == 1 && r.Items[0].Amount.String() == "150"
	})).Return(&models.Order{ID: orderID}, nil).Once()

	rec := ts.do(http.MethodPost, "/api/orders", `{
		"customer": {"name": "Ravi Traders", "state_code": "37"},
		"items": [{"description": "Apex", "quantity": 1, "rate": "150", "amount": 150}]
	}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"order_id":"`+orderID.String()+`"}`, rec.Body.String())
	ts.orders.AssertExpectations(t)
}

func TestCreateOrder_ValidationError(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	verr := common.NewValidationError()
	verr.Add("items", "must contain at least 1 item(s)")
	ts.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, verr).Once()

	rec := ts.do(http.MethodPost, "/api/orders/", `{"customer": {"name": "X"}, "items": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "must contain at least 1 item(s)", resp.Error.Details["items"])
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})

	rec := ts.do(http.MethodPost, "/api/orders", `{"customer":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Error.Code)
	ts.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestGetOrder(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	orderID := uuid.New()
	ts.orders.On("GetOrder", mock.Anything, orderID).Return(&models.Order{ID: orderID}, nil).Once()
	missing := uuid.New()
	ts.orders.On("GetOrder", mock.Anything, missing).Return(nil, common.ErrOrderNotFound).Once()

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/orders/"+orderID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, ts.do(http.MethodGet, "/api/orders/"+missing.String(), "").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/orders/not-a-uuid", "").Code)
}

func TestGenerateInvoice_CreatedThenExisting(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	orderID := uuid.New()
	inv := sampleInvoice(orderID)
	ts.invoices.On("GenerateInvoice", mock.Anything, orderID, false).Return(inv, true, nil).Once()
	ts.invoices.On("GenerateInvoice", mock.Anything, orderID, false).Return(inv, false, nil).Once()
	ts.invoices.On("PresignedPDFURL", mock.Anything, inv).Return("", errors.New("no storage")).Twice()

	first := ts.do(http.MethodPost, "/api/generate-invoice/"+orderID.String(), "")
	second := ts.do(http.MethodPost, "/api/generate-invoice/"+orderID.String()+"/", "")

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	var resp InvoiceResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "SP-2026-0001", resp.InvoiceNo)
	assert.Equal(t, "2026-03-14", resp.InvoiceDate)
	assert.Equal(t, "/api/invoice/"+orderID.String()+"/pdf", resp.PDFURL)
	assert.Empty(t, resp.DownloadURL)
	assert.False(t, resp.Created)
	ts.invoices.AssertExpectations(t)
}

func TestGenerateInvoice_EmailFlag(t *testing.T) {
	tests := []struct {
		name  string
		query string
		body  string
		want  bool
	}{
		{"query yes", "?email=yes", "", true},
		{"query one", "?email=1", "", true},
		{"query no", "?email=no", "", false},
		{"json true", "", `{"email": true}`, true},
		{"json string", "", `{"email": "TRUE"}`, true},
		{"json false", "", `{"email": false}`, false},
		{"no flag", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(stubPinger{}, nil, stubPinger{})
			orderID := uuid.New()
			inv := sampleInvoice(orderID)
			ts.invoices.On("GenerateInvoice", mock.Anything, orderID, tt.want).Return(inv, true, nil).Once()
			ts.invoices.On("PresignedPDFURL", mock.Anything, inv).Return("http://minio/signed", nil).Once()

			rec := ts.do(http.MethodPost, "/api/generate-invoice/"+orderID.String()+tt.query, tt.body)

			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.Contains(t, rec.Body.String(), `"download_url":"http://minio/signed"`)
			ts.invoices.AssertExpectations(t)
		})
	}
}

func TestGenerateInvoice_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{common.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{common.ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
		{common.ErrNoShopConfigured, http.StatusConflict, "NO_SHOP_CONFIGURED"},
		{errors.New("connection refused"), http.StatusInternalServerError, "SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			ts := newTestServer(stubPinger{}, nil, stubPinger{})
			orderID := uuid.New()
			ts.invoices.On("GenerateInvoice", mock.Anything, orderID, false).Return(nil, false, tt.err).Once()

			rec := ts.do(http.MethodPost, "/api/generate-invoice/"+orderID.String(), "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestGetInvoice(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	orderID, missing := uuid.New(), uuid.New()
	inv := sampleInvoice(orderID)
	ts.invoices.On("GetInvoice", mock.Anything, orderID).Return(inv, nil).Once()
	ts.invoices.On("PresignedPDFURL", mock.Anything, inv).Return("", errors.New("none")).Once()
	ts.invoices.On("GetInvoice", mock.Anything, missing).Return(nil, common.ErrInvoiceNotFound).Once()

	ok := ts.do(http.MethodGet, "/api/generate-invoice/"+orderID.String(), "")
	notFound := ts.do(http.MethodGet, "/api/generate-invoice/"+missing.String(), "")

	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Contains(t, ok.Body.String(), `"invoice_no":"SP-2026-0001"`)
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Equal(t, "INVOICE_NOT_FOUND", decodeError(t, notFound).Error.Code)
}

func TestDownloadPDF(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	orderID, missing := uuid.New(), uuid.New()
	ts.invoices.On("FetchPDF", mock.Anything, orderID).Return([]byte("%PDF-1.3"), "invoice_SP-2026-0001.pdf", nil).Once()
	ts.invoices.On("FetchPDF", mock.Anything, missing).Return(nil, "", common.ErrPDFNotFound).Once()

	rec := ts.do(http.MethodGet, "/api/invoice/"+orderID.String()+"/pdf", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="invoice_SP-2026-0001.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/invoice/"+missing.String()+"/pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PDF_NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(stubPinger{}, nil, stubPinger{})
	rec := ts.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "disabled", status.Services["redis"])
	assert.Equal(t, "healthy", status.Services["database"])

	ts = newTestServer(stubPinger{}, stubPinger{err: errors.New("down")}, stubPinger{})
	rec = ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"unhealthy"`)
}

func TestReadinessCheck(t *testing.T) {
	assert.Equal(t, http.StatusOK, newTestServer(stubPinger{}, nil, stubPinger{}).do(http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable,
		newTestServer(stubPinger{err: errors.New("down")}, nil, stubPinger{}).do(http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable,
		newTestServer(stubPinger{}, nil, stubPinger{err: errors.New("down")}).do(http.MethodGet, "/health/ready", "").Code)
}
