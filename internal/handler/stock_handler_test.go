package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osama347/general-store-management-system-sub000/internal/dto"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"
	"github.com/osama347/general-store-management-system-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ledgerStub lets each test pin the service outcome and capture the call.
type ledgerStub struct {
	intakeResp   *dto.PoolResponse
	transferResp *dto.TransferResponse
	consumeResp  *dto.ConsumeResponse
	summaryResp  *dto.StockSummaryResponse
	err          error
	gotActor     string
	gotAmount    int
}

func (s *ledgerStub) Intake(_ context.Context, _ uuid.UUID, amount int) (*dto.PoolResponse, error) {
	s.gotAmount = amount
	return s.intakeResp, s.err
}

func (s *ledgerStub) Distribute(_ context.Context, _ uuid.UUID, _ []service.DistributionTarget) (*dto.DistributeResponse, error) {
	return nil, s.err
}

func (s *ledgerStub) Transfer(_ context.Context, _, _, _ uuid.UUID, amount int, actor string) (*dto.TransferResponse, error) {
	s.gotActor = actor
	s.gotAmount = amount
	return s.transferResp, s.err
}

func (s *ledgerStub) Consume(_ context.Context, _, _ uuid.UUID, amount int) (*dto.ConsumeResponse, error) {
	s.gotAmount = amount
	return s.consumeResp, s.err
}

func (s *ledgerStub) ProductSummary(_ context.Context, _ uuid.UUID) (*dto.StockSummaryResponse, error) {
	return s.summaryResp, s.err
}

func (s *ledgerStub) ListSummaries(_ context.Context, _, _ int) (*dto.StockSummaryListResponse, error) {
	return &dto.StockSummaryListResponse{}, s.err
}

func (s *ledgerStub) ListTransfers(_ context.Context, _ repository.TransferFilter) (*dto.TransferListResponse, error) {
	return &dto.TransferListResponse{}, s.err
}

func setupRouter(stub *ledgerStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewStockHandler(stub)
	r := gin.New()
	r.POST("/stock/intake", h.Intake)
	r.POST("/stock/transfer", h.Transfer)
	r.POST("/stock/consume", h.Consume)
	r.GET("/stock/summary/:productID", h.ProductSummary)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIntakeHandlerReturnsPool(t *testing.T) {
	stub := &ledgerStub{intakeResp: &dto.PoolResponse{ProductID: uuid.NewString(), TotalQuantity: 40, AvailableQuantity: 40}}
	r := setupRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/stock/intake", dto.IntakeRequest{ProductID: uuid.NewString(), Amount: 40})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 40, stub.gotAmount)

	var resp dto.PoolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.TotalQuantity)
}

func TestIntakeHandlerRejectsMalformedBody(t *testing.T) {
	r := setupRouter(&ledgerStub{})

	w := doJSON(t, r, http.MethodPost, "/stock/intake", map[string]any{"product_id": "not-a-uuid", "amount": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntakeHandlerMapsNotFound(t *testing.T) {
	stub := &ledgerStub{err: &service.NotFoundError{Resource: "product", ID: uuid.NewString()}}
	r := setupRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/stock/intake", dto.IntakeRequest{ProductID: uuid.NewString(), Amount: 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransferHandlerMapsInsufficientStock(t *testing.T) {
	stub := &ledgerStub{err: &service.InsufficientStockError{
		ProductID: uuid.New(), LocationID: uuid.New(), Available: 4, Requested: 9,
	}}
	r := setupRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/stock/transfer", dto.TransferRequest{
		ProductID:      uuid.NewString(),
		FromLocationID: uuid.NewString(),
		ToLocationID:   uuid.NewString(),
		Amount:         9,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Code    string         `json:"code"`
		Context map[string]any `json:"context"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "insufficient_stock", body.Code)
	assert.EqualValues(t, 4, body.Context["available"])
	assert.EqualValues(t, 9, body.Context["requested"])
}

func TestTransferHandlerCreated(t *testing.T) {
	stub := &ledgerStub{transferResp: &dto.TransferResponse{TransferID: 7, Quantity: 3}}
	r := setupRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/stock/transfer", dto.TransferRequest{
		ProductID:      uuid.NewString(),
		FromLocationID: uuid.NewString(),
		ToLocationID:   uuid.NewString(),
		Amount:         3,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestConsumeHandlerMapsConcurrencyConflict(t *testing.T) {
	stub := &ledgerStub{err: service.ErrConcurrencyConflict}
	r := setupRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/stock/consume", dto.ConsumeRequest{
		ProductID:  uuid.NewString(),
		LocationID: uuid.NewString(),
		Amount:     1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "conflict", body.Code)
}

func TestProductSummaryRejectsBadID(t *testing.T) {
	r := setupRouter(&ledgerStub{})

	req := httptest.NewRequest(http.MethodGet, "/stock/summary/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorageErrorIsOpaque(t *testing.T) {
	stub := &ledgerStub{err: &service.StorageError{Err: assert.AnError}}
	r := setupRouter(stub)

	w := doJSON(t, r, http.MethodPost, "/stock/consume", dto.ConsumeRequest{
		ProductID:  uuid.NewString(),
		LocationID: uuid.NewString(),
		Amount:     1,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
