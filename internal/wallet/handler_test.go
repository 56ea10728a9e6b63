package wallet

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Open(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockService) Balance(ctx context.Context, userID int) (*Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) TopUp(ctx context.Context, userID int, amountCents int64) (*Wallet, error) {
	args := m.Called(ctx, userID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockService) Transactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]Transaction), args.Error(1)
}

func asUser(id int, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		h(c)
	}
}

func TestHandler_TopUp(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.POST("/wallet/topup", asUser(3, h.TopUp))

	svc.On("TopUp", mock.Anything, 3, int64(2500)).Return(&Wallet{ID: 1, UserID: 3, BalanceCents: 2500}, nil)

	req := httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount_cents":2500}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"balance_cents":2500`)

	req = httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewBufferString(`{"amount_cents":-5}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Balance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.GET("/wallet", asUser(3, h.GetBalance))
	router.GET("/wallet/transactions", asUser(3, h.ListTransactions))
	router.GET("/anon", h.GetBalance)

	svc.On("Balance", mock.Anything, 3).Return(&Wallet{ID: 1, UserID: 3, BalanceCents: 100}, nil)
	svc.On("Transactions", mock.Anything, 3, 10, 0).Return([]Transaction{{ID: 1}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wallet/transactions?limit=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
