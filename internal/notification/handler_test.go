package notification

import (
	"bytes"
	"context"
	"encoding/json"
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

func (m *MockService) Send(ctx context.Context, n Create) (*Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockService) List(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, offset)
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockService) UnreadCount(ctx context.Context, userID int) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockService) MarkRead(ctx context.Context, userID, id int) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockService) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func asUser(id int, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		h(c)
	}
}

func TestHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.GET("/notifications", asUser(4, h.List))
	router.GET("/anon", h.List)

	svc.On("List", mock.Anything, 4, true, 50, 0).Return([]Notification{{ID: 1, UserID: 4}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?unread=true", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var list []Notification
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anon", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_MarkRead(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.POST("/notifications/:id/read", asUser(4, h.MarkRead))

	svc.On("MarkRead", mock.Anything, 4, 9).Return(nil)
	svc.On("MarkRead", mock.Anything, 4, 10).Return(ErrNotificationNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/9/read", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/10/read", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/abc/read", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UnreadCountAndMarkAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.GET("/notifications/unread-count", asUser(4, h.UnreadCount))
	router.POST("/notifications/read-all", asUser(4, h.MarkAllRead))

	svc.On("UnreadCount", mock.Anything, 4).Return(2, nil)
	svc.On("MarkAllRead", mock.Anything, 4).Return(int64(2), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications/unread-count", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/read-all", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())
}

func TestHandler_Send(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.POST("/admin/notifications", h.Send)

	want := Create{UserID: 2, Title: "Maintenance", Message: "Gym closed", Type: TypeSystem}
	svc.On("Send", mock.Anything, want).Return(&Notification{ID: 1, UserID: 2}, nil)

	body := `{"user_id":2,"title":"Maintenance","message":"Gym closed","type":"system"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/notifications", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/notifications", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
