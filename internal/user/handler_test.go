package user

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

func (m *MockService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResponse), args.Error(1)
}

func (m *MockService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResponse), args.Error(1)
}

func (m *MockService) GetByID(ctx context.Context, userID int) (*User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockService) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LoginResponse), args.Error(1)
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.POST("/auth/register", h.Register)

	valid := RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "password123"}
	dup := RegisterRequest{Name: "Bob", Email: "b@example.com", Password: "password123"}

	svc.On("Register", mock.Anything, valid).Return(&LoginResponse{AccessToken: "a", User: User{ID: 1}}, nil)
	svc.On("Register", mock.Anything, dup).Return(nil, ErrEmailExists)

	assert.Equal(t, http.StatusCreated, postJSON(router, "/auth/register", valid).Code)
	assert.Equal(t, http.StatusConflict, postJSON(router, "/auth/register", dup).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, "/auth/register", gin.H{"email": "bad"}).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(router, "/auth/register",
		gin.H{"name": "Eve", "email": "e@example.com", "password": "password123", "role": "admin"}).Code)
}

func TestHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	router := gin.New()
	router.POST("/auth/login", h.Login)

	req := LoginRequest{Email: "a@example.com", Password: "wrong"}
	svc.On("Login", mock.Anything, req).Return(nil, ErrInvalidCredentials)

	w := postJSON(router, "/auth/login", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestHandler_GetMe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockService)
	h := NewHandler(svc)
	svc.On("GetByID", mock.Anything, 3).Return(&User{ID: 3, Name: "Carol", PasswordHash: "secret"}, nil)

	router := gin.New()
	router.GET("/me", func(c *gin.Context) {
		c.Set("user_id", 3)
		h.GetMe(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Carol")
	assert.NotContains(t, w.Body.String(), "secret")
}
