package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitplatform/internal/auth"
	"fitplatform/internal/config"
	"fitplatform/internal/email"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *Server {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	rdb, _ := redismock.NewClientMock()
	cfg := &config.Config{
		Port:           "0",
		JWTSecret:      testSecret,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		Policy:         config.DefaultPolicy(),
	}

	return New(sqlx.NewDb(conn, "sqlmock"), nil, cfg, email.New(cfg, rdb))
}

func bearer(t *testing.T, role string) string {
	token, _, err := auth.GenerateTokens(1, "u@example.com", role, testSecret)
	require.NoError(t, err)
	return "Bearer " + token
}

func request(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_SystemRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	w := request(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/metrics", "").Code)
}

func TestServer_RouteGuards(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"protected without token", http.MethodGet, "/wallet", "", http.StatusUnauthorized},
		{"goals without token", http.MethodPost, "/goals", "", http.StatusUnauthorized},
		{"client cannot create sessions", http.MethodPost, "/sessions", auth.RoleClient, http.StatusForbidden},
		{"client cannot expand schedules", http.MethodPost, "/schedules/1/expand", auth.RoleClient, http.StatusForbidden},
		{"trainer cannot moderate", http.MethodPost, "/admin/sessions/1/approve", auth.RoleTrainer, http.StatusForbidden},
		{"client cannot moderate feedback", http.MethodGet, "/admin/feedback", auth.RoleClient, http.StatusForbidden},
		{"client cannot read stats", http.MethodGet, "/admin/stats/registrations", auth.RoleClient, http.StatusForbidden},
		{"bad id rejected before service", http.MethodPost, "/registrations/abc/cancel", auth.RoleClient, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/classes", auth.RoleClient, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ""
			if tt.role != "" {
				token = bearer(t, tt.role)
			}
			assert.Equal(t, tt.want, request(h, tt.method, tt.path, token).Code)
		})
	}
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, emailType, to, name, subject, body string) error {
	return m.Called(ctx, emailType, to, name, subject, body).Error(0)
}

func TestTestEmail(t *testing.T) {
	queue := new(MockQueue)
	router := gin.New()
	router.POST("/admin/email/test", TestEmail(queue))

	queue.On("Enqueue", mock.Anything, email.TypeNotification, "ops@example.com", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	queue.On("Enqueue", mock.Anything, email.TypeNotification, "down@example.com", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis down")).Once()

	post := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/email/test", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post(`{"email":"ops@example.com"}`))
	assert.Equal(t, http.StatusInternalServerError, post(`{"email":"down@example.com"}`))
	assert.Equal(t, http.StatusBadRequest, post(`{"email":"not-an-email"}`))
	queue.AssertExpectations(t)
}
