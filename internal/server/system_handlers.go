package server

import (
	"context"
	"net/http"

	"fitplatform/internal/api"
	"fitplatform/internal/email"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type EmailQueue interface {
	Enqueue(ctx context.Context, emailType, to, name, subject, body string) error
}

type TestEmailRequest struct {
	Email string `json:"email" binding:"required,email" example:"ops@example.com"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Router       /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
}

// @Summary      Queue a test email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body server.TestEmailRequest true "Recipient"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/email/test [post]
func TestEmail(queue EmailQueue) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TestEmailRequest
		if !api.BindJSON(c, &req) {
			return
		}

		err := queue.Enqueue(c.Request.Context(), email.TypeNotification, req.Email, "Operator",
			"Test email from FitPlatform", "Email delivery is working!")
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to queue email"})
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Email queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
