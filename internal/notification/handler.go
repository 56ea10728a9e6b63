package notification

import (
	"errors"
	"net/http"

	"fitplatform/internal/api"
	"fitplatform/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List notifications
// @Tags         notifications
// @Security     BearerAuth
// @Param        unread query bool false "Only unread"
// @Success      200 {array} notification.Notification
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, offset := api.Pagination(c)
	list, err := h.service.List(c.Request.Context(), userID, c.Query("unread") == "true", limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary      Unread notification count
// @Tags         notifications
// @Security     BearerAuth
// @Success      200 {object} api.CountResponse
// @Router       /notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, api.CountResponse{Count: count})
}

// @Summary      Mark a notification read
// @Tags         notifications
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200 {object} api.MessageResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "ok"})
}

// @Summary      Mark all notifications read
// @Tags         notifications
// @Security     BearerAuth
// @Success      200 {object} api.CountResponse
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, api.CountResponse{Count: int(n)})
}

// @Summary      Broadcast a notification
// @Description  Admin-only: notify a single user, optionally by email too
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        request body notification.Create true "Notification"
// @Success      201 {object} notification.Notification
// @Router       /admin/notifications [post]
func (h *Handler) Send(c *gin.Context) {
	var req Create
	if !api.BindJSON(c, &req) {
		return
	}

	n, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to send notification"})
		return
	}

	c.JSON(http.StatusCreated, n)
}
