package feedback

import (
	"errors"
	"net/http"

	"fitplatform/internal/api"
	"fitplatform/internal/auth"
	"fitplatform/internal/training"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Submit godoc
// @Summary      Leave feedback for an attended session
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body feedback.CreateRequest true "Feedback"
// @Success      201 {object} feedback.Feedback
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /sessions/{id}/feedback [post]
func (h *Handler) Submit(c *gin.Context) {
	sessionID, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateRequest
	if !api.BindJSON(c, &req) {
		return
	}

	f, err := h.service.Submit(c.Request.Context(), userID, sessionID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// ListForSession godoc
// @Summary      Published feedback of a session
// @Tags         feedback
// @Produce      json
// @Param        id path int true "Session ID"
// @Success      200 {array} feedback.Feedback
// @Router       /sessions/{id}/feedback [get]
func (h *Handler) ListForSession(c *gin.Context) {
	sessionID, ok := api.IDParam(c, "id")
	if !ok {
		return
	}
	limit, offset := api.Pagination(c)

	items, err := h.service.ListForSession(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ListPending godoc
// @Summary      Feedback awaiting moderation
// @Tags         admin
// @Security     BearerAuth
// @Success      200 {array} feedback.Feedback
// @Router       /admin/feedback [get]
func (h *Handler) ListPending(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	limit, offset := api.Pagination(c)

	items, err := h.service.ListPending(c.Request.Context(), actor, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Approve godoc
// @Summary      Publish feedback
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Feedback ID"
// @Param        request body feedback.ApproveRequest false "Notes"
// @Success      200 {object} feedback.Feedback
// @Router       /admin/feedback/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req ApproveRequest
	if c.Request.ContentLength > 0 {
		if !api.BindJSON(c, &req) {
			return
		}
	}

	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	f, err := h.service.Approve(c.Request.Context(), actor, id, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// Reject godoc
// @Summary      Reject feedback
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Feedback ID"
// @Param        request body feedback.RejectRequest true "Notes"
// @Success      200 {object} feedback.Feedback
// @Router       /admin/feedback/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req RejectRequest
	if !api.BindJSON(c, &req) {
		return
	}

	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	f, err := h.service.Reject(c.Request.Context(), actor, id, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrFeedbackNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Feedback not found"})
	case errors.Is(err, training.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrNotAttended), errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrAlreadyModerated):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}
