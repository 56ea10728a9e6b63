package training

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitplatform/internal/api"
	"fitplatform/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a session
// @Description  Trainer or admin: creates a draft session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body training.CreateSessionRequest true "Session payload"
// @Success      201 {object} training.SessionView
// @Failure      400 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateSessionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	session, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err, "Failed to create session")
		return
	}

	c.JSON(http.StatusCreated, NewSessionView(*session))
}

// @Summary      List upcoming sessions
// @Tags         sessions
// @Produce      json
// @Param        type       query string false "Training type"
// @Param        difficulty query string false "Difficulty"
// @Param        trainer_id query int    false "Trainer ID"
// @Success      200 {array} training.SessionView
// @Router       /sessions [get]
func (h *Handler) ListUpcoming(c *gin.Context) {
	limit, offset := api.Pagination(c)
	trainerID, _ := strconv.Atoi(c.Query("trainer_id"))

	sessions, err := h.service.ListUpcoming(c.Request.Context(), ListFilter{
		TrainingType: c.Query("type"),
		Difficulty:   c.Query("difficulty"),
		TrainerID:    trainerID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, NewSessionViews(sessions))
}

// @Summary      Get a session
// @Tags         sessions
// @Produce      json
// @Param        id path int true "Session ID"
// @Success      200 {object} training.SessionView
// @Failure      404 {object} api.ErrorResponse
// @Router       /sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch session")
		return
	}

	c.JSON(http.StatusOK, NewSessionView(*session))
}

// @Summary      Get a session by public id
// @Tags         sessions
// @Produce      json
// @Param        publicID path string true "Public session ID"
// @Success      200 {object} training.SessionView
// @Router       /sessions/public/{publicID} [get]
func (h *Handler) GetSessionByPublicID(c *gin.Context) {
	publicID, err := uuid.Parse(c.Param("publicID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid public ID"})
		return
	}

	session, err := h.service.GetByPublicID(c.Request.Context(), publicID)
	if err != nil {
		writeError(c, err, "Failed to fetch session")
		return
	}

	c.JSON(http.StatusOK, NewSessionView(*session))
}

// @Summary      List my sessions
// @Description  Trainer: sessions the caller runs
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} training.SessionView
// @Router       /trainer/sessions [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, offset := api.Pagination(c)
	sessions, err := h.service.ListMine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch sessions"})
		return
	}

	c.JSON(http.StatusOK, NewSessionViews(sessions))
}

// @Summary      Submit a session for moderation
// @Tags         sessions
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} training.SessionView
// @Router       /sessions/{id}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.service.Submit(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err, "Failed to submit session")
		return
	}

	c.JSON(http.StatusOK, NewSessionView(*session))
}

// @Summary      Approve a session
// @Tags         admin
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body training.ModerationRequest false "Moderation notes"
// @Success      200 {object} training.SessionView
// @Router       /admin/sessions/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.moderate(c, h.service.Approve)
}

// @Summary      Reject a session
// @Tags         admin
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body training.ModerationRequest false "Moderation notes"
// @Success      200 {object} training.SessionView
// @Router       /admin/sessions/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.moderate(c, h.service.Reject)
}

func (h *Handler) moderate(c *gin.Context, action func(ctx context.Context, id int, notes string) (*Session, error)) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req ModerationRequest
	if c.Request.ContentLength > 0 {
		if !api.BindJSON(c, &req) {
			return
		}
	}

	session, err := action(c.Request.Context(), id, req.Notes)
	if err != nil {
		writeError(c, err, "Failed to moderate session")
		return
	}

	c.JSON(http.StatusOK, NewSessionView(*session))
}

// @Summary      Change session status
// @Description  Owner or admin; admins may pass force to override the transition rules
// @Tags         sessions
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body training.UpdateStatusRequest true "Status payload"
// @Success      200 {object} training.SessionView
// @Failure      409 {object} api.ErrorResponse
// @Router       /sessions/{id}/status [patch]
func (h *Handler) ChangeStatus(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !api.BindJSON(c, &req) {
		return
	}

	session, err := h.service.ChangeStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		writeError(c, err, "Failed to change status")
		return
	}

	c.JSON(http.StatusOK, NewSessionView(*session))
}

// @Summary      Monthly calendar
// @Description  Sessions the caller is registered for in a month
// @Tags         sessions
// @Security     BearerAuth
// @Param        year  query int false "Year"
// @Param        month query int false "Month (1-12)"
// @Success      200 {array} training.SessionView
// @Router       /calendar [get]
func (h *Handler) Calendar(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid month"})
		return
	}

	sessions, err := h.service.Calendar(c.Request.Context(), userID, year, time.Month(month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load calendar"})
		return
	}

	c.JSON(http.StatusOK, NewSessionViews(sessions))
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrModerationRequired):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidCapacity),
		errors.Is(err, ErrStartInPast), errors.Is(err, ErrInvalidRating):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
