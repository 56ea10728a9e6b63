package schedule

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

// @Summary      Create a recurring schedule
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body schedule.CreateScheduleRequest true "Schedule payload"
// @Success      201 {object} schedule.Schedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /schedules [post]
func (h *Handler) CreateSchedule(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateScheduleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sched, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err, "Failed to create schedule")
		return
	}

	c.JSON(http.StatusCreated, sched)
}

// @Summary      List my schedules
// @Tags         schedules
// @Security     BearerAuth
// @Success      200 {array} schedule.Schedule
// @Router       /schedules [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	schedules, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// @Summary      Get a schedule
// @Tags         schedules
// @Param        id path int true "Schedule ID"
// @Success      200 {object} schedule.Schedule
// @Router       /schedules/{id} [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	sched, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch schedule")
		return
	}

	c.JSON(http.StatusOK, sched)
}

// @Summary      Delete a schedule
// @Description  Already materialized sessions are kept
// @Tags         schedules
// @Security     BearerAuth
// @Param        id path int true "Schedule ID"
// @Success      204
// @Router       /schedules/{id} [delete]
func (h *Handler) DeleteSchedule(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err, "Failed to delete schedule")
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Preview occurrences
// @Tags         schedules
// @Security     BearerAuth
// @Param        id   path  int    true "Schedule ID"
// @Param        from query string true "First date (YYYY-MM-DD)"
// @Param        to   query string true "Last date (YYYY-MM-DD)"
// @Success      200 {array} string
// @Router       /schedules/{id}/occurrences [get]
func (h *Handler) Preview(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req WindowRequest
	if !api.BindQuery(c, &req) {
		return
	}
	from, to, err := ParseWindow(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	starts, err := h.service.Preview(c.Request.Context(), actor, id, from, to)
	if err != nil {
		writeError(c, err, "Failed to generate occurrences")
		return
	}

	c.JSON(http.StatusOK, starts)
}

// @Summary      Materialize occurrences
// @Tags         schedules
// @Accept       json
// @Security     BearerAuth
// @Param        id      path int                    true "Schedule ID"
// @Param        request body schedule.WindowRequest true "Date window"
// @Success      200 {object} schedule.ExpandResult
// @Router       /schedules/{id}/expand [post]
func (h *Handler) Expand(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req WindowRequest
	if !api.BindJSON(c, &req) {
		return
	}
	from, to, err := ParseWindow(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Expand(c.Request.Context(), actor, id, from, to)
	if err != nil {
		writeError(c, err, "Failed to expand schedule")
		return
	}

	c.JSON(http.StatusOK, result)
}

func writeError(c *gin.Context, err error, fallback string) {
	var ruleErr *InvalidRuleError
	switch {
	case errors.As(err, &ruleErr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: ruleErr.Error()})
	case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrDurationLimits):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrScheduleNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Schedule not found"})
	case errors.Is(err, training.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Template session not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
