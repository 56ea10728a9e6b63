package goal

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

// CreateGoal godoc
// @Summary      Create a goal
// @Tags         goals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body goal.CreateGoalRequest true "Goal"
// @Success      201 {object} goal.View
// @Failure      400 {object} api.ErrorResponse
// @Router       /goals [post]
func (h *Handler) CreateGoal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateGoalRequest
	if !api.BindJSON(c, &req) {
		return
	}

	view, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// ListGoals godoc
// @Summary      My goals
// @Tags         goals
// @Security     BearerAuth
// @Param        status query string false "active, completed, failed or cancelled"
// @Success      200 {array} goal.View
// @Router       /goals [get]
func (h *Handler) ListGoals(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	views, err := h.service.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// GetGoal godoc
// @Summary      Goal details
// @Tags         goals
// @Security     BearerAuth
// @Param        id path int true "Goal ID"
// @Success      200 {object} goal.View
// @Failure      404 {object} api.ErrorResponse
// @Router       /goals/{id} [get]
func (h *Handler) GetGoal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateProgress godoc
// @Summary      Set a goal's current value
// @Tags         goals
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Goal ID"
// @Param        request body goal.UpdateProgressRequest true "Value"
// @Success      200 {object} goal.View
// @Router       /goals/{id}/progress [patch]
func (h *Handler) UpdateProgress(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProgressRequest
	if !api.BindJSON(c, &req) {
		return
	}

	view, err := h.service.UpdateProgress(c.Request.Context(), userID, id, *req.CurrentValue)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// CancelGoal godoc
// @Summary      Cancel a goal
// @Tags         goals
// @Security     BearerAuth
// @Param        id path int true "Goal ID"
// @Success      200 {object} goal.View
// @Router       /goals/{id}/cancel [post]
func (h *Handler) CancelGoal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.service.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ListAchievements godoc
// @Summary      My achievements
// @Tags         goals
// @Security     BearerAuth
// @Success      200 {object} goal.AchievementList
// @Router       /achievements [get]
func (h *Handler) ListAchievements(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	list, err := h.service.Achievements(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrGoalNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Goal not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrGoalNotActive):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrInvalidDates):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}
