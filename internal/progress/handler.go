package progress

import (
	"errors"
	"net/http"
	"time"

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

// AddRecord godoc
// @Summary      Record an activity
// @Tags         progress
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body progress.CreateRecordRequest true "Activity"
// @Success      201 {object} progress.AddResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /progress [post]
func (h *Handler) AddRecord(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateRecordRequest
	if !api.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Add(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListRecords godoc
// @Summary      Activity history
// @Tags         progress
// @Security     BearerAuth
// @Param        from query string false "YYYY-MM-DD"
// @Param        to query string false "YYYY-MM-DD"
// @Param        activity_type query string false "Activity type"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200 {array} progress.RecordView
// @Router       /progress [get]
func (h *Handler) ListRecords(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	f, ok := parseFilter(c)
	if !ok {
		return
	}
	f.Limit, f.Offset = api.Pagination(c)

	views, err := h.service.History(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// GetSummary godoc
// @Summary      Activity totals
// @Tags         progress
// @Security     BearerAuth
// @Param        from query string false "YYYY-MM-DD"
// @Param        to query string false "YYYY-MM-DD"
// @Param        activity_type query string false "Activity type"
// @Success      200 {object} progress.Summary
// @Router       /progress/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	f, ok := parseFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func parseFilter(c *gin.Context) (HistoryFilter, bool) {
	f := HistoryFilter{ActivityType: c.Query("activity_type")}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid " + p.name + " date"})
			return f, false
		}
		*p.dst = &d
	}
	return f, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateRecord):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrFutureDate), errors.Is(err, ErrDateTooOld), errors.Is(err, ErrBloodPressure),
		errors.Is(err, ErrSessionNotAttended):
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Internal server error"})
	}
}
