package registration

import (
	"errors"
	"net/http"
	"time"

	"fitplatform/internal/api"
	"fitplatform/internal/auth"
	"fitplatform/internal/training"
	"fitplatform/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Book a session
// @Description  Registers the caller, reactivating a cancelled registration when one exists
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      201 {object} registration.Registration
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /sessions/{id}/register [post]
func (h *Handler) Register(c *gin.Context) {
	sessionID, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	reg, err := h.service.Register(c.Request.Context(), actor, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// Cancel godoc
// @Summary      Cancel a registration
// @Tags         registrations
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Registration ID"
// @Param        request body registration.CancelRequest false "Reason"
// @Success      200 {object} registration.Registration
// @Failure      422 {object} api.ErrorResponse
// @Router       /registrations/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if !api.BindJSON(c, &req) {
			return
		}
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	reg, err := h.service.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// MarkAttendance godoc
// @Summary      Record attendance
// @Description  Session owner or admin marks a registration attended or no_show
// @Tags         registrations
// @Accept       json
// @Security     BearerAuth
// @Param        id path int true "Registration ID"
// @Param        request body registration.AttendanceRequest true "Status"
// @Success      200 {object} registration.Registration
// @Router       /registrations/{id}/attendance [post]
func (h *Handler) MarkAttendance(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	var req AttendanceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	reg, err := h.service.MarkAttendance(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// Pay godoc
// @Summary      Pay a pending registration from the wallet
// @Tags         registrations
// @Security     BearerAuth
// @Param        id path int true "Registration ID"
// @Success      200 {object} registration.Registration
// @Failure      402 {object} api.ErrorResponse
// @Router       /registrations/{id}/pay [post]
func (h *Handler) Pay(c *gin.Context) {
	id, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	reg, err := h.service.Pay(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reg)
}

// ListMine godoc
// @Summary      My registrations
// @Tags         registrations
// @Security     BearerAuth
// @Param        status query string false "registered, cancelled, attended or no_show"
// @Success      200 {array} registration.Registration
// @Router       /registrations [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, offset := api.Pagination(c)
	list, err := h.service.ListMine(c.Request.Context(), userID, c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListForSession godoc
// @Summary      Registrations of a session
// @Tags         registrations
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} registration.Registration
// @Router       /sessions/{id}/registrations [get]
func (h *Handler) ListForSession(c *gin.Context) {
	sessionID, ok := api.IDParam(c, "id")
	if !ok {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	list, err := h.service.ListForSession(c.Request.Context(), actor, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Stats godoc
// @Summary      Registration statistics
// @Description  Counts registrations by day and by trainer; defaults to the last 30 days
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to   query string false "End date, exclusive (YYYY-MM-DD)"
// @Success      200 {object} registration.Stats
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/stats/registrations [get]
func (h *Handler) Stats(c *gin.Context) {
	to := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -30)

	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from date"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to date"})
			return
		}
	}

	stats, err := h.service.Stats(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func requireActor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
	}
	return actor, ok
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrRegistrationNotFound), errors.Is(err, training.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, wallet.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, ErrAlreadyRegistered),
		errors.Is(err, ErrSessionFull),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrRegistrationNotActive),
		errors.Is(err, ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, ErrSessionStarted),
		errors.Is(err, ErrSessionNotBookable),
		errors.Is(err, ErrOwnSession),
		errors.Is(err, ErrCancellationWindowExpired),
		errors.Is(err, ErrAttendanceWindowExpired),
		errors.Is(err, ErrNothingToPay):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidRange):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		c.JSON(status, api.ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(status, api.ErrorResponse{Error: err.Error()})
}
