package handlers

import (
	"errors"
	"net/http"

	"ecogo/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

const (
	statusOK        = "ok"
	statusDismissed = "dismissed"

	errInvalidBodyPref = "invalid body: "
	errInternal        = "internal error"
	errPersistDelayed  = "saved in memory; storage retry scheduled"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error" example:"appliance 0190f3c2 not found"`
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response. Client errors carry the service
// message; server errors are logged and answered generically.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code := statusFor(err)
	fields := append([]interface{}{"err", err, "status", code}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
		c.JSON(code, errorResponse{Error: errInternal})
		return
	}
	h.log.Infow(logKey, fields...)
	c.JSON(code, errorResponse{Error: err.Error()})
}

// respondCommand answers a state-changing request. A transition that took
// effect but could not be saved yet is reported as 202 with persisted=false.
func (h *Handler) respondCommand(c *gin.Context, code int, body gin.H, err error, logKey string, kv ...interface{}) {
	switch {
	case err == nil:
		body["persisted"] = true
		c.JSON(code, body)
	case errors.Is(err, lifecycle.ErrPersistence):
		h.log.Warnw(logKey, append([]interface{}{"err", err}, kv...)...)
		body["persisted"] = false
		body["warning"] = errPersistDelayed
		c.JSON(http.StatusAccepted, body)
	default:
		h.respondError(c, err, logKey, kv...)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
