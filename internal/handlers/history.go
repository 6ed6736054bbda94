package handlers

import (
	"net/http"
	"strings"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"
	"ecogo/internal/service"

	"github.com/gin-gonic/gin"
)

// LogUsageRequest records a finished run entered by hand.
type LogUsageRequest struct {
	Name       string  `json:"name" binding:"required" example:"Washing machine"`
	PowerWatts float64 `json:"power_watts" binding:"required" example:"500"`
	Hours      float64 `json:"hours" binding:"required" example:"1.5"`
}

// @Summary      Usage history
// @Description  Finalized records whose end time falls in the range, oldest first.
// @Tags         history
// @Produce      json
// @Param        from         query     string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"
// @Param        to           query     string  false  "End of range. Date-only treated as end of day."
// @Param        termination  query     string  false  "Termination kind"  Enums(manual,forced,auto-shutdown)
// @Success      200          {object}  map[string]interface{}  "count, records"
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      500          {object}  errorResponse
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}
	uid := userID(c)
	records, err := h.services.History.List(c.Request.Context(), uid, service.HistoryFilter{
		From:        from,
		To:          to,
		Termination: models.TerminationKind(strings.ToLower(strings.TrimSpace(c.Query("termination")))),
	})
	if err != nil {
		h.respondError(c, err, "history_list_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}

// @Summary      Log usage
// @Description  Adds a finished run ending now, costed at the current rate.
// @Tags         history
// @Accept       json
// @Produce      json
// @Param        body  body      LogUsageRequest  true  "Usage"
// @Success      201   {object}  map[string]interface{}  "record, persisted"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/history [post]
// @Security     BearerAuth
func (h *Handler) logUsage(c *gin.Context) {
	var req LogUsageRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	uid := userID(c)
	rec, err := h.services.History.Log(c.Request.Context(), uid, lifecycle.LogParams{
		Name:       req.Name,
		PowerWatts: req.PowerWatts,
		Hours:      req.Hours,
	})
	h.respondCommand(c, http.StatusCreated, gin.H{"record": rec}, err, "history_log_failed", "user_id", uid)
}
