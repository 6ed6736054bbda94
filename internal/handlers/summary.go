package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary      Dashboard summary
// @Description  Today's consumption, goal progress and per-day totals in the user's timezone.
// @Tags         summary
// @Produce      json
// @Param        days  query     int  false  "Number of days including today (1-90)"  default(7)
// @Success      200   {object}  models.Summary
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	days := 0
	if qs := c.Query("days"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid 'days'; use an integer between 1 and 90"})
			return
		}
		days = v
		if days == 0 {
			days = -1 // explicit zero is out of range
		}
	}
	uid := userID(c)
	sum, err := h.services.Monitoring.Summary(c.Request.Context(), uid, days)
	if err != nil {
		h.respondError(c, err, "summary_failed", "user_id", uid, "days", days)
		return
	}
	c.JSON(http.StatusOK, sum)
}
