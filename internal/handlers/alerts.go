package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List alerts
// @Description  Persistent alerts that have not expired, oldest first.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/alerts [get]
// @Security     BearerAuth
func (h *Handler) listAlerts(c *gin.Context) {
	uid := userID(c)
	alerts, err := h.services.Alerts.List(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err, "alerts_list_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "alerts": alerts})
}

// @Summary      Dismiss alert
// @Tags         alerts
// @Produce      json
// @Param        id   path      string  true  "Alert ID"
// @Success      200  {object}  map[string]interface{}  "status, persisted"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/alerts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) dismissAlert(c *gin.Context) {
	uid, id := userID(c), c.Param("id")
	err := h.services.Alerts.Dismiss(c.Request.Context(), uid, id)
	h.respondCommand(c, http.StatusOK, gin.H{"status": statusDismissed, "id": id}, err, "alert_dismiss_failed", "user_id", uid, "alert_id", id)
}
