package handlers

import (
	"net/http"

	"ecogo/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	uid := userID(c)
	s, err := h.services.Settings.Get(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err, "settings_get_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Replace settings
// @Description  electricity_rate and daily_goal_kwh must be positive; unset text fields take their defaults. The new rate applies to usage finalized from now on.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      models.Settings  true  "Settings"
// @Success      200   {object}  map[string]interface{}  "settings, persisted"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/settings [put]
// @Security     BearerAuth
func (h *Handler) updateSettings(c *gin.Context) {
	var in models.Settings
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}
	uid := userID(c)
	s, err := h.services.Settings.Update(c.Request.Context(), uid, in)
	h.respondCommand(c, http.StatusOK, gin.H{"settings": s}, err, "settings_update_failed", "user_id", uid)
}
