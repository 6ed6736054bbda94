package handlers

import (
	"errors"
	"io"
	"net/http"

	"ecogo/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

// StartApplianceRequest starts a timed appliance. Hours and minutes add up
// to the planned duration.
type StartApplianceRequest struct {
	Name       string  `json:"name" binding:"required" example:"Water heater"`
	PowerWatts float64 `json:"power_watts" binding:"required" example:"2000"`
	Hours      int     `json:"hours" example:"1"`
	Minutes    int     `json:"minutes" example:"30"`
	// Simulated appliances get a fluctuating power reading.
	Simulated bool `json:"simulated,omitempty"`
}

// ExtendRequest adds time to a running or prompted appliance. Zero or an
// empty body uses the default extension.
type ExtendRequest struct {
	Minutes int `json:"minutes" example:"30"`
}

// @Summary      Start appliance
// @Tags         appliances
// @Accept       json
// @Produce      json
// @Param        body  body      StartApplianceRequest  true  "Appliance"
// @Success      201   {object}  map[string]interface{}  "appliance, persisted"
// @Success      202   {object}  map[string]interface{}  "appliance, persisted=false"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/appliances [post]
// @Security     BearerAuth
func (h *Handler) startAppliance(c *gin.Context) {
	var req StartApplianceRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	uid := userID(c)
	a, err := h.services.Appliances.Start(c.Request.Context(), uid, lifecycle.StartParams{
		Name:       req.Name,
		PowerWatts: req.PowerWatts,
		Hours:      req.Hours,
		Minutes:    req.Minutes,
		Simulated:  req.Simulated,
	})
	h.respondCommand(c, http.StatusCreated, gin.H{"appliance": a}, err, "appliance_start_failed", "user_id", uid, "name", req.Name)
}

// @Summary      List active appliances
// @Description  Remaining time is computed at request time.
// @Tags         appliances
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, appliances"
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/appliances [get]
// @Security     BearerAuth
func (h *Handler) listAppliances(c *gin.Context) {
	uid := userID(c)
	list, err := h.services.Appliances.ListActive(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, err, "appliance_list_failed", "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "appliances": list})
}

// @Summary      Shut down appliance
// @Description  Stops the appliance now and records its usage as a manual stop.
// @Tags         appliances
// @Produce      json
// @Param        id   path      string  true  "Appliance ID"
// @Success      200  {object}  map[string]interface{}  "record, persisted"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/appliances/{id}/shutdown [post]
// @Security     BearerAuth
func (h *Handler) shutdownAppliance(c *gin.Context) {
	uid, id := userID(c), c.Param("id")
	rec, err := h.services.Appliances.Shutdown(c.Request.Context(), uid, id)
	h.respondCommand(c, http.StatusOK, gin.H{"record": rec}, err, "appliance_shutdown_failed", "user_id", uid, "appliance_id", id)
}

// @Summary      Force-stop appliance
// @Description  Stops the appliance before its scheduled end. Recorded as forced unless it was already prompted.
// @Tags         appliances
// @Produce      json
// @Param        id   path      string  true  "Appliance ID"
// @Success      200  {object}  map[string]interface{}  "record, persisted"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/appliances/{id}/force-stop [post]
// @Security     BearerAuth
func (h *Handler) forceStopAppliance(c *gin.Context) {
	uid, id := userID(c), c.Param("id")
	rec, err := h.services.Appliances.ForceStop(c.Request.Context(), uid, id)
	h.respondCommand(c, http.StatusOK, gin.H{"record": rec}, err, "appliance_force_stop_failed", "user_id", uid, "appliance_id", id)
}

// @Summary      Extend appliance
// @Tags         appliances
// @Accept       json
// @Produce      json
// @Param        id    path      string         true   "Appliance ID"
// @Param        body  body      ExtendRequest  false  "Extension"
// @Success      200   {object}  map[string]interface{}  "appliance, persisted"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/appliances/{id}/extend [post]
// @Security     BearerAuth
func (h *Handler) extendAppliance(c *gin.Context) {
	var req ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	uid, id := userID(c), c.Param("id")
	a, err := h.services.Appliances.Extend(c.Request.Context(), uid, id, req.Minutes)
	h.respondCommand(c, http.StatusOK, gin.H{"appliance": a}, err, "appliance_extend_failed", "user_id", uid, "appliance_id", id)
}
