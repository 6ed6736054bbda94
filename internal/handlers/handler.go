package handlers

import (
	"ecogo/internal/logger"
	"ecogo/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: logger.OrNop(log).Named("http")}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerApplianceRoutes(api)
		h.registerHistoryRoutes(api)
		h.registerAlertRoutes(api)

		api.GET("/summary", h.getSummary)
		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.updateSettings)
		api.GET("/logs", h.getLogs)

		// Event and state stream over the same port.
		api.GET("/ws", h.wsConnect)
	}
}

func (h *Handler) registerApplianceRoutes(api *gin.RouterGroup) {
	appliances := api.Group("/appliances")
	{
		// Body example: {"name":"Heater","power_watts":1500,"hours":1,"minutes":30}
		appliances.POST("", h.startAppliance)
		appliances.GET("", h.listAppliances)
		appliances.POST("/:id/shutdown", h.shutdownAppliance)
		appliances.POST("/:id/force-stop", h.forceStopAppliance)
		appliances.POST("/:id/extend", h.extendAppliance)
	}
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("", h.getHistory)
		history.POST("", h.logUsage)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.listAlerts)
		alerts.DELETE("/:id", h.dismissAlert)
	}
}
