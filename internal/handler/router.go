package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the API surface for route registration
type Handlers struct {
	Subjects      *SubjectHandler
	Incidents     *IncidentHandler
	Notifications *NotificationHandler
	Assist        *AssistHandler
	Stream        gin.HandlerFunc
}

// RegisterRoutes mounts the API on the router
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "tourist-safety-backend",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/api/v1")

	subjects := v1.Group("/subjects")
	subjects.POST("", h.Subjects.Register)
	subjects.GET("", h.Subjects.List)
	subjects.GET("/:id", h.Subjects.Get)
	subjects.POST("/:id/telemetry", h.Subjects.Telemetry)
	subjects.GET("/:id/environment", h.Subjects.Environment)
	subjects.POST("/:id/anomaly-check", h.Subjects.AnomalyCheck)

	incidents := v1.Group("/incidents")
	incidents.POST("", h.Incidents.Report)
	incidents.GET("", h.Incidents.List)
	incidents.GET("/:id", h.Incidents.Get)
	incidents.POST("/:id/dispatch", h.Incidents.Dispatch)
	incidents.POST("/:id/resolve", h.Incidents.Resolve)
	incidents.GET("/:id/identity", h.Incidents.Identity)
	incidents.GET("/:id/report", h.Incidents.CaseFile)

	notifications := v1.Group("/notifications")
	notifications.GET("", h.Notifications.List)
	notifications.DELETE("/:id", h.Notifications.Dismiss)

	v1.POST("/route-plan", h.Assist.RoutePlan)
	v1.POST("/vision", h.Assist.Vision)

	if h.Stream != nil {
		v1.GET("/stream", h.Stream)
	}
}
