package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nnish16/Tourist-Safety/internal/classify"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"go.uber.org/zap"
)

// Tracker starts and stops the per-subject environment polling loop
type Tracker interface {
	Track(ctx context.Context, subjectID string)
	Untrack(subjectID string)
}

// SubjectHandler implements subject registration and monitoring endpoints
type SubjectHandler struct {
	engine   *engine.Engine
	classify *classify.Service
	tracker  Tracker
	logger   *zap.Logger
}

// NewSubjectHandler creates a new SubjectHandler. tracker may be nil when
// background polling is disabled.
func NewSubjectHandler(eng *engine.Engine, classifier *classify.Service, tracker Tracker, logger *zap.Logger) *SubjectHandler {
	return &SubjectHandler{
		engine:   eng,
		classify: classifier,
		tracker:  tracker,
		logger:   logger,
	}
}

// Register creates a monitored subject
func (h *SubjectHandler) Register(c *gin.Context) {
	var req RegisterSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	tourist, err := h.engine.RegisterSubject(c.Request.Context(), engine.RegistrationProfile{
		Name:         req.Name,
		Age:          req.Age,
		Gender:       req.Gender,
		Nationality:  req.Nationality,
		Contacts:     req.Contacts,
		PlannedRoute: req.PlannedRoute,
		Language:     req.Language,
		Location:     req.Location,
		BatteryLevel: req.BatteryLevel,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	if h.tracker != nil {
		h.tracker.Track(context.Background(), tourist.ID)
	}

	h.logger.Info("subject registered via API",
		zap.String("subject_id", tourist.ID),
	)

	c.JSON(http.StatusCreated, tourist)
}

// Telemetry ingests a location and battery sample
func (h *SubjectHandler) Telemetry(c *gin.Context) {
	var req TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	subjectID := c.Param("id")
	if err := h.engine.UpdateTelemetry(c.Request.Context(), subjectID, req.Location, req.BatteryLevel); err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	c.Status(http.StatusNoContent)
}

// List returns masked snapshots of all subjects
func (h *SubjectHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Subjects())
}

// Get returns one masked subject snapshot
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.engine.Subject(c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Environment returns the current hardened environment analysis for a
// subject's zone. Served from the classification cache when fresh.
func (h *SubjectHandler) Environment(c *gin.Context) {
	subject, err := h.engine.Subject(c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	analysis := h.classify.Environment(c.Request.Context(), subject, h.engine.IncidentContexts())
	c.JSON(http.StatusOK, analysis)
}

// AnomalyCheck runs on-demand anomaly detection for a subject
func (h *SubjectHandler) AnomalyCheck(c *gin.Context) {
	incident, err := h.engine.RunAnomalyDetection(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	if incident == nil {
		c.JSON(http.StatusOK, gin.H{"anomaly": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"anomaly": true, "incident": incident})
}
