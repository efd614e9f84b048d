package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"github.com/nnish16/Tourist-Safety/internal/pdf"
	"github.com/nnish16/Tourist-Safety/internal/triage"
	"go.uber.org/zap"
)

// IncidentHandler implements the incident lifecycle endpoints
type IncidentHandler struct {
	engine *engine.Engine
	pdfGen *pdf.PDFGenerator
	logger *zap.Logger
}

// NewIncidentHandler creates a new IncidentHandler
func NewIncidentHandler(eng *engine.Engine, pdfGen *pdf.PDFGenerator, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{
		engine: eng,
		pdfGen: pdfGen,
		logger: logger,
	}
}

// Report files an SOS or a report incident
func (h *IncidentHandler) Report(c *gin.Context) {
	var req ReportIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	incident, err := h.engine.ReportIncident(c.Request.Context(), req.SubjectID, req.Kind, req.Description, triage.Evidence{
		ImageDataURL: req.ImageDataURL,
		AudioDataURL: req.AudioDataURL,
	})
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, incident)
}

// List returns incident snapshots, most recent first
func (h *IncidentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Incidents())
}

// Get returns one incident snapshot
func (h *IncidentHandler) Get(c *gin.Context) {
	incident, err := h.engine.Incident(c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, incident)
}

// Dispatch assigns a response unit to an open incident
func (h *IncidentHandler) Dispatch(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	incident, err := h.engine.Dispatch(c.Request.Context(), c.Param("id"), req.Unit)
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, incident)
}

// Resolve closes an incident
func (h *IncidentHandler) Resolve(c *gin.Context) {
	incident, err := h.engine.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, incident)
}

// CaseFile renders the incident as a PDF. The identity section honors
// the same disclosure gate as the rest of the system.
func (h *IncidentHandler) CaseFile(c *gin.Context) {
	view, err := h.engine.Incident(c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	data, err := h.pdfGen.Generate(&pdf.CaseFileData{
		Incident:         view,
		SubjectIdentity:  view.SubjectIdentity,
		SubjectDigitalID: view.SubjectDigitalID,
	})
	if err != nil {
		h.logger.Error("failed to generate incident case file",
			zap.Error(err),
			zap.String("incident_id", view.ID),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate case file",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+view.ID+".pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

// Identity releases the subject identity behind the disclosure gate.
// Requests against a sealed incident are rejected with 403.
func (h *IncidentHandler) Identity(c *gin.Context) {
	identity, err := h.engine.Identity(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	h.logger.Info("identity disclosed",
		zap.String("incident_id", c.Param("id")),
	)
	c.JSON(http.StatusOK, identity)
}
