package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"go.uber.org/zap"
)

// AssistHandler implements the advisory endpoints: route planning and
// vision analysis. Both are total; an offline backend yields the hardened
// fallback, never an error.
type AssistHandler struct {
	engine *engine.Engine
	logger *zap.Logger
}

// NewAssistHandler creates a new AssistHandler
func NewAssistHandler(eng *engine.Engine, logger *zap.Logger) *AssistHandler {
	return &AssistHandler{
		engine: eng,
		logger: logger,
	}
}

// RoutePlan produces a safe walking route between two named places
func (h *AssistHandler) RoutePlan(c *gin.Context) {
	var req RoutePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, h.engine.PlanSafeRoute(c.Request.Context(), req.From, req.To))
}

// Vision analyzes the risk visible in an image
func (h *AssistHandler) Vision(c *gin.Context) {
	var req VisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	result, err := h.engine.AnalyzeVision(c.Request.Context(), req.ImageDataURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
