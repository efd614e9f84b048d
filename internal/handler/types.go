package handler

import (
	"errors"
	"net/http"

	"github.com/nnish16/Tourist-Safety/internal/engine"
	"github.com/nnish16/Tourist-Safety/pkg/model"
)

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// RegisterSubjectRequest registers a tourist for monitoring
type RegisterSubjectRequest struct {
	Name         string          `json:"name" binding:"required"`
	Age          int             `json:"age"`
	Gender       string          `json:"gender"`
	Nationality  string          `json:"nationality"`
	Contacts     []model.Contact `json:"contacts"`
	PlannedRoute []string        `json:"planned_route"`
	Language     string          `json:"language"`
	Location     model.GeoPoint  `json:"location"`
	BatteryLevel int             `json:"battery_level"`
}

// TelemetryRequest is a location/battery sample
type TelemetryRequest struct {
	Location     model.GeoPoint `json:"location" binding:"required"`
	BatteryLevel int            `json:"battery_level"`
}

// ReportIncidentRequest files an SOS or a report
type ReportIncidentRequest struct {
	SubjectID    string             `json:"subject_id" binding:"required"`
	Kind         model.IncidentKind `json:"kind" binding:"required"`
	Description  string             `json:"description"`
	ImageDataURL string             `json:"image_data_url"`
	AudioDataURL string             `json:"audio_data_url"`
}

// DispatchRequest assigns a response unit to an incident
type DispatchRequest struct {
	Unit model.DispatchUnit `json:"unit" binding:"required"`
}

// RoutePlanRequest asks for a safe walking route
type RoutePlanRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// VisionRequest asks for a risk assessment of an image
type VisionRequest struct {
	ImageDataURL string `json:"image_data_url" binding:"required"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// errorResponseFor maps a domain error to its HTTP status and body
func errorResponseFor(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, engine.ErrSubjectNotFound), errors.Is(err, engine.ErrIncidentNotFound):
		return http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		}
	case errors.Is(err, engine.ErrIdentitySealed):
		return http.StatusForbidden, ErrorResponse{
			Code:    "IDENTITY_SEALED",
			Message: "Identity disclosure is not authorized for this incident",
			Details: stringPtr(err.Error()),
		}
	case errors.Is(err, engine.ErrInvalidTransition), errors.Is(err, engine.ErrSOSAlreadyActive):
		return http.StatusConflict, ErrorResponse{
			Code:    "CONFLICT",
			Message: err.Error(),
		}
	case errors.Is(err, engine.ErrInvalidDispatchUnit), errors.Is(err, engine.ErrInvalidIncidentKind):
		return http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
			Details: stringPtr(err.Error()),
		}
	}
}
