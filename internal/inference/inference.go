package inference

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nnish16/Tourist-Safety/pkg/model"
)

// Kind selects the inference request schema. Each kind has a fixed output
// schema that the response hardener canonicalizes against.
type Kind string

const (
	KindEnvironmentAnalysis Kind = "ENVIRONMENT_ANALYSIS"
	KindVisionAnalysis      Kind = "VISION_ANALYSIS"
	KindSOSTriage           Kind = "SOS_TRIAGE"
	KindRoutePlan           Kind = "ROUTE_PLAN"
	KindMessageGeneration   Kind = "MESSAGE_GENERATION"
	KindAnomalyDetection    Kind = "ANOMALY_DETECTION"
	KindIntentParse         Kind = "INTENT_PARSE"
)

// MediaPart is an inline media attachment for multimodal requests
type MediaPart struct {
	MIME string
	Data []byte
}

// Request is a single structured inference request
type Request struct {
	Kind    Kind
	Payload any
	Media   []MediaPart
}

// EnvironmentPayload carries the context for a batched safety score +
// zone classification request. Only this data may inform the model; the
// prompt forbids external geographic knowledge.
type EnvironmentPayload struct {
	Subject   model.SubjectView `json:"touristState"`
	Incidents []IncidentContext `json:"incidents"`
	TimeOfDay string            `json:"timeOfDay"`
	Weather   string            `json:"weather"`
}

// IncidentContext is the reduced incident view fed into environment analysis
type IncidentContext struct {
	Category  model.IncidentCategory `json:"category"`
	Severity  int                    `json:"severity"`
	Timestamp string                 `json:"timestamp"`
	Location  string                 `json:"location"`
}

// TriagePayload carries the free-text description of an SOS or
// report-with-media triage. Media rides on Request.Media.
type TriagePayload struct {
	Description string
}

// VisionPayload has no fields; the image rides on Request.Media
type VisionPayload struct{}

// RoutePayload names the start and destination of a safe-route request
type RoutePayload struct {
	From string
	To   string
}

// AnomalyPayload carries recent location samples for anomaly detection
type AnomalyPayload struct {
	SubjectDigitalID string
	BatteryLevel     int
	LastLocation     model.GeoPoint
	RecentPoints     []model.GeoPoint
}

// IntentPayload carries a plain report description for intent parsing
type IntentPayload struct {
	Description string
}

// MessagePayload describes the incident for multilingual message generation
type MessagePayload struct {
	Kind        model.IncidentKind
	Category    model.IncidentCategory
	Severity    int
	Description string
	SubjectName string
	Languages   []string
}

// Client sends structured requests to the external inference service. The
// raw response is a JSON object that callers must pass through the
// hardener; a transport failure or timeout yields an *UnavailableError.
// The client performs no retries; recovery lives in the hardener.
type Client interface {
	Infer(ctx context.Context, req Request) (json.RawMessage, error)
}

// UnavailableError is the typed error for any transport-level failure of
// the inference boundary, including timeouts and malformed transport
// payloads. Callers treat it identically to "no response".
type UnavailableError struct {
	Kind Kind
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("inference %s unavailable: %v", e.Kind, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
