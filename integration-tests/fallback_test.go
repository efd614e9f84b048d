package integration_tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutClient simulates an inference backend that always times out
type timeoutClient struct{}

func (timeoutClient) Infer(_ context.Context, req inference.Request) (json.RawMessage, error) {
	return nil, &inference.UnavailableError{Kind: req.Kind, Err: context.DeadlineExceeded}
}

// garbageClient returns syntactically valid JSON with nonsense content
type garbageClient struct{}

func (garbageClient) Infer(_ context.Context, _ inference.Request) (json.RawMessage, error) {
	return json.RawMessage(`{"severity": "EXTREME", "score": "not-a-number", "zone": 7}`), nil
}

// An SOS during a total inference outage still produces a live incident
// with the conservative triage defaults.
func TestSOSSurvivesInferenceOutage(t *testing.T) {
	backend := newBackend(t, timeoutClient{})
	tourist := backend.register(t, "Asha Verma")

	w := backend.do(t, http.MethodPost, "/api/v1/incidents", map[string]any{
		"subject_id": tourist.ID,
		"kind":       "SOS",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	incident := decodeJSON[model.Incident](t, w)

	require.NotNil(t, incident.Triage)
	assert.Equal(t, model.TriageSeverityHigh, incident.Triage.Severity)
	assert.Equal(t, "Police", incident.Triage.RecommendedResponse)
	assert.Empty(t, incident.EmergencyMessages)

	w = backend.do(t, http.MethodGet, "/api/v1/subjects/"+tourist.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	subject := decodeJSON[model.SubjectView](t, w)
	assert.True(t, subject.IsSosActive)
}

// The environment endpoint degrades to the documented classifier-offline
// fallback instead of failing.
func TestEnvironmentFallbackDuringOutage(t *testing.T) {
	backend := newBackend(t, timeoutClient{})
	tourist := backend.register(t, "Asha Verma")

	w := backend.do(t, http.MethodGet, "/api/v1/subjects/"+tourist.ID+"/environment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decodeJSON[model.EnvironmentAnalysis](t, w)

	assert.Equal(t, model.ZoneYellow, analysis.ZoneClassification.Zone)
	assert.Equal(t, 45, analysis.ZoneClassification.DangerScore)
	assert.Contains(t, analysis.ZoneClassification.RiskFactors, "Classifier Offline")
	assert.Equal(t, 70, analysis.SafetyScore.Score)
	assert.Equal(t, model.ColorYellow, analysis.SafetyScore.Color)
}

// Anomaly detection during an outage stays silent: no incident, no
// notification, no error.
func TestAnomalyCheckSilentDuringOutage(t *testing.T) {
	backend := newBackend(t, timeoutClient{})
	tourist := backend.register(t, "Asha Verma")

	w := backend.do(t, http.MethodPost, "/api/v1/subjects/"+tourist.ID+"/anomaly-check", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"anomaly":false`)

	w = backend.do(t, http.MethodGet, "/api/v1/incidents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decodeJSON[[]model.IncidentView](t, w)
	assert.Empty(t, views)
}

// Malformed model output is canonicalized, never propagated
func TestGarbageModelOutputIsHardened(t *testing.T) {
	backend := newBackend(t, garbageClient{})
	tourist := backend.register(t, "Asha Verma")

	w := backend.do(t, http.MethodPost, "/api/v1/incidents", map[string]any{
		"subject_id": tourist.ID,
		"kind":       "SOS",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	incident := decodeJSON[model.Incident](t, w)

	// Unknown severity enum collapses to the conservative default
	require.NotNil(t, incident.Triage)
	assert.Equal(t, model.TriageSeverityHigh, incident.Triage.Severity)

	w = backend.do(t, http.MethodGet, "/api/v1/subjects/"+tourist.ID+"/environment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analysis := decodeJSON[model.EnvironmentAnalysis](t, w)
	assert.Equal(t, model.ZoneYellow, analysis.ZoneClassification.Zone)
}

// Keyword-critical reports never touch the inference backend, so an
// outage cannot delay them.
func TestCriticalKeywordReportDuringOutage(t *testing.T) {
	backend := newBackend(t, failingCountClient{})
	tourist := backend.register(t, "Asha Verma")

	w := backend.do(t, http.MethodPost, "/api/v1/incidents", map[string]any{
		"subject_id":  tourist.ID,
		"kind":        "REPORT",
		"description": "A man pulled a gun near the plaza",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	incident := decodeJSON[model.Incident](t, w)

	assert.Equal(t, 5, incident.Severity)
	assert.Equal(t, model.CategoryCrime, incident.Category)
}

type failingCountClient struct{}

func (failingCountClient) Infer(_ context.Context, req inference.Request) (json.RawMessage, error) {
	return nil, &inference.UnavailableError{Kind: req.Kind, Err: errors.New("backend down")}
}
