package triage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockInferenceClient struct {
	mock.Mock
}

func (m *MockInferenceClient) Infer(ctx context.Context, req inference.Request) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func newTestPipeline(client inference.Client) *Pipeline {
	return NewPipeline(client, harden.New(zap.NewNop()), zap.NewNop())
}

func imageDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake-png"))
}

func audioDataURL() string {
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString([]byte("fake-wav"))
}

func TestAnalyzeIncident_KeywordOverrideSkipsInference(t *testing.T) {
	client := new(MockInferenceClient)
	pipeline := newTestPipeline(client)

	assessment := pipeline.AnalyzeIncident(context.Background(), "A man with a gun is outside")

	assert.Equal(t, model.CategoryCrime, assessment.Category)
	assert.Equal(t, 5, assessment.Severity)
	assert.Equal(t, "Police", assessment.RecommendedDispatch)
	assert.True(t, assessment.CriticalOverride)
	assert.Equal(t, 1.0, assessment.Confidence)
	client.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
}

func TestAnalyzeIncident_EveryCriticalKeywordOverrides(t *testing.T) {
	for _, keyword := range CriticalKeywords {
		t.Run(keyword, func(t *testing.T) {
			client := new(MockInferenceClient)
			pipeline := newTestPipeline(client)

			assessment := pipeline.AnalyzeIncident(context.Background(), fmt.Sprintf("I saw a %s near the station", keyword))

			assert.True(t, assessment.CriticalOverride)
			assert.Equal(t, 5, assessment.Severity)
			client.AssertNotCalled(t, "Infer", mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyzeIncident_IntentTable(t *testing.T) {
	tests := []struct {
		intent       string
		wantCategory model.IncidentCategory
		wantSeverity int
		wantDispatch string
	}{
		{"WEAPON_VIOLENCE", model.CategoryCrime, 5, "Police"},
		{"MEDICAL_EMERGENCY", model.CategoryMedical, 4, "Ambulance"},
		{"SAFETY_CONCERN", model.CategoryCrime, 4, "Police"},
		{"LOST_DISORIENTED", model.CategoryLost, 3, "Tourist Police"},
		{"THEFT_LOSS", model.CategoryCrime, 3, "Police"},
		{"OTHER", model.CategoryOther, 2, "None"},
	}

	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			client := new(MockInferenceClient)
			response := json.RawMessage(fmt.Sprintf(
				`{"intent":%q,"reasoning":"context","confidence":0.9,"context_clues":[],"implied_severity":3}`,
				tt.intent,
			))
			client.On("Infer", mock.Anything, mock.MatchedBy(func(req inference.Request) bool {
				return req.Kind == inference.KindIntentParse
			})).Return(response, nil)

			assessment := newTestPipeline(client).AnalyzeIncident(context.Background(), "something happened")

			assert.Equal(t, tt.wantCategory, assessment.Category)
			assert.Equal(t, tt.wantSeverity, assessment.Severity)
			assert.Equal(t, tt.wantDispatch, assessment.RecommendedDispatch)
		})
	}
}

func TestAnalyzeIncident_MedicalSeverityEscalatesOnImpliedSeverity(t *testing.T) {
	client := new(MockInferenceClient)
	response := json.RawMessage(`{"intent":"MEDICAL_EMERGENCY","reasoning":"chest pain","confidence":0.9,"implied_severity":5}`)
	client.On("Infer", mock.Anything, mock.Anything).Return(response, nil)

	assessment := newTestPipeline(client).AnalyzeIncident(context.Background(), "severe chest pain")

	assert.Equal(t, 5, assessment.Severity)
}

func TestAnalyzeIncident_LowConfidenceAnnotated(t *testing.T) {
	client := new(MockInferenceClient)
	response := json.RawMessage(`{"intent":"THEFT_LOSS","reasoning":"maybe a pickpocket","confidence":0.4,"implied_severity":2}`)
	client.On("Infer", mock.Anything, mock.Anything).Return(response, nil)

	assessment := newTestPipeline(client).AnalyzeIncident(context.Background(), "I think my wallet is gone")

	// Classification stays, only the analysis text is annotated.
	assert.Equal(t, model.CategoryCrime, assessment.Category)
	assert.Equal(t, 3, assessment.Severity)
	assert.Contains(t, assessment.Analysis, "(Low confidence)")
}

func TestAnalyzeIncident_InferenceFailureFallsBack(t *testing.T) {
	client := new(MockInferenceClient)
	client.On("Infer", mock.Anything, mock.Anything).Return(nil, &inference.UnavailableError{Kind: inference.KindIntentParse})

	assessment := newTestPipeline(client).AnalyzeIncident(context.Background(), "odd noises")

	assert.Equal(t, model.CategoryOther, assessment.Category)
	assert.Equal(t, 2, assessment.Severity)
	assert.Contains(t, assessment.Analysis, "(Low confidence)")
}

func TestTriageSOS_AttachesPresentMedia(t *testing.T) {
	client := new(MockInferenceClient)
	response := json.RawMessage(`{"severity":"CRITICAL","transcript":"screaming","imageAnalysis":"dark alley","recommendedResponse":"Police","adminBrief":"urgent","touristMessage":"help is coming"}`)
	client.On("Infer", mock.Anything, mock.MatchedBy(func(req inference.Request) bool {
		return req.Kind == inference.KindSOSTriage && len(req.Media) == 2
	})).Return(response, nil)

	result := newTestPipeline(client).TriageSOS(context.Background(), "help", Evidence{
		ImageDataURL: imageDataURL(),
		AudioDataURL: audioDataURL(),
	})

	assert.Equal(t, model.TriageSeverityCritical, result.Severity)
	client.AssertExpectations(t)
}

func TestTriageSOS_NoEvidenceStillCallsWithMarker(t *testing.T) {
	client := new(MockInferenceClient)
	var captured inference.Request
	client.On("Infer", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(inference.Request)
	}).Return(json.RawMessage(`{}`), nil)

	newTestPipeline(client).TriageSOS(context.Background(), "", Evidence{})

	client.AssertNumberOfCalls(t, "Infer", 1)
	payload, ok := captured.Payload.(inference.TriagePayload)
	require.True(t, ok)
	assert.Equal(t, noEvidenceMarker, payload.Description)
	assert.Empty(t, captured.Media)
}

func TestTriageSOS_InvalidMediaSkippedNotFatal(t *testing.T) {
	client := new(MockInferenceClient)
	client.On("Infer", mock.Anything, mock.MatchedBy(func(req inference.Request) bool {
		return len(req.Media) == 0
	})).Return(json.RawMessage(`{}`), nil)

	result := newTestPipeline(client).TriageSOS(context.Background(), "trapped", Evidence{
		ImageDataURL: "not-a-data-url",
	})

	assert.Equal(t, model.TriageSeverityHigh, result.Severity)
	client.AssertExpectations(t)
}

func TestTriageSOS_InferenceFailureIsConservative(t *testing.T) {
	client := new(MockInferenceClient)
	client.On("Infer", mock.Anything, mock.Anything).Return(nil, &inference.UnavailableError{Kind: inference.KindSOSTriage})

	result := newTestPipeline(client).TriageSOS(context.Background(), "help", Evidence{})

	assert.Equal(t, model.TriageSeverityHigh, result.Severity)
	assert.Equal(t, "Police", result.RecommendedResponse)
}

func TestSeverityForTriage(t *testing.T) {
	assert.Equal(t, 5, SeverityForTriage(model.TriageSeverityCritical))
	assert.Equal(t, 4, SeverityForTriage(model.TriageSeverityHigh))
	assert.Equal(t, 4, SeverityForTriage(model.TriageSeverityMedium))
	assert.Equal(t, 4, SeverityForTriage(model.TriageSeverityLow))
}
