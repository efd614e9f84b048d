package harden

import (
	"encoding/json"
	"testing"

	"github.com/nnish16/Tourist-Safety/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHardener() *Hardener {
	return New(zap.NewNop())
}

func TestColorForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  model.ScoreColor
	}{
		{0, model.ColorRed},
		{40, model.ColorRed},
		{41, model.ColorOrange},
		{60, model.ColorOrange},
		{61, model.ColorYellow},
		{80, model.ColorYellow},
		{81, model.ColorGreen},
		{100, model.ColorGreen},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ColorForScore(tt.score), "score %d", tt.score)
	}
}

func TestColorForScore_OutOfRangeClamped(t *testing.T) {
	assert.Equal(t, model.ColorRed, ColorForScore(-10))
	assert.Equal(t, model.ColorGreen, ColorForScore(250))
}

func TestZone_NilInputYieldsDocumentedFallback(t *testing.T) {
	zone := newTestHardener().Zone(nil)

	assert.Equal(t, model.ZoneYellow, zone.Zone)
	assert.Equal(t, 45, zone.DangerScore)
	assert.Equal(t, []string{"Classifier Offline"}, zone.RiskFactors)
	assert.NotEmpty(t, zone.Recommendation)
	assert.NotEmpty(t, zone.ZoneDescription)
	assert.Nil(t, zone.CrowdIndex)
	assert.Nil(t, zone.NearestSafeZone)
}

func TestZone_PartialInputFillsDefaults(t *testing.T) {
	zone := newTestHardener().Zone(json.RawMessage(`{"zone":"RED","crowdIndex":250.7}`))

	assert.Equal(t, model.ZoneRed, zone.Zone)
	assert.Equal(t, 45, zone.DangerScore)
	assert.Equal(t, []string{"Classifier Offline"}, zone.RiskFactors)
	require.NotNil(t, zone.CrowdIndex)
	assert.Equal(t, 100, *zone.CrowdIndex)
}

func TestZone_InvalidEnumFallsBack(t *testing.T) {
	zone := newTestHardener().Zone(json.RawMessage(`{"zone":"PURPLE","dangerScore":-3}`))

	assert.Equal(t, model.ZoneYellow, zone.Zone)
	assert.Equal(t, 0, zone.DangerScore)
}

func TestSafetyScore_ColorDerivedWhenOmitted(t *testing.T) {
	details := newTestHardener().SafetyScore(json.RawMessage(`{"score":85,"reason":"calm","advice":"enjoy"}`))

	assert.Equal(t, 85, details.Score)
	assert.Equal(t, model.ColorGreen, details.Color)
	assert.Equal(t, "calm", details.Reason)
}

func TestSafetyScore_NilInputIsCautious(t *testing.T) {
	details := newTestHardener().SafetyScore(nil)

	assert.Equal(t, 70, details.Score)
	assert.Equal(t, model.ColorYellow, details.Color)
	assert.NotEmpty(t, details.Reason)
	assert.NotEmpty(t, details.Advice)
}

func TestTriage_FailureNeverLow(t *testing.T) {
	triage := newTestHardener().Triage(nil)

	assert.Equal(t, model.TriageSeverityHigh, triage.Severity)
	assert.Equal(t, "Police", triage.RecommendedResponse)
	assert.NotEmpty(t, triage.Transcript)
	assert.NotEmpty(t, triage.ImageAnalysis)
	assert.NotEmpty(t, triage.AdminBrief)
	assert.NotEmpty(t, triage.TouristMessage)
}

func TestTriage_InvalidSeverityAndResponseFallBack(t *testing.T) {
	triage := newTestHardener().Triage(json.RawMessage(`{"severity":"EXTREME","recommendedResponse":"Army","panicScore":3.5}`))

	assert.Equal(t, model.TriageSeverityHigh, triage.Severity)
	assert.Equal(t, "Police", triage.RecommendedResponse)
	require.NotNil(t, triage.PanicScore)
	assert.Equal(t, 1.0, *triage.PanicScore)
}

func TestTriage_ValidResultPreserved(t *testing.T) {
	raw := json.RawMessage(`{
		"severity":"CRITICAL",
		"transcript":"help me",
		"imageAnalysis":"visible injury",
		"recommendedResponse":"Medical",
		"adminBrief":"collapse reported",
		"touristMessage":"stay calm",
		"urgencyScore":0.9
	}`)
	triage := newTestHardener().Triage(raw)

	assert.Equal(t, model.TriageSeverityCritical, triage.Severity)
	assert.Equal(t, "help me", triage.Transcript)
	assert.Equal(t, "Medical", triage.RecommendedResponse)
	require.NotNil(t, triage.UrgencyScore)
	assert.Equal(t, 0.9, *triage.UrgencyScore)
	assert.Nil(t, triage.PanicScore)
}

func TestAnomaly_NilInputReportsNoAnomaly(t *testing.T) {
	report := newTestHardener().Anomaly(nil)

	assert.False(t, report.IsAnomaly)
}

func TestAnomaly_SeverityClamped(t *testing.T) {
	report := newTestHardener().Anomaly(json.RawMessage(`{"is_anomaly":true,"severity":9,"confidence":1.4,"trigger_reason":"route deviation"}`))

	assert.True(t, report.IsAnomaly)
	assert.Equal(t, 5, report.Severity)
	assert.Equal(t, 1.0, report.Confidence)
	assert.Equal(t, "route deviation", report.TriggerReason)
}

func TestIntent_UnknownIntentCollapsesToOther(t *testing.T) {
	intent := newTestHardener().Intent(json.RawMessage(`{"intent":"ALIEN_INVASION","confidence":0.95}`))

	assert.Equal(t, IntentOther, intent.Intent)
	assert.Equal(t, 0.95, intent.Confidence)
	assert.Equal(t, 1, intent.ImpliedSeverity)
}

func TestIntent_ValidResultPreserved(t *testing.T) {
	raw := json.RawMessage(`{"intent":"medical_emergency","reasoning":"mentions chest pain","confidence":0.8,"context_clues":["chest pain"],"implied_severity":4}`)
	intent := newTestHardener().Intent(raw)

	assert.Equal(t, IntentMedicalEmergency, intent.Intent)
	assert.Equal(t, 4, intent.ImpliedSeverity)
	assert.Equal(t, []string{"chest pain"}, intent.ContextClues)
}

func TestMessages_DropsIncompleteEntries(t *testing.T) {
	raw := json.RawMessage(`{"messages":[
		{"language":"English","sms":"Help dispatched","target":"Family"},
		{"language":"Spanish","sms":"Ayuda en camino"},
		{"sms":"orphan"}
	]}`)
	messages := newTestHardener().Messages(raw)

	require.Len(t, messages, 1)
	assert.Equal(t, "English", messages[0].Language)
}

func TestRoutePlan_NilInputHasFallbackSteps(t *testing.T) {
	plan := newTestHardener().RoutePlan(nil)

	assert.NotEmpty(t, plan.Narrative)
	assert.Len(t, plan.Steps, 3)
	assert.NotEmpty(t, plan.Warnings)
}

func TestVision_NilInputIsMediumRisk(t *testing.T) {
	vision := newTestHardener().Vision(nil)

	assert.Equal(t, "MEDIUM", vision.RiskLevel)
	assert.NotEmpty(t, vision.Factors)
	assert.NotEmpty(t, vision.Narrative)
}

func TestEnvironment_MalformedJSONFallsBackWhole(t *testing.T) {
	env := newTestHardener().Environment(json.RawMessage(`{"safetyScore":"not an object"`))

	assert.Equal(t, model.ZoneYellow, env.ZoneClassification.Zone)
	assert.Equal(t, 45, env.ZoneClassification.DangerScore)
	assert.Equal(t, 70, env.SafetyScore.Score)
}
