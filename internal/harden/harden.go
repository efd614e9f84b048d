// Package harden canonicalizes raw inference output into schema-complete
// records. Every function here is total: a malformed, partial, or absent
// raw result always yields a valid record biased toward caution. This is
// the single place the safe-on-failure policy lives.
package harden

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/nnish16/Tourist-Safety/pkg/model"
	"go.uber.org/zap"
)

// Hardener canonicalizes per-kind inference responses
type Hardener struct {
	logger *zap.Logger
}

// New creates a Hardener
func New(logger *zap.Logger) *Hardener {
	return &Hardener{logger: logger}
}

// ColorForScore maps a safety score to its display band. Total and
// deterministic for every integer; out-of-range inputs are clamped first.
func ColorForScore(score int) model.ScoreColor {
	score = clampInt(score, 0, 100)
	switch {
	case score > 80:
		return model.ColorGreen
	case score > 60:
		return model.ColorYellow
	case score > 40:
		return model.ColorOrange
	default:
		return model.ColorRed
	}
}

type rawSafetyScore struct {
	Score         *float64 `json:"score"`
	Color         *string  `json:"color"`
	Reason        *string  `json:"reason"`
	Advice        *string  `json:"advice"`
	NextRiskTrend *string  `json:"nextRiskTrend"`
}

type rawZone struct {
	Zone            *string   `json:"zone"`
	DangerScore     *float64  `json:"dangerScore"`
	RiskFactors     []string  `json:"riskFactors"`
	Recommendation  *string   `json:"recommendation"`
	ZoneDescription *string   `json:"zoneDescription"`
	CrowdIndex      *float64  `json:"crowdIndex"`
	LightingIndex   *float64  `json:"lightingIndex"`
	HazardIndex     *float64  `json:"hazardIndex"`
	NearestSafeZone *string   `json:"nearestSafeZone"`
}

type rawEnvironment struct {
	SafetyScore        json.RawMessage `json:"safetyScore"`
	ZoneClassification json.RawMessage `json:"zoneClassification"`
}

// Environment hardens a batched environment analysis. Pass nil when the
// adapter failed; the result is the documented conservative fallback.
func (h *Hardener) Environment(raw json.RawMessage) model.EnvironmentAnalysis {
	var env rawEnvironment
	h.unmarshal("environment", raw, &env)
	return model.EnvironmentAnalysis{
		SafetyScore:        h.SafetyScore(env.SafetyScore),
		ZoneClassification: h.Zone(env.ZoneClassification),
	}
}

// SafetyScore hardens a safety score section. The fallback is a cautious
// 70/Yellow estimate, never a clean bill of health.
func (h *Hardener) SafetyScore(raw json.RawMessage) model.SafetyScoreDetails {
	var r rawSafetyScore
	h.unmarshal("safety score", raw, &r)

	score := 70
	if r.Score != nil {
		score = clampInt(int(math.Round(*r.Score)), 0, 100)
	}

	details := model.SafetyScoreDetails{
		Score:  score,
		Color:  ColorForScore(score),
		Reason: stringOr(r.Reason, "AI offline - fallback estimate."),
		Advice: stringOr(r.Advice, "Stay alert."),
	}
	if r.Color != nil {
		if color, ok := parseColor(*r.Color); ok {
			details.Color = color
		}
	}
	if r.NextRiskTrend != nil {
		if trend, ok := parseTrend(*r.NextRiskTrend); ok {
			details.NextRiskTrend = &trend
		}
	}
	return details
}

// Zone hardens a zone classification. Missing zone defaults to YELLOW with
// dangerScore 45, the classifier-offline fallback.
func (h *Hardener) Zone(raw json.RawMessage) model.ZoneClassification {
	var r rawZone
	h.unmarshal("zone classification", raw, &r)

	zone := model.ZoneYellow
	if r.Zone != nil {
		if parsed, ok := parseZone(*r.Zone); ok {
			zone = parsed
		}
	}

	dangerScore := 45
	if r.DangerScore != nil {
		dangerScore = clampInt(int(math.Round(*r.DangerScore)), 0, 100)
	}

	riskFactors := r.RiskFactors
	if len(riskFactors) == 0 {
		riskFactors = []string{"Classifier Offline"}
	}

	return model.ZoneClassification{
		Zone:            zone,
		DangerScore:     dangerScore,
		RiskFactors:     riskFactors,
		Recommendation:  stringOr(r.Recommendation, "Proceed with caution."),
		ZoneDescription: stringOr(r.ZoneDescription, "AI unavailable - fallback zone."),
		CrowdIndex:      clampIndex(r.CrowdIndex),
		LightingIndex:   clampIndex(r.LightingIndex),
		HazardIndex:     clampIndex(r.HazardIndex),
		NearestSafeZone: r.NearestSafeZone,
	}
}

type rawTriage struct {
	Severity            *string  `json:"severity"`
	Transcript          *string  `json:"transcript"`
	ImageAnalysis       *string  `json:"imageAnalysis"`
	RecommendedResponse *string  `json:"recommendedResponse"`
	AdminBrief          *string  `json:"adminBrief"`
	TouristMessage      *string  `json:"touristMessage"`
	PanicScore          *float64 `json:"panicScore"`
	UrgencyScore        *float64 `json:"urgencyScore"`
}

// Triage hardens an SOS triage result. A failed triage is never LOW: the
// fallback is HIGH severity with a Police response.
func (h *Hardener) Triage(raw json.RawMessage) model.SOSTriageResult {
	var r rawTriage
	h.unmarshal("SOS triage", raw, &r)

	severity := model.TriageSeverityHigh
	if r.Severity != nil {
		if parsed, ok := parseTriageSeverity(*r.Severity); ok {
			severity = parsed
		}
	}

	response := stringOr(r.RecommendedResponse, "Police")
	switch response {
	case "Police", "Medical", "None":
	default:
		response = "Police"
	}

	return model.SOSTriageResult{
		Severity:            severity,
		Transcript:          stringOr(r.Transcript, "Audio unavailable."),
		ImageAnalysis:       stringOr(r.ImageAnalysis, "Image not processed."),
		RecommendedResponse: response,
		AdminBrief:          stringOr(r.AdminBrief, "AI offline - treat as high risk."),
		TouristMessage:      stringOr(r.TouristMessage, "We are alerting responders."),
		PanicScore:          clampUnit(r.PanicScore),
		UrgencyScore:        clampUnit(r.UrgencyScore),
	}
}

type rawVision struct {
	RiskLevel         *string  `json:"riskLevel"`
	Factors           []string `json:"factors"`
	Narrative         *string  `json:"narrative"`
	CrowdLevel        *string  `json:"crowdLevel"`
	LightingCondition *string  `json:"lightingCondition"`
}

// Vision hardens an image risk analysis; the fallback risk level is MEDIUM
func (h *Hardener) Vision(raw json.RawMessage) model.VisionAnalysisResult {
	var r rawVision
	h.unmarshal("vision analysis", raw, &r)

	riskLevel := "MEDIUM"
	if r.RiskLevel != nil {
		switch level := strings.ToUpper(strings.TrimSpace(*r.RiskLevel)); level {
		case "LOW", "MEDIUM", "HIGH":
			riskLevel = level
		}
	}

	factors := r.Factors
	if len(factors) == 0 {
		factors = []string{"Vision module offline"}
	}

	return model.VisionAnalysisResult{
		RiskLevel:         riskLevel,
		Factors:           factors,
		Narrative:         stringOr(r.Narrative, "Unable to analyze the image."),
		CrowdLevel:        r.CrowdLevel,
		LightingCondition: r.LightingCondition,
	}
}

type rawRoutePlan struct {
	Narrative        *string  `json:"narrative"`
	Steps            []string `json:"steps"`
	Warnings         []string `json:"warnings"`
	ObstructionNotes *string  `json:"obstructionNotes"`
}

// RoutePlan hardens a semantic route plan, falling back to generic
// urban-safety guidance when the planner is offline.
func (h *Hardener) RoutePlan(raw json.RawMessage) model.RoutePlanResult {
	var r rawRoutePlan
	h.unmarshal("route plan", raw, &r)

	steps := r.Steps
	if len(steps) == 0 {
		steps = []string{
			"Walk toward a well-lit main street.",
			"Avoid narrow or isolated areas.",
			"Stay near commercial zones or populated walkways.",
		}
	}

	warnings := r.Warnings
	if len(warnings) == 0 {
		warnings = []string{"AI service offline - proceed with caution."}
	}

	return model.RoutePlanResult{
		Narrative:        stringOr(r.Narrative, "AI routing temporarily offline. Using fallback safety suggestions."),
		Steps:            steps,
		Warnings:         warnings,
		ObstructionNotes: r.ObstructionNotes,
	}
}

type rawAnomaly struct {
	IsAnomaly       *bool    `json:"is_anomaly"`
	Type            *string  `json:"type"`
	Severity        *float64 `json:"severity"`
	Confidence      *float64 `json:"confidence"`
	TriggerReason   *string  `json:"trigger_reason"`
	SuggestedAction *string  `json:"suggested_action"`
}

// Anomaly hardens an anomaly-detection result. An unavailable detector
// reports no anomaly: a missing signal must not fabricate incidents.
func (h *Hardener) Anomaly(raw json.RawMessage) model.AnomalyReport {
	var r rawAnomaly
	h.unmarshal("anomaly detection", raw, &r)

	report := model.AnomalyReport{
		Type:            stringOr(r.Type, "ANOMALY"),
		Severity:        3,
		TriggerReason:   stringOr(r.TriggerReason, "Unspecified anomaly."),
		SuggestedAction: stringOr(r.SuggestedAction, "Monitor."),
	}
	if r.IsAnomaly != nil {
		report.IsAnomaly = *r.IsAnomaly
	}
	if r.Severity != nil {
		report.Severity = clampInt(int(math.Round(*r.Severity)), 1, 5)
	}
	if r.Confidence != nil {
		report.Confidence = clampFloat(*r.Confidence, 0, 1)
	}
	return report
}

// IntentAnalysis is the canonical result of an intent-parse call
type IntentAnalysis struct {
	Intent          string
	Reasoning       string
	Confidence      float64
	ContextClues    []string
	ImpliedSeverity int
}

// Known report intents
const (
	IntentWeaponViolence   = "WEAPON_VIOLENCE"
	IntentMedicalEmergency = "MEDICAL_EMERGENCY"
	IntentLostDisoriented  = "LOST_DISORIENTED"
	IntentSafetyConcern    = "SAFETY_CONCERN"
	IntentTheftLoss        = "THEFT_LOSS"
	IntentOther            = "OTHER"
)

type rawIntent struct {
	Intent          *string  `json:"intent"`
	Reasoning       *string  `json:"reasoning"`
	Confidence      *float64 `json:"confidence"`
	ContextClues    []string `json:"context_clues"`
	ImpliedSeverity *float64 `json:"implied_severity"`
}

// Intent hardens an intent-parse result. An unrecognized or absent intent
// collapses to OTHER with minimal confidence.
func (h *Hardener) Intent(raw json.RawMessage) IntentAnalysis {
	var r rawIntent
	h.unmarshal("intent parse", raw, &r)

	analysis := IntentAnalysis{
		Intent:          IntentOther,
		Reasoning:       stringOr(r.Reasoning, "Parsing failed."),
		Confidence:      0.1,
		ContextClues:    r.ContextClues,
		ImpliedSeverity: 1,
	}
	if analysis.ContextClues == nil {
		analysis.ContextClues = []string{}
	}
	if r.Intent != nil {
		switch intent := strings.ToUpper(strings.TrimSpace(*r.Intent)); intent {
		case IntentWeaponViolence, IntentMedicalEmergency, IntentLostDisoriented,
			IntentSafetyConcern, IntentTheftLoss, IntentOther:
			analysis.Intent = intent
		}
	}
	if r.Confidence != nil {
		analysis.Confidence = clampFloat(*r.Confidence, 0, 1)
	}
	if r.ImpliedSeverity != nil {
		analysis.ImpliedSeverity = clampInt(int(math.Round(*r.ImpliedSeverity)), 1, 5)
	}
	return analysis
}

type rawMessages struct {
	Messages []rawMessage `json:"messages"`
}

type rawMessage struct {
	Language *string `json:"language"`
	SMS      *string `json:"sms"`
	Voice    *string `json:"voice"`
	Target   *string `json:"target"`
}

// Messages hardens generated emergency messages. Entries missing language,
// sms, or target are dropped; a failed call yields an empty list.
func (h *Hardener) Messages(raw json.RawMessage) []model.EmergencyMessage {
	var r rawMessages
	h.unmarshal("emergency messages", raw, &r)

	messages := make([]model.EmergencyMessage, 0, len(r.Messages))
	for _, m := range r.Messages {
		if m.Language == nil || m.SMS == nil || m.Target == nil {
			continue
		}
		messages = append(messages, model.EmergencyMessage{
			Language: *m.Language,
			SMS:      *m.SMS,
			Voice:    stringOr(m.Voice, ""),
			Target:   *m.Target,
		})
	}
	return messages
}

// unmarshal fills dst from raw, tolerating nil and malformed input
func (h *Hardener) unmarshal(what string, raw json.RawMessage, dst any) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		h.logger.Warn("malformed inference response, using defaults",
			zap.String("response_kind", what),
			zap.Error(err),
		)
	}
}

func parseZone(s string) (model.Zone, bool) {
	switch model.Zone(strings.ToUpper(strings.TrimSpace(s))) {
	case model.ZoneRed:
		return model.ZoneRed, true
	case model.ZoneYellow:
		return model.ZoneYellow, true
	case model.ZoneGreen:
		return model.ZoneGreen, true
	}
	return "", false
}

func parseColor(s string) (model.ScoreColor, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GREEN":
		return model.ColorGreen, true
	case "YELLOW":
		return model.ColorYellow, true
	case "ORANGE":
		return model.ColorOrange, true
	case "RED":
		return model.ColorRed, true
	}
	return "", false
}

func parseTrend(s string) (model.RiskTrend, bool) {
	switch model.RiskTrend(strings.ToUpper(strings.TrimSpace(s))) {
	case model.TrendUp:
		return model.TrendUp, true
	case model.TrendSteady:
		return model.TrendSteady, true
	case model.TrendDown:
		return model.TrendDown, true
	}
	return "", false
}

func parseTriageSeverity(s string) (model.TriageSeverity, bool) {
	switch model.TriageSeverity(strings.ToUpper(strings.TrimSpace(s))) {
	case model.TriageSeverityLow:
		return model.TriageSeverityLow, true
	case model.TriageSeverityMedium:
		return model.TriageSeverityMedium, true
	case model.TriageSeverityHigh:
		return model.TriageSeverityHigh, true
	case model.TriageSeverityCritical:
		return model.TriageSeverityCritical, true
	}
	return "", false
}

func stringOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampIndex(v *float64) *int {
	if v == nil {
		return nil
	}
	clamped := clampInt(int(math.Round(*v)), 0, 100)
	return &clamped
}

func clampUnit(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := clampFloat(*v, 0, 1)
	return &clamped
}
