// Package triage turns reports and SOS signals into severity assessments.
// SOS and report-with-media go through the full multimodal triage; plain
// text reports take a cheaper keyword-filter + intent-parse path.
package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"go.uber.org/zap"
)

// CriticalKeywords short-circuit plain-report analysis to severity 5 /
// Crime / Police without any inference call. The override is deterministic
// and auditable.
var CriticalKeywords = []string{
	"pistol", "gun", "weapon", "armed", "shooting",
	"threat", "attack", "knife", "bomb", "robbery",
	"assault", "hostage", "injured", "bleeding",
}

// noEvidenceMarker is attached when an SOS arrives with neither text,
// image, nor audio; the triage call still proceeds.
const noEvidenceMarker = "No evidence provided - panic trigger only."

// Pipeline composes text and optional media into triage requests
type Pipeline struct {
	client   inference.Client
	hardener *harden.Hardener
	logger   *zap.Logger
}

// NewPipeline creates a triage pipeline
func NewPipeline(client inference.Client, hardener *harden.Hardener, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		hardener: hardener,
		logger:   logger,
	}
}

// Evidence carries optional media attachments as base64 data URLs, the
// format the reporting boundary delivers them in.
type Evidence struct {
	ImageDataURL string
	AudioDataURL string
}

// HasMedia reports whether any media attachment is present
func (e Evidence) HasMedia() bool {
	return e.ImageDataURL != "" || e.AudioDataURL != ""
}

// TriageSOS runs the full multimodal triage. It is total: inference
// failure yields the hardener's HIGH/Police fallback, never an error.
func (p *Pipeline) TriageSOS(ctx context.Context, description string, evidence Evidence) model.SOSTriageResult {
	var media []inference.MediaPart

	if evidence.AudioDataURL != "" {
		if part, ok := inference.ParseAudioDataURL(evidence.AudioDataURL); ok {
			media = append(media, part)
		} else {
			p.logger.Warn("invalid audio evidence, skipping")
		}
	}
	if evidence.ImageDataURL != "" {
		if part, ok := inference.ParseImageDataURL(evidence.ImageDataURL); ok {
			media = append(media, part)
		} else {
			p.logger.Warn("invalid image evidence, skipping")
		}
	}

	if description == "" && len(media) == 0 {
		description = noEvidenceMarker
	}

	raw, err := p.client.Infer(ctx, inference.Request{
		Kind:    inference.KindSOSTriage,
		Payload: inference.TriagePayload{Description: description},
		Media:   media,
	})
	if err != nil {
		p.logger.Warn("SOS triage inference failed, using conservative fallback", zap.Error(err))
		raw = nil
	}

	return p.hardener.Triage(raw)
}

// SeverityForTriage maps a triage severity class to an incident severity.
// Triage only runs for SOS or report-with-media, so everything below
// CRITICAL is still treated as severity 4.
func SeverityForTriage(severity model.TriageSeverity) int {
	if severity == model.TriageSeverityCritical {
		return 5
	}
	return 4
}

// AnalyzeIncident classifies a plain text report. The critical-keyword
// filter runs first and bypasses inference entirely on a hit; otherwise an
// intent-parse call drives a fixed classification table.
func (p *Pipeline) AnalyzeIncident(ctx context.Context, description string) model.IncidentAssessment {
	text := strings.ToLower(description)
	for _, keyword := range CriticalKeywords {
		if strings.Contains(text, keyword) {
			p.logger.Info("critical keyword override",
				zap.String("keyword", keyword),
			)
			return model.IncidentAssessment{
				Category:            model.CategoryCrime,
				Severity:            5,
				RecommendedDispatch: "Police",
				Analysis:            fmt.Sprintf("Critical keyword detected: %s", keyword),
				Confidence:          1.0,
				CriticalOverride:    true,
			}
		}
	}

	raw, err := p.client.Infer(ctx, inference.Request{
		Kind:    inference.KindIntentParse,
		Payload: inference.IntentPayload{Description: description},
	})
	if err != nil {
		p.logger.Warn("intent parse failed, using conservative fallback", zap.Error(err))
		raw = nil
	}

	intent := p.hardener.Intent(raw)
	assessment := assessmentForIntent(intent)

	if assessment.Confidence < 0.6 {
		assessment.Analysis += " (Low confidence)"
	}
	return assessment
}

// assessmentForIntent is the fixed intent -> (category, severity,
// dispatch) classification table.
func assessmentForIntent(intent harden.IntentAnalysis) model.IncidentAssessment {
	assessment := model.IncidentAssessment{
		Category:            model.CategoryOther,
		Severity:            2,
		RecommendedDispatch: "None",
		Analysis:            intent.Reasoning,
		Confidence:          intent.Confidence,
	}

	switch intent.Intent {
	case harden.IntentWeaponViolence:
		assessment.Category = model.CategoryCrime
		assessment.Severity = 5
		assessment.RecommendedDispatch = "Police"
	case harden.IntentMedicalEmergency:
		assessment.Category = model.CategoryMedical
		assessment.Severity = 4
		if intent.ImpliedSeverity >= 4 {
			assessment.Severity = 5
		}
		assessment.RecommendedDispatch = "Ambulance"
	case harden.IntentSafetyConcern:
		assessment.Category = model.CategoryCrime
		assessment.Severity = 4
		assessment.RecommendedDispatch = "Police"
	case harden.IntentLostDisoriented:
		assessment.Category = model.CategoryLost
		assessment.Severity = 3
		assessment.RecommendedDispatch = "Tourist Police"
	case harden.IntentTheftLoss:
		assessment.Category = model.CategoryCrime
		assessment.Severity = 3
		assessment.RecommendedDispatch = "Police"
	}

	return assessment
}
