package inference

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildPrompt renders the per-kind instruction text. Every prompt demands a
// bare JSON object so the client can extract it without tool support.
func buildPrompt(req Request) (string, error) {
	switch req.Kind {
	case KindEnvironmentAnalysis:
		p, ok := req.Payload.(EnvironmentPayload)
		if !ok {
			return "", fmt.Errorf("environment analysis requires EnvironmentPayload, got %T", req.Payload)
		}
		context, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("failed to marshal environment context: %w", err)
		}
		return fmt.Sprintf(`You are Sentinel AI. Analyze ONLY the JSON below - no external knowledge.
Input: %s

TASKS:
1. SAFETY SCORE (0-100)
   - If SOS active, score < 15
   - If battery < 20%%, penalize 8
   - If severity 4-5 incidents present, penalize heavily
   - Provide "reason" and "advice"
   - Predict "nextRiskTrend": UP, STEADY, or DOWN (optional)

2. ZONE CLASSIFICATION
   - RED: active high-severity incidents OR distress signals in tourist state
   - YELLOW: moderate incidents, late-night conditions, or suspicious patterns
   - GREEN: no active threats
   - DO NOT assume real-world geography. Use ONLY the incident list and touristState.

3. OPTIONAL NUMERIC INDICES (do not break structure)
   - crowdIndex (0-100) from incident density + time context
   - lightingIndex (0-100) from timeOfDay + weather
   - hazardIndex (0-100) from severity levels in the incident list
   - nearestSafeZone: a semantic area name (optional string)

Return ONLY a JSON object:
{"safetyScore":{"score":0-100,"color":"Green|Yellow|Orange|Red","reason":"...","advice":"...","nextRiskTrend":"UP|STEADY|DOWN"},
 "zoneClassification":{"zone":"RED|YELLOW|GREEN","dangerScore":0-100,"riskFactors":["..."],"recommendation":"...","zoneDescription":"...","crowdIndex":0,"lightingIndex":0,"hazardIndex":0,"nearestSafeZone":"..."}}`, context), nil

	case KindVisionAnalysis:
		return `You are Sentinel Vision AI.

Analyze ONLY what is VISIBLE in the attached image. No assumptions about
city, country, identities, or unseen dangers.

TASKS:
1. Determine overall RISK LEVEL: LOW, MEDIUM, HIGH.
2. Identify VISIBLE factors contributing to risk.
3. Provide a short, factual narrative (max 2 sentences).
4. Optional fields: crowdLevel (LOW/MEDIUM/HIGH), lightingCondition (BRIGHT/DIM/DARK).

Evaluate only lighting, crowd presence, hazards, and clearly visible
suspicious behavior.

Return ONLY a JSON object:
{"riskLevel":"LOW|MEDIUM|HIGH","factors":["..."],"narrative":"...","crowdLevel":"...","lightingCondition":"..."}`, nil

	case KindSOSTriage:
		p, ok := req.Payload.(TriagePayload)
		if !ok {
			return "", fmt.Errorf("SOS triage requires TriagePayload, got %T", req.Payload)
		}
		description := p.Description
		if description == "" {
			description = "None"
		}
		return fmt.Sprintf(`You are Sentinel Emergency Intelligence.

TEXT DESCRIPTION:
%q

TASKS:
1. TRANSCRIBE AUDIO (if attached). Return "" if silent or invalid. Do not
   hallucinate languages.
2. IMAGE ANALYSIS (if attached). Identify visible hazards only.
3. DETERMINE SEVERITY:
   - LOW = no threat / stable
   - MEDIUM = uncertainty, mild distress
   - HIGH = visible threat indicators
   - CRITICAL = violence, injury, collapse, weapon, extreme panic
4. Optional scores: panicScore (0-1) from vocal tremor, short breaths,
   shouting; urgencyScore (0-1) from semantics and tone.
5. recommendedResponse must be Police, Medical, or None.

Return ONLY a JSON object:
{"severity":"LOW|MEDIUM|HIGH|CRITICAL","transcript":"...","imageAnalysis":"...","recommendedResponse":"...","adminBrief":"...","touristMessage":"...","panicScore":0.0,"urgencyScore":0.0}`, description), nil

	case KindRoutePlan:
		p, ok := req.Payload.(RoutePayload)
		if !ok {
			return "", fmt.Errorf("route plan requires RoutePayload, got %T", req.Payload)
		}
		return fmt.Sprintf(`You are Sentinel Navigation AI.

TASK: plan a SAFE WALKING ROUTE from %q to %q.

RULES:
- DO NOT generate fictional coordinates or assume real-world geography.
- Use general urban-safety principles only: prefer well-lit main streets,
  avoid alleyways and low-visibility paths, avoid likely crowd hotspots.
- Add "obstructionNotes" only if relevant (construction, crowding, dim lighting).

Return ONLY a JSON object:
{"narrative":"...","steps":["..."],"warnings":["..."],"obstructionNotes":"..."}`, p.From, p.To), nil

	case KindAnomalyDetection:
		p, ok := req.Payload.(AnomalyPayload)
		if !ok {
			return "", fmt.Errorf("anomaly detection requires AnomalyPayload, got %T", req.Payload)
		}
		last, err := json.Marshal(p.LastLocation)
		if err != nil {
			return "", fmt.Errorf("failed to marshal last location: %w", err)
		}
		points, err := json.Marshal(p.RecentPoints)
		if err != nil {
			return "", fmt.Errorf("failed to marshal recent points: %w", err)
		}
		return fmt.Sprintf(`You are Sentinel Anomaly Detection AI.

Subject: %s
Battery: %d%%
Last location: %s
Recent location samples: %s

TASK: detect unusual behavior or safety anomalies such as sudden location
drop-off, route deviation, entering an unusual zone, or a distress
movement pattern.

If an anomaly is found set is_anomaly=true, severity 1-5, a short
trigger_reason, and a suggested_action (monitor / alert control room).

Return ONLY a JSON object:
{"is_anomaly":false,"type":"...","severity":1,"confidence":0.0,"trigger_reason":"...","suggested_action":"..."}`, p.SubjectDigitalID, p.BatteryLevel, last, points), nil

	case KindIntentParse:
		p, ok := req.Payload.(IntentPayload)
		if !ok {
			return "", fmt.Errorf("intent parse requires IntentPayload, got %T", req.Payload)
		}
		return fmt.Sprintf(`Analyze report: %q

Determine the underlying INTENT, one of:
WEAPON_VIOLENCE, MEDICAL_EMERGENCY, LOST_DISORIENTED, SAFETY_CONCERN, THEFT_LOSS, OTHER

Provide reasoning (why), confidence (0-1), context_clues (list) and
implied_severity (1-5).

Return ONLY a JSON object:
{"intent":"...","reasoning":"...","confidence":0.0,"context_clues":["..."],"implied_severity":1}`, p.Description), nil

	case KindMessageGeneration:
		p, ok := req.Payload.(MessagePayload)
		if !ok {
			return "", fmt.Errorf("message generation requires MessagePayload, got %T", req.Payload)
		}
		languages := p.Languages
		if len(languages) == 0 {
			languages = []string{"English", "Spanish", "Japanese"}
		}
		return fmt.Sprintf(`Generate EMERGENCY MESSAGES.

Incident:
- Type: %s
- Category: %s
- Severity: %d
- Description: %s

Tourist: %s

LANGUAGES: %s
TARGETS: Family, Police

Return ONLY a JSON object:
{"messages":[{"language":"...","sms":"...","voice":"...","target":"..."}]}`,
			p.Kind, p.Category, p.Severity, p.Description, p.SubjectName,
			strings.Join(languages, ", ")), nil

	default:
		return "", fmt.Errorf("unknown inference kind %q", req.Kind)
	}
}
