package model

import "time"

// SubjectStatus represents the monitored safety state of a tourist
type SubjectStatus string

const (
	SubjectStatusSafe    SubjectStatus = "safe"
	SubjectStatusWarning SubjectStatus = "warning"
	SubjectStatusDanger  SubjectStatus = "danger"
)

// Contact represents an emergency contact of a tourist
type Contact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// GeoPoint is a location sample with its zone label
type GeoPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
	ZoneName  string    `json:"zone_name"`
}

// Tourist represents a monitored subject. Name, Age, Gender, Nationality and
// Contacts are sensitive identity fields guarded by the disclosure gate;
// DigitalID is the opaque public identifier.
type Tourist struct {
	ID           string        `json:"id"`
	DigitalID    string        `json:"digital_id"`
	Name         string        `json:"name"`
	Age          int           `json:"age,omitempty"`
	Gender       string        `json:"gender,omitempty"`
	Nationality  string        `json:"nationality,omitempty"`
	Contacts     []Contact     `json:"contacts,omitempty"`
	Status       SubjectStatus `json:"status"`
	SafetyScore  int           `json:"safety_score"`
	LastLocation GeoPoint      `json:"last_location"`
	BatteryLevel int           `json:"battery_level"`
	PlannedRoute []string      `json:"planned_route,omitempty"`
	IsSosActive  bool          `json:"is_sos_active"`
	Language     string        `json:"language,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SubjectView is the masked projection of a Tourist exposed on the
// observation boundary. Identity fields are absent by construction.
type SubjectView struct {
	ID           string        `json:"id"`
	DigitalID    string        `json:"digital_id"`
	Status       SubjectStatus `json:"status"`
	SafetyScore  int           `json:"safety_score"`
	LastLocation GeoPoint      `json:"last_location"`
	BatteryLevel int           `json:"battery_level"`
	IsSosActive  bool          `json:"is_sos_active"`
}

// SubjectIdentity is the sensitive identity block released only through
// the disclosure gate on SOS incidents.
type SubjectIdentity struct {
	Name         string   `json:"name"`
	Age          int      `json:"age,omitempty"`
	Nationality  string   `json:"nationality,omitempty"`
	FirstContact *Contact `json:"first_contact,omitempty"`
}

// IncidentKind classifies how an incident entered the system
type IncidentKind string

const (
	IncidentKindSOS     IncidentKind = "SOS"
	IncidentKindReport  IncidentKind = "REPORT"
	IncidentKindAnomaly IncidentKind = "ANOMALY"
)

// IncidentCategory is the triaged category of an incident
type IncidentCategory string

const (
	CategoryMedical IncidentCategory = "Medical"
	CategoryCrime   IncidentCategory = "Crime"
	CategoryLost    IncidentCategory = "Lost"
	CategoryOther   IncidentCategory = "Other"
)

// IncidentStatus only advances Open -> Dispatched -> Resolved
type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "Open"
	IncidentStatusDispatched IncidentStatus = "Dispatched"
	IncidentStatusResolved   IncidentStatus = "Resolved"
)

// DispatchUnit is a unit type an operator can dispatch
type DispatchUnit string

const (
	DispatchUnitPolice  DispatchUnit = "Police"
	DispatchUnitMedical DispatchUnit = "Medical"
)

// Incident represents a discrete safety event. DiscloseIdentity is computed
// once at creation (kind == SOS) and never changes afterwards.
type Incident struct {
	ID                string             `json:"id"`
	TouristID         string             `json:"tourist_id"`
	Kind              IncidentKind       `json:"kind"`
	Category          IncidentCategory   `json:"category"`
	Description       string             `json:"description"`
	Severity          int                `json:"severity"`
	Timestamp         time.Time          `json:"timestamp"`
	Location          GeoPoint           `json:"location"`
	Status            IncidentStatus     `json:"status"`
	AIAnalysis        string             `json:"ai_analysis,omitempty"`
	Triage            *SOSTriageResult   `json:"triage,omitempty"`
	DiscloseIdentity  bool               `json:"disclose_identity"`
	EmergencyMessages []EmergencyMessage `json:"emergency_messages,omitempty"`
	EvidenceRefs      []string           `json:"evidence_refs,omitempty"`
}

// IncidentView is the incident projection exposed on the observation
// boundary. Subject carries the full identity only when the disclosure
// gate is open; otherwise only the opaque digital id is present.
type IncidentView struct {
	Incident
	SubjectDigitalID string           `json:"subject_digital_id"`
	SubjectIdentity  *SubjectIdentity `json:"subject_identity,omitempty"`
}

// Zone is the risk classification of an area
type Zone string

const (
	ZoneRed    Zone = "RED"
	ZoneYellow Zone = "YELLOW"
	ZoneGreen  Zone = "GREEN"
)

// ZoneClassification is a hardened zone assessment. All required fields are
// always populated; optional indices are either valid or nil, never
// partially missing.
type ZoneClassification struct {
	Zone            Zone     `json:"zone"`
	DangerScore     int      `json:"danger_score"`
	RiskFactors     []string `json:"risk_factors"`
	Recommendation  string   `json:"recommendation"`
	ZoneDescription string   `json:"zone_description"`
	CrowdIndex      *int     `json:"crowd_index,omitempty"`
	LightingIndex   *int     `json:"lighting_index,omitempty"`
	HazardIndex     *int     `json:"hazard_index,omitempty"`
	NearestSafeZone *string  `json:"nearest_safe_zone,omitempty"`
}

// ScoreColor is the display band of a safety score
type ScoreColor string

const (
	ColorGreen  ScoreColor = "Green"
	ColorYellow ScoreColor = "Yellow"
	ColorOrange ScoreColor = "Orange"
	ColorRed    ScoreColor = "Red"
)

// RiskTrend is the predicted direction of a safety score
type RiskTrend string

const (
	TrendUp     RiskTrend = "UP"
	TrendSteady RiskTrend = "STEADY"
	TrendDown   RiskTrend = "DOWN"
)

// SafetyScoreDetails is a hardened safety score assessment
type SafetyScoreDetails struct {
	Score         int        `json:"score"`
	Color         ScoreColor `json:"color"`
	Reason        string     `json:"reason"`
	Advice        string     `json:"advice"`
	NextRiskTrend *RiskTrend `json:"next_risk_trend,omitempty"`
}

// EnvironmentAnalysis is the batched safety score + zone classification
// produced by one environment inference call.
type EnvironmentAnalysis struct {
	SafetyScore        SafetyScoreDetails `json:"safety_score"`
	ZoneClassification ZoneClassification `json:"zone_classification"`
}

// TriageSeverity is the coarse severity class of an SOS triage
type TriageSeverity string

const (
	TriageSeverityLow      TriageSeverity = "LOW"
	TriageSeverityMedium   TriageSeverity = "MEDIUM"
	TriageSeverityHigh     TriageSeverity = "HIGH"
	TriageSeverityCritical TriageSeverity = "CRITICAL"
)

// SOSTriageResult is the hardened multimodal triage of an SOS event
type SOSTriageResult struct {
	Severity            TriageSeverity `json:"severity"`
	Transcript          string         `json:"transcript"`
	ImageAnalysis       string         `json:"image_analysis"`
	RecommendedResponse string         `json:"recommended_response"`
	AdminBrief          string         `json:"admin_brief"`
	TouristMessage      string         `json:"tourist_message"`
	PanicScore          *float64       `json:"panic_score,omitempty"`
	UrgencyScore        *float64       `json:"urgency_score,omitempty"`
}

// IncidentAssessment is the outcome of the plain-report analysis path
type IncidentAssessment struct {
	Category            IncidentCategory `json:"category"`
	Severity            int              `json:"severity"`
	RecommendedDispatch string           `json:"recommended_dispatch"`
	Analysis            string           `json:"analysis"`
	Confidence          float64          `json:"confidence"`
	CriticalOverride    bool             `json:"critical_override,omitempty"`
}

// VisionAnalysisResult is a hardened image risk assessment
type VisionAnalysisResult struct {
	RiskLevel         string   `json:"risk_level"`
	Factors           []string `json:"factors"`
	Narrative         string   `json:"narrative"`
	CrowdLevel        *string  `json:"crowd_level,omitempty"`
	LightingCondition *string  `json:"lighting_condition,omitempty"`
}

// RoutePlanResult is a hardened semantic walking-route plan
type RoutePlanResult struct {
	Narrative        string   `json:"narrative"`
	Steps            []string `json:"steps"`
	Warnings         []string `json:"warnings"`
	ObstructionNotes *string  `json:"obstruction_notes,omitempty"`
}

// AnomalyReport is a hardened anomaly-detection result over recent
// location samples. IsAnomaly=false means no incident is raised.
type AnomalyReport struct {
	IsAnomaly       bool    `json:"is_anomaly"`
	Type            string  `json:"type"`
	Severity        int     `json:"severity"`
	Confidence      float64 `json:"confidence"`
	TriggerReason   string  `json:"trigger_reason"`
	SuggestedAction string  `json:"suggested_action"`
}

// EmergencyMessage is a generated multilingual alert for family or police
type EmergencyMessage struct {
	Language string `json:"language"`
	SMS      string `json:"sms"`
	Voice    string `json:"voice,omitempty"`
	Target   string `json:"target"`
}

// NotificationKind styles a user-facing notification
type NotificationKind string

const (
	NotificationDanger  NotificationKind = "danger"
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
)

// Notification is an ephemeral user-facing event. It self-expires a fixed
// duration after creation unless dismissed earlier.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}
