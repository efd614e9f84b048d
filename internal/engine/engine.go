// Package engine owns the Tourist and Incident lifecycle. All mutation of
// a given subject or incident is serialized on a per-record lock, and the
// identity disclosure gate is enforced here, not in presentation.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nnish16/Tourist-Safety/internal/audit"
	"github.com/nnish16/Tourist-Safety/internal/evidence"
	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/internal/notify"
	"github.com/nnish16/Tourist-Safety/internal/security"
	"github.com/nnish16/Tourist-Safety/internal/stream"
	"github.com/nnish16/Tourist-Safety/internal/triage"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"go.uber.org/zap"
)

// recentLocationWindow bounds the location history fed to anomaly detection
const recentLocationWindow = 10

// Publisher pushes change events to the observation stream
type Publisher interface {
	Publish(eventType stream.EventType, payload any)
}

// NopPublisher drops events; used when no stream hub is attached
type NopPublisher struct{}

// Publish discards the event
func (NopPublisher) Publish(stream.EventType, any) {}

type subjectRecord struct {
	mu      sync.Mutex
	tourist model.Tourist
	recent  []model.GeoPoint
}

type incidentRecord struct {
	mu       sync.Mutex
	incident model.Incident
}

// Engine is the incident and subject state machine
type Engine struct {
	pipeline  *triage.Pipeline
	client    inference.Client
	hardener  *harden.Hardener
	notifier  *notify.Service
	publisher Publisher
	audit     audit.Sink
	evidence  evidence.Store
	sealer    *security.Encryptor
	logger    *zap.Logger
	now       func() time.Time

	mu            sync.RWMutex
	subjects      map[string]*subjectRecord
	incidents     map[string]*incidentRecord
	incidentOrder []string
}

// NewEngine creates the state machine. now may be nil for the wall clock.
func NewEngine(
	pipeline *triage.Pipeline,
	client inference.Client,
	hardener *harden.Hardener,
	notifier *notify.Service,
	publisher Publisher,
	auditSink audit.Sink,
	evidenceStore evidence.Store,
	now func() time.Time,
	logger *zap.Logger,
) *Engine {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Engine{
		pipeline:  pipeline,
		client:    client,
		hardener:  hardener,
		notifier:  notifier,
		publisher: publisher,
		audit:     auditSink,
		evidence:  evidenceStore,
		logger:    logger,
		now:       now,
		subjects:  make(map[string]*subjectRecord),
		incidents: make(map[string]*incidentRecord),
	}
}

// SetIdentitySealer installs an encryptor used to attach a sealed identity
// snapshot to disclosure audit entries. Without one, entries record the
// disclosure event only.
func (e *Engine) SetIdentitySealer(sealer *security.Encryptor) {
	e.sealer = sealer
}

// RegistrationProfile carries the fields needed to register a subject
type RegistrationProfile struct {
	Name         string
	Age          int
	Gender       string
	Nationality  string
	Contacts     []model.Contact
	PlannedRoute []string
	Language     string
	Location     model.GeoPoint
	BatteryLevel int
}

// RegisterSubject creates a Tourist with a fresh opaque digital id
func (e *Engine) RegisterSubject(ctx context.Context, profile RegistrationProfile) (model.Tourist, error) {
	if profile.Name == "" {
		return model.Tourist{}, fmt.Errorf("name is required")
	}

	battery := profile.BatteryLevel
	if battery <= 0 || battery > 100 {
		battery = 95
	}
	location := profile.Location
	if location.Timestamp.IsZero() {
		location.Timestamp = e.now()
	}

	tourist := model.Tourist{
		ID:           "T-" + uuid.NewString(),
		DigitalID:    "DID:" + uuid.NewString(),
		Name:         profile.Name,
		Age:          profile.Age,
		Gender:       profile.Gender,
		Nationality:  profile.Nationality,
		Contacts:     profile.Contacts,
		Status:       model.SubjectStatusSafe,
		SafetyScore:  90,
		LastLocation: location,
		BatteryLevel: battery,
		PlannedRoute: profile.PlannedRoute,
		Language:     profile.Language,
		CreatedAt:    e.now(),
	}

	e.mu.Lock()
	e.subjects[tourist.ID] = &subjectRecord{
		tourist: tourist,
		recent:  []model.GeoPoint{location},
	}
	e.mu.Unlock()

	e.logger.Info("subject registered",
		zap.String("subject_id", tourist.ID),
		zap.String("digital_id", tourist.DigitalID),
	)
	e.notifier.Notify("Identity Verified", fmt.Sprintf("Tracking activated for %s", tourist.DigitalID), model.NotificationSuccess)
	e.publisher.Publish(stream.EventSubjectUpdated, viewOf(tourist))

	return tourist, nil
}

// UpdateTelemetry ingests a location/battery sample for a subject
func (e *Engine) UpdateTelemetry(ctx context.Context, subjectID string, point model.GeoPoint, batteryLevel int) error {
	record, err := e.subjectRecord(subjectID)
	if err != nil {
		return err
	}
	if point.Timestamp.IsZero() {
		point.Timestamp = e.now()
	}
	if batteryLevel < 0 {
		batteryLevel = 0
	}
	if batteryLevel > 100 {
		batteryLevel = 100
	}

	record.mu.Lock()
	record.tourist.LastLocation = point
	record.tourist.BatteryLevel = batteryLevel
	record.recent = append(record.recent, point)
	if len(record.recent) > recentLocationWindow {
		record.recent = record.recent[len(record.recent)-recentLocationWindow:]
	}
	view := viewOf(record.tourist)
	record.mu.Unlock()

	e.publisher.Publish(stream.EventSubjectUpdated, view)
	return nil
}

// ReportIncident runs the triage path for the report kind and creates an
// Open incident. An inference outage never drops the report; triage falls
// back to the hardener's conservative defaults. A second SOS while one is
// unresolved is rejected.
func (e *Engine) ReportIncident(ctx context.Context, subjectID string, kind model.IncidentKind, description string, media triage.Evidence) (model.Incident, error) {
	if kind != model.IncidentKindSOS && kind != model.IncidentKindReport {
		return model.Incident{}, fmt.Errorf("%w: %s", ErrInvalidIncidentKind, kind)
	}

	record, err := e.subjectRecord(subjectID)
	if err != nil {
		return model.Incident{}, err
	}

	record.mu.Lock()
	subject := record.tourist
	record.mu.Unlock()

	if kind == model.IncidentKindSOS {
		if err := e.checkNoActiveSOS(subjectID); err != nil {
			return model.Incident{}, err
		}
	}

	incident := model.Incident{
		ID:               "INC-" + uuid.NewString(),
		TouristID:        subjectID,
		Kind:             kind,
		Description:      description,
		Timestamp:        e.now(),
		Location:         subject.LastLocation,
		Status:           model.IncidentStatusOpen,
		DiscloseIdentity: kind == model.IncidentKindSOS,
	}

	// Triage runs outside any lock; the inference call is slow and bounded
	// only by the adapter timeout.
	if kind == model.IncidentKindSOS || media.HasMedia() {
		result := e.pipeline.TriageSOS(ctx, description, media)
		incident.Triage = &result
		incident.AIAnalysis = result.AdminBrief
		incident.Severity = triage.SeverityForTriage(result.Severity)
		incident.Category = model.CategoryCrime
		if kind == model.IncidentKindSOS {
			incident.Description = "SOS ALERT - CRITICAL"
		}
	} else {
		assessment := e.pipeline.AnalyzeIncident(ctx, description)
		incident.Severity = assessment.Severity
		incident.Category = assessment.Category
		incident.AIAnalysis = assessment.Analysis
	}

	if kind == model.IncidentKindSOS {
		incident.EmergencyMessages = e.generateEmergencyMessages(ctx, incident, subject)
	}

	e.mu.Lock()
	if kind == model.IncidentKindSOS {
		// Authoritative re-check under the store lock: two concurrent SOS
		// reports must not both insert.
		if err := e.checkNoActiveSOSLocked(subjectID); err != nil {
			e.mu.Unlock()
			return model.Incident{}, err
		}
	}
	stored := &incidentRecord{incident: incident}
	e.incidents[incident.ID] = stored
	e.incidentOrder = append([]string{incident.ID}, e.incidentOrder...)
	e.mu.Unlock()

	// Evidence is uploaded only for an incident that actually inserted; a
	// rejected duplicate SOS must leave no trace in the store.
	if media.HasMedia() {
		refs := e.saveEvidence(ctx, incident.ID, media)
		incident.EvidenceRefs = refs
		stored.mu.Lock()
		stored.incident.EvidenceRefs = refs
		stored.mu.Unlock()
	}

	if kind == model.IncidentKindSOS {
		record.mu.Lock()
		record.tourist.Status = model.SubjectStatusDanger
		record.tourist.IsSosActive = true
		subjectView := viewOf(record.tourist)
		record.mu.Unlock()

		e.notifier.Notify("CRITICAL ALERT",
			fmt.Sprintf("SOS triggered by %s in %s", subject.Name, subject.LastLocation.ZoneName),
			model.NotificationDanger)
		e.publisher.Publish(stream.EventSubjectUpdated, subjectView)
	} else {
		e.notifier.Notify("New Report",
			fmt.Sprintf("%s report filed by %s", incident.Category, subject.DigitalID),
			model.NotificationInfo)
	}

	e.recordAudit(ctx, audit.Entry{
		IncidentID: incident.ID,
		SubjectID:  subjectID,
		Action:     audit.ActionReported,
		Details: map[string]any{
			"kind":     string(kind),
			"category": string(incident.Category),
			"severity": incident.Severity,
		},
	})
	e.publisher.Publish(stream.EventIncidentCreated, e.viewOfIncident(incident))

	e.logger.Info("incident created",
		zap.String("incident_id", incident.ID),
		zap.String("subject_id", subjectID),
		zap.String("kind", string(kind)),
		zap.Int("severity", incident.Severity),
		zap.Bool("disclose_identity", incident.DiscloseIdentity),
	)

	return incident, nil
}

// Dispatch advances an incident Open -> Dispatched
func (e *Engine) Dispatch(ctx context.Context, incidentID string, unit model.DispatchUnit) (model.Incident, error) {
	if unit != model.DispatchUnitPolice && unit != model.DispatchUnitMedical {
		return model.Incident{}, fmt.Errorf("%w: %s", ErrInvalidDispatchUnit, unit)
	}

	record, err := e.incidentRecord(incidentID)
	if err != nil {
		return model.Incident{}, err
	}

	record.mu.Lock()
	if record.incident.Status != model.IncidentStatusOpen {
		status := record.incident.Status
		record.mu.Unlock()
		return model.Incident{}, fmt.Errorf("%w: cannot dispatch incident in status %s", ErrInvalidTransition, status)
	}
	record.incident.Status = model.IncidentStatusDispatched
	record.incident.Description = fmt.Sprintf("%s [%s Dispatched]", record.incident.Description, unit)
	incident := record.incident
	record.mu.Unlock()

	e.notifier.Notify("Units Dispatched", fmt.Sprintf("%s units en route", unit), model.NotificationSuccess)
	e.recordAudit(ctx, audit.Entry{
		IncidentID: incidentID,
		SubjectID:  incident.TouristID,
		Action:     audit.ActionDispatch,
		Details:    map[string]any{"unit": string(unit)},
	})
	e.publisher.Publish(stream.EventIncidentUpdated, e.viewOfIncident(incident))

	return incident, nil
}

// Resolve advances an incident to Resolved. Resolving an SOS incident
// resets the owning subject to safe; resolving anything else never
// touches subject state.
func (e *Engine) Resolve(ctx context.Context, incidentID string) (model.Incident, error) {
	record, err := e.incidentRecord(incidentID)
	if err != nil {
		return model.Incident{}, err
	}

	record.mu.Lock()
	if record.incident.Status == model.IncidentStatusResolved {
		record.mu.Unlock()
		return model.Incident{}, fmt.Errorf("%w: incident already resolved", ErrInvalidTransition)
	}
	record.incident.Status = model.IncidentStatusResolved
	incident := record.incident
	record.mu.Unlock()

	if incident.Kind == model.IncidentKindSOS {
		if subject, err := e.subjectRecord(incident.TouristID); err == nil {
			subject.mu.Lock()
			subject.tourist.Status = model.SubjectStatusSafe
			subject.tourist.IsSosActive = false
			view := viewOf(subject.tourist)
			subject.mu.Unlock()
			e.publisher.Publish(stream.EventSubjectUpdated, view)
		}
	}

	e.notifier.Notify("Case Resolved", "Incident closed", model.NotificationSuccess)
	e.recordAudit(ctx, audit.Entry{
		IncidentID: incidentID,
		SubjectID:  incident.TouristID,
		Action:     audit.ActionResolved,
	})
	e.publisher.Publish(stream.EventIncidentUpdated, e.viewOfIncident(incident))

	return incident, nil
}

// RunAnomalyDetection analyzes recent location samples. A detected
// anomaly opens an ANOMALY incident; anything else, including a dead
// inference backend, produces nothing and never errors.
func (e *Engine) RunAnomalyDetection(ctx context.Context, subjectID string) (*model.Incident, error) {
	record, err := e.subjectRecord(subjectID)
	if err != nil {
		return nil, err
	}

	record.mu.Lock()
	subject := record.tourist
	recent := make([]model.GeoPoint, len(record.recent))
	copy(recent, record.recent)
	record.mu.Unlock()

	raw, inferErr := e.client.Infer(ctx, inference.Request{
		Kind: inference.KindAnomalyDetection,
		Payload: inference.AnomalyPayload{
			SubjectDigitalID: subject.DigitalID,
			BatteryLevel:     subject.BatteryLevel,
			LastLocation:     subject.LastLocation,
			RecentPoints:     recent,
		},
	})
	if inferErr != nil {
		e.logger.Warn("anomaly detection unavailable",
			zap.String("subject_id", subjectID),
			zap.Error(inferErr),
		)
		raw = nil
	}

	report := e.hardener.Anomaly(raw)
	if !report.IsAnomaly {
		return nil, nil
	}

	incident := model.Incident{
		ID:          "INC-" + uuid.NewString(),
		TouristID:   subjectID,
		Kind:        model.IncidentKindAnomaly,
		Category:    model.CategoryOther,
		Description: report.TriggerReason,
		Severity:    report.Severity,
		Timestamp:   e.now(),
		Location:    subject.LastLocation,
		Status:      model.IncidentStatusOpen,
		AIAnalysis:  report.SuggestedAction,
	}

	e.mu.Lock()
	e.incidents[incident.ID] = &incidentRecord{incident: incident}
	e.incidentOrder = append([]string{incident.ID}, e.incidentOrder...)
	e.mu.Unlock()

	e.notifier.Notify("Anomaly Detected",
		fmt.Sprintf("%s near %s", report.TriggerReason, subject.LastLocation.ZoneName),
		model.NotificationInfo)
	e.recordAudit(ctx, audit.Entry{
		IncidentID: incident.ID,
		SubjectID:  subjectID,
		Action:     audit.ActionAnomaly,
		Details: map[string]any{
			"confidence": report.Confidence,
			"severity":   report.Severity,
		},
	})
	e.publisher.Publish(stream.EventIncidentCreated, e.viewOfIncident(incident))

	return &incident, nil
}

// ApplyEnvironment folds a hardened environment analysis into the
// subject. An active SOS pins the subject to danger regardless of score.
func (e *Engine) ApplyEnvironment(subjectID string, analysis model.EnvironmentAnalysis) error {
	record, err := e.subjectRecord(subjectID)
	if err != nil {
		return err
	}

	record.mu.Lock()
	record.tourist.SafetyScore = analysis.SafetyScore.Score
	if !record.tourist.IsSosActive {
		switch {
		case analysis.ZoneClassification.Zone == model.ZoneRed || analysis.SafetyScore.Score <= 40:
			record.tourist.Status = model.SubjectStatusWarning
		default:
			record.tourist.Status = model.SubjectStatusSafe
		}
	}
	view := viewOf(record.tourist)
	record.mu.Unlock()

	e.publisher.Publish(stream.EventSubjectUpdated, view)
	return nil
}

// Identity applies the disclosure gate. Reading identity on an incident
// whose gate is closed is a policy violation rejected here, not hidden in
// a UI layer.
func (e *Engine) Identity(ctx context.Context, incidentID string) (model.SubjectIdentity, error) {
	record, err := e.incidentRecord(incidentID)
	if err != nil {
		return model.SubjectIdentity{}, err
	}

	record.mu.Lock()
	incident := record.incident
	record.mu.Unlock()

	if !incident.DiscloseIdentity {
		return model.SubjectIdentity{}, fmt.Errorf("%w: incident %s", ErrIdentitySealed, incidentID)
	}

	subject, err := e.subjectRecord(incident.TouristID)
	if err != nil {
		return model.SubjectIdentity{}, err
	}

	subject.mu.Lock()
	identity := identityOf(subject.tourist)
	subject.mu.Unlock()

	entry := audit.Entry{
		IncidentID: incidentID,
		SubjectID:  incident.TouristID,
		Action:     audit.ActionDisclosed,
	}
	if e.sealer != nil {
		sealed, sealErr := e.sealer.SealIdentity(identity)
		if sealErr != nil {
			e.logger.Warn("failed to seal disclosed identity for audit",
				zap.String("incident_id", incidentID),
				zap.Error(sealErr))
		} else {
			entry.Details = map[string]any{"identity_ciphertext": sealed}
		}
	}
	e.recordAudit(ctx, entry)

	return identity, nil
}

// Subjects returns masked snapshots of every subject
func (e *Engine) Subjects() []model.SubjectView {
	e.mu.RLock()
	records := make([]*subjectRecord, 0, len(e.subjects))
	for _, record := range e.subjects {
		records = append(records, record)
	}
	e.mu.RUnlock()

	views := make([]model.SubjectView, 0, len(records))
	for _, record := range records {
		record.mu.Lock()
		views = append(views, viewOf(record.tourist))
		record.mu.Unlock()
	}
	return views
}

// Subject returns the masked snapshot of one subject
func (e *Engine) Subject(subjectID string) (model.SubjectView, error) {
	record, err := e.subjectRecord(subjectID)
	if err != nil {
		return model.SubjectView{}, err
	}
	record.mu.Lock()
	defer record.mu.Unlock()
	return viewOf(record.tourist), nil
}

// Incidents returns incident snapshots, most recent first. Identity is
// embedded only where the disclosure gate is open.
func (e *Engine) Incidents() []model.IncidentView {
	e.mu.RLock()
	order := make([]string, len(e.incidentOrder))
	copy(order, e.incidentOrder)
	e.mu.RUnlock()

	views := make([]model.IncidentView, 0, len(order))
	for _, id := range order {
		record, err := e.incidentRecord(id)
		if err != nil {
			continue
		}
		record.mu.Lock()
		incident := record.incident
		record.mu.Unlock()
		views = append(views, e.viewOfIncident(incident))
	}
	return views
}

// Incident returns one incident snapshot
func (e *Engine) Incident(incidentID string) (model.IncidentView, error) {
	record, err := e.incidentRecord(incidentID)
	if err != nil {
		return model.IncidentView{}, err
	}
	record.mu.Lock()
	incident := record.incident
	record.mu.Unlock()
	return e.viewOfIncident(incident), nil
}

// IncidentContexts reduces unresolved incidents to the context fed into
// environment analysis.
func (e *Engine) IncidentContexts() []inference.IncidentContext {
	contexts := []inference.IncidentContext{}
	for _, view := range e.Incidents() {
		if view.Status == model.IncidentStatusResolved {
			continue
		}
		contexts = append(contexts, inference.IncidentContext{
			Category:  view.Category,
			Severity:  view.Severity,
			Timestamp: view.Timestamp.Format(time.RFC3339),
			Location:  view.Location.ZoneName,
		})
	}
	return contexts
}

// AnalyzeVision runs a hardened risk assessment over a single image
func (e *Engine) AnalyzeVision(ctx context.Context, imageDataURL string) (model.VisionAnalysisResult, error) {
	part, ok := inference.ParseImageDataURL(imageDataURL)
	if !ok {
		return model.VisionAnalysisResult{}, fmt.Errorf("invalid image data URL")
	}
	raw, err := e.client.Infer(ctx, inference.Request{
		Kind:    inference.KindVisionAnalysis,
		Payload: inference.VisionPayload{},
		Media:   []inference.MediaPart{part},
	})
	if err != nil {
		e.logger.Warn("vision analysis unavailable", zap.Error(err))
		raw = nil
	}
	return e.hardener.Vision(raw), nil
}

// PlanSafeRoute produces a hardened semantic route plan
func (e *Engine) PlanSafeRoute(ctx context.Context, from, to string) model.RoutePlanResult {
	raw, err := e.client.Infer(ctx, inference.Request{
		Kind:    inference.KindRoutePlan,
		Payload: inference.RoutePayload{From: from, To: to},
	})
	if err != nil {
		e.logger.Warn("route planning unavailable", zap.Error(err))
		raw = nil
	}
	return e.hardener.RoutePlan(raw)
}

// generateEmergencyMessages asks for multilingual alerts; a failed call
// yields no messages, never a failed report.
func (e *Engine) generateEmergencyMessages(ctx context.Context, incident model.Incident, subject model.Tourist) []model.EmergencyMessage {
	raw, err := e.client.Infer(ctx, inference.Request{
		Kind: inference.KindMessageGeneration,
		Payload: inference.MessagePayload{
			Kind:        incident.Kind,
			Category:    incident.Category,
			Severity:    incident.Severity,
			Description: incident.Description,
			SubjectName: subject.Name,
		},
	})
	if err != nil {
		e.logger.Warn("emergency message generation unavailable",
			zap.String("incident_id", incident.ID),
			zap.Error(err),
		)
		raw = nil
	}
	return e.hardener.Messages(raw)
}

// saveEvidence uploads present media parts; upload failures are logged
// and never block the report.
func (e *Engine) saveEvidence(ctx context.Context, incidentID string, media triage.Evidence) []string {
	var refs []string
	parts := []struct {
		dataURL string
		parse   func(string) (inference.MediaPart, bool)
	}{
		{media.ImageDataURL, inference.ParseImageDataURL},
		{media.AudioDataURL, inference.ParseAudioDataURL},
	}
	for _, p := range parts {
		if p.dataURL == "" {
			continue
		}
		part, ok := p.parse(p.dataURL)
		if !ok {
			continue
		}
		ref, err := e.evidence.Save(ctx, incidentID, part)
		if err != nil {
			e.logger.Warn("failed to save incident evidence",
				zap.String("incident_id", incidentID),
				zap.Error(err),
			)
			continue
		}
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func (e *Engine) recordAudit(ctx context.Context, entry audit.Entry) {
	entry.Timestamp = e.now()
	if err := e.audit.Record(ctx, entry); err != nil {
		e.logger.Warn("audit record failed",
			zap.String("incident_id", entry.IncidentID),
			zap.Error(err),
		)
	}
}

func (e *Engine) subjectRecord(subjectID string) (*subjectRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	record, ok := e.subjects[subjectID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSubjectNotFound, subjectID)
	}
	return record, nil
}

func (e *Engine) incidentRecord(incidentID string) (*incidentRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	record, ok := e.incidents[incidentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIncidentNotFound, incidentID)
	}
	return record, nil
}

func (e *Engine) checkNoActiveSOS(subjectID string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activeSOS(subjectID)
}

func (e *Engine) checkNoActiveSOSLocked(subjectID string) error {
	return e.activeSOS(subjectID)
}

// activeSOS requires e.mu held (read or write)
func (e *Engine) activeSOS(subjectID string) error {
	for _, record := range e.incidents {
		record.mu.Lock()
		incident := record.incident
		record.mu.Unlock()
		if incident.TouristID == subjectID &&
			incident.Kind == model.IncidentKindSOS &&
			incident.Status != model.IncidentStatusResolved {
			return fmt.Errorf("%w: incident %s is %s", ErrSOSAlreadyActive, incident.ID, incident.Status)
		}
	}
	return nil
}

func (e *Engine) viewOfIncident(incident model.Incident) model.IncidentView {
	view := model.IncidentView{Incident: incident}
	if record, err := e.subjectRecord(incident.TouristID); err == nil {
		record.mu.Lock()
		view.SubjectDigitalID = record.tourist.DigitalID
		if incident.DiscloseIdentity {
			identity := identityOf(record.tourist)
			view.SubjectIdentity = &identity
		}
		record.mu.Unlock()
	}
	return view
}

func viewOf(tourist model.Tourist) model.SubjectView {
	return model.SubjectView{
		ID:           tourist.ID,
		DigitalID:    tourist.DigitalID,
		Status:       tourist.Status,
		SafetyScore:  tourist.SafetyScore,
		LastLocation: tourist.LastLocation,
		BatteryLevel: tourist.BatteryLevel,
		IsSosActive:  tourist.IsSosActive,
	}
}

func identityOf(tourist model.Tourist) model.SubjectIdentity {
	identity := model.SubjectIdentity{
		Name:        tourist.Name,
		Age:         tourist.Age,
		Nationality: tourist.Nationality,
	}
	if len(tourist.Contacts) > 0 {
		contact := tourist.Contacts[0]
		identity.FirstContact = &contact
	}
	return identity
}
