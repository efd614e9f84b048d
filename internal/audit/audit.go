// Package audit records incident lifecycle events. Persistence is an
// external collaborator: the engine only sees the Sink interface, and the
// default sink keeps everything in structured logs.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Action is the lifecycle action being recorded
type Action string

const (
	ActionReported  Action = "REPORTED"
	ActionDispatch  Action = "DISPATCHED"
	ActionResolved  Action = "RESOLVED"
	ActionAnomaly   Action = "ANOMALY_DETECTED"
	ActionDisclosed Action = "IDENTITY_DISCLOSED"
)

// Entry is one audit record
type Entry struct {
	IncidentID string
	SubjectID  string
	Action     Action
	Details    map[string]any
	Timestamp  time.Time
}

// Sink persists audit entries
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// NopSink logs entries without persisting them
type NopSink struct {
	logger *zap.Logger
}

// NewNopSink creates a log-only sink
func NewNopSink(logger *zap.Logger) *NopSink {
	return &NopSink{logger: logger}
}

// Record logs the entry
func (s *NopSink) Record(_ context.Context, entry Entry) error {
	s.logger.Info("audit entry",
		zap.String("incident_id", entry.IncidentID),
		zap.String("subject_id", entry.SubjectID),
		zap.String("action", string(entry.Action)),
		zap.Any("details", entry.Details),
	)
	return nil
}

// PostgresSink persists audit entries to the incident_audit table
type PostgresSink struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresSink creates a database-backed sink
func NewPostgresSink(db *pgxpool.Pool, logger *zap.Logger) *PostgresSink {
	return &PostgresSink{db: db, logger: logger}
}

// Record stores the entry. Entries are append-only; nothing deletes them.
func (s *PostgresSink) Record(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	s.logger.Info("audit entry",
		zap.String("incident_id", entry.IncidentID),
		zap.String("subject_id", entry.SubjectID),
		zap.String("action", string(entry.Action)),
		zap.Time("timestamp", entry.Timestamp),
	)

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO incident_audit (
			incident_id, subject_id, action, details, recorded_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := s.db.Exec(ctx, query,
		entry.IncidentID,
		entry.SubjectID,
		string(entry.Action),
		details,
		entry.Timestamp,
	); err != nil {
		s.logger.Error("failed to persist audit entry",
			zap.String("incident_id", entry.IncidentID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to persist audit entry: %w", err)
	}

	return nil
}

var (
	_ Sink = (*NopSink)(nil)
	_ Sink = (*PostgresSink)(nil)
)
