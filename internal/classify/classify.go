// Package classify caches hardened environment classifications per
// (subject, zone) key so a stationary subject does not re-trigger
// inference on every poll.
package classify

import (
	"context"
	"sync"
	"time"

	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the environment polling interval
const DefaultTTL = 45 * time.Second

type cacheKey struct {
	subjectID string
	zoneLabel string
}

type cacheEntry struct {
	analysis model.EnvironmentAnalysis
	storedAt time.Time
}

// Service is the TTL cache over environment classifications. Concurrent
// lookups for the same key share a single in-flight inference call.
// Hardened fallbacks from failed calls are cached like any other result so
// a failing backend is not hammered.
type Service struct {
	client   inference.Client
	hardener *harden.Hardener
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	group   singleflight.Group
}

// NewService creates a classification cache. A zero ttl falls back to
// DefaultTTL; now may be nil for the wall clock.
func NewService(client inference.Client, hardener *harden.Hardener, ttl time.Duration, now func() time.Time, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		client:   client,
		hardener: hardener,
		ttl:      ttl,
		now:      now,
		logger:   logger,
		entries:  make(map[cacheKey]cacheEntry),
	}
}

// Environment returns the hardened environment analysis for the subject's
// current zone. It never fails: an unavailable inference backend yields
// the hardener's conservative fallback.
func (s *Service) Environment(ctx context.Context, subject model.SubjectView, incidents []inference.IncidentContext) model.EnvironmentAnalysis {
	key := cacheKey{subjectID: subject.ID, zoneLabel: subject.LastLocation.ZoneName}

	if analysis, ok := s.lookup(key); ok {
		return analysis
	}

	v, _, shared := s.group.Do(key.subjectID+"\x00"+key.zoneLabel, func() (any, error) {
		// A waiter that lost the race may find a fresh entry now.
		if analysis, ok := s.lookup(key); ok {
			return analysis, nil
		}

		raw, err := s.client.Infer(ctx, inference.Request{
			Kind: inference.KindEnvironmentAnalysis,
			Payload: inference.EnvironmentPayload{
				Subject:   subject,
				Incidents: incidents,
				TimeOfDay: s.now().Format("15:04:05"),
				Weather:   "Unknown",
			},
		})
		if err != nil {
			s.logger.Warn("environment inference failed, caching fallback",
				zap.String("subject_id", subject.ID),
				zap.String("zone", key.zoneLabel),
				zap.Error(err),
			)
			raw = nil
		}

		analysis := s.hardener.Environment(raw)
		s.store(key, analysis)
		return analysis, nil
	})

	if shared {
		s.logger.Debug("coalesced concurrent environment lookup",
			zap.String("subject_id", subject.ID),
			zap.String("zone", key.zoneLabel),
		)
	}

	return v.(model.EnvironmentAnalysis)
}

// Invalidate drops the cached entry for a subject's zone, forcing the next
// lookup to re-run inference. Used when an incident changes the picture.
func (s *Service) Invalidate(subjectID, zoneLabel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, cacheKey{subjectID: subjectID, zoneLabel: zoneLabel})
}

func (s *Service) lookup(key cacheKey) (model.EnvironmentAnalysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return model.EnvironmentAnalysis{}, false
	}
	if s.now().Sub(entry.storedAt) >= s.ttl {
		delete(s.entries, key)
		return model.EnvironmentAnalysis{}, false
	}
	return entry.analysis, true
}

func (s *Service) store(key cacheKey, analysis model.EnvironmentAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cacheEntry{analysis: analysis, storedAt: s.now()}
}
