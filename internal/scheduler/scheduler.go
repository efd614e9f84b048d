// Package scheduler drives the periodic environment re-analysis of
// tracked subjects.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/nnish16/Tourist-Safety/internal/classify"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"go.uber.org/zap"
)

// DefaultInterval matches the classification cache TTL so each poll can
// observe a fresh classification.
const DefaultInterval = 45 * time.Second

// Poller re-runs environment analysis for each tracked subject on a fixed
// interval and folds the result back into the engine.
type Poller struct {
	engine   *engine.Engine
	classify *classify.Service
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewPoller creates a poller. A zero interval falls back to DefaultInterval.
func NewPoller(eng *engine.Engine, classifier *classify.Service, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		engine:   eng,
		classify: classifier,
		interval: interval,
		logger:   logger,
		cancels:  make(map[string]context.CancelFunc),
	}
}

// Track starts the polling loop for a subject. Tracking an already
// tracked subject is a no-op. The first analysis runs immediately.
func (p *Poller) Track(ctx context.Context, subjectID string) {
	p.mu.Lock()
	if _, ok := p.cancels[subjectID]; ok {
		p.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancels[subjectID] = cancel
	p.mu.Unlock()

	go p.loop(loopCtx, subjectID)
}

// Untrack stops the polling loop for a subject, idempotently
func (p *Poller) Untrack(subjectID string) {
	p.mu.Lock()
	cancel, ok := p.cancels[subjectID]
	if ok {
		delete(p.cancels, subjectID)
	}
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Stop cancels every polling loop
func (p *Poller) Stop() {
	p.mu.Lock()
	cancels := p.cancels
	p.cancels = make(map[string]context.CancelFunc)
	p.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (p *Poller) loop(ctx context.Context, subjectID string) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.analyze(ctx, subjectID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.analyze(ctx, subjectID)
		}
	}
}

func (p *Poller) analyze(ctx context.Context, subjectID string) {
	subject, err := p.engine.Subject(subjectID)
	if err != nil {
		p.logger.Warn("stopping environment polling for unknown subject",
			zap.String("subject_id", subjectID),
		)
		p.Untrack(subjectID)
		return
	}

	analysis := p.classify.Environment(ctx, subject, p.engine.IncidentContexts())
	if ctx.Err() != nil {
		return
	}
	if err := p.engine.ApplyEnvironment(subjectID, analysis); err != nil {
		p.logger.Warn("failed to apply environment analysis",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
	}
}
