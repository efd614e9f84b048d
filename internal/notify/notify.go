// Package notify owns the ephemeral user-facing notification list
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"go.uber.org/zap"
)

// DefaultTTL is how long a notification stays visible unless dismissed
const DefaultTTL = 5 * time.Second

// Service maintains the most-recent-first notification list. Every entry
// self-destructs after the TTL; Dismiss removes it earlier, idempotently.
type Service struct {
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu     sync.Mutex
	list   []model.Notification
	timers map[string]*time.Timer
	closed bool
}

// NewService creates a notification service. A zero ttl falls back to
// DefaultTTL; now may be nil for the wall clock.
func NewService(ttl time.Duration, now func() time.Time, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		ttl:    ttl,
		now:    now,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Notify creates a notification and schedules its expiry
func (s *Service) Notify(title, message string, kind model.NotificationKind) model.Notification {
	notification := model.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Kind:      kind,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return notification
	}

	s.list = append([]model.Notification{notification}, s.list...)
	s.timers[notification.ID] = time.AfterFunc(s.ttl, func() {
		s.Dismiss(notification.ID)
	})

	s.logger.Info("notification created",
		zap.String("notification_id", notification.ID),
		zap.String("title", title),
		zap.String("kind", string(kind)),
	)

	return notification
}

// Dismiss removes a notification immediately. Dismissing an unknown or
// already-expired id is a no-op.
func (s *Service) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[id]
	if !ok {
		return
	}
	timer.Stop()
	delete(s.timers, id)

	for i, n := range s.list {
		if n.ID == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
}

// List returns a snapshot of live notifications, most recent first
func (s *Service) List() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]model.Notification, len(s.list))
	copy(snapshot, s.list)
	return snapshot
}

// Close stops all pending expiry timers
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.list = nil
}
