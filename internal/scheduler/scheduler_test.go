package scheduler

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nnish16/Tourist-Safety/internal/audit"
	"github.com/nnish16/Tourist-Safety/internal/classify"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"github.com/nnish16/Tourist-Safety/internal/evidence"
	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/internal/notify"
	"github.com/nnish16/Tourist-Safety/internal/triage"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClient struct {
	response string
	calls    atomic.Int64
}

func (c *stubClient) Infer(_ context.Context, _ inference.Request) (json.RawMessage, error) {
	c.calls.Add(1)
	return json.RawMessage(c.response), nil
}

func newTestEngine(t *testing.T, client inference.Client) *engine.Engine {
	t.Helper()
	logger := zap.NewNop()
	hardener := harden.New(logger)
	notifier := notify.NewService(time.Minute, nil, logger)
	t.Cleanup(notifier.Close)
	return engine.NewEngine(
		triage.NewPipeline(client, hardener, logger),
		client,
		hardener,
		notifier,
		nil,
		audit.NewNopSink(logger),
		evidence.NopStore{},
		nil,
		logger,
	)
}

func TestPollerAppliesEnvironment(t *testing.T) {
	logger := zap.NewNop()
	client := &stubClient{response: `{
		"safetyScore": {"score": 30, "reason": "Night market crush", "advice": "Leave the area"},
		"zoneClassification": {"zone": "RED", "dangerScore": 85}
	}`}
	eng := newTestEngine(t, client)
	classifier := classify.NewService(client, harden.New(logger), time.Minute, nil, logger)
	poller := NewPoller(eng, classifier, 10*time.Millisecond, logger)
	defer poller.Stop()

	tourist, err := eng.RegisterSubject(context.Background(), engine.RegistrationProfile{
		Name:     "Mira Kapoor",
		Location: model.GeoPoint{ZoneName: "Night Market"},
	})
	require.NoError(t, err)

	poller.Track(context.Background(), tourist.ID)

	assert.Eventually(t, func() bool {
		subject, err := eng.Subject(tourist.ID)
		return err == nil && subject.SafetyScore == 30 && subject.Status == model.SubjectStatusWarning
	}, time.Second, 5*time.Millisecond)
}

func TestPollerTrackIsIdempotent(t *testing.T) {
	logger := zap.NewNop()
	client := &stubClient{response: `{}`}
	eng := newTestEngine(t, client)
	classifier := classify.NewService(client, harden.New(logger), time.Minute, nil, logger)
	poller := NewPoller(eng, classifier, time.Hour, logger)
	defer poller.Stop()

	tourist, err := eng.RegisterSubject(context.Background(), engine.RegistrationProfile{
		Name:     "Mira Kapoor",
		Location: model.GeoPoint{ZoneName: "Old Town"},
	})
	require.NoError(t, err)

	poller.Track(context.Background(), tourist.ID)
	poller.Track(context.Background(), tourist.ID)

	// The immediate analysis coalesces through the classification cache,
	// so duplicate Track calls never multiply inference traffic.
	assert.Eventually(t, func() bool {
		return client.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), client.calls.Load())
}

func TestPollerUntrackStopsLoop(t *testing.T) {
	logger := zap.NewNop()
	client := &stubClient{response: `{}`}
	eng := newTestEngine(t, client)
	classifier := classify.NewService(client, harden.New(logger), time.Nanosecond, nil, logger)
	poller := NewPoller(eng, classifier, 5*time.Millisecond, logger)
	defer poller.Stop()

	tourist, err := eng.RegisterSubject(context.Background(), engine.RegistrationProfile{
		Name:     "Mira Kapoor",
		Location: model.GeoPoint{ZoneName: "Old Town"},
	})
	require.NoError(t, err)

	poller.Track(context.Background(), tourist.ID)
	assert.Eventually(t, func() bool {
		return client.calls.Load() >= 2
	}, time.Second, time.Millisecond)

	poller.Untrack(tourist.ID)
	time.Sleep(20 * time.Millisecond)
	settled := client.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, client.calls.Load())

	// Untrack of an unknown subject is a no-op
	poller.Untrack("T-missing")
}
