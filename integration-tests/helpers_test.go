package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nnish16/Tourist-Safety/internal/audit"
	"github.com/nnish16/Tourist-Safety/internal/classify"
	"github.com/nnish16/Tourist-Safety/internal/engine"
	"github.com/nnish16/Tourist-Safety/internal/evidence"
	"github.com/nnish16/Tourist-Safety/internal/handler"
	"github.com/nnish16/Tourist-Safety/internal/harden"
	"github.com/nnish16/Tourist-Safety/internal/inference"
	"github.com/nnish16/Tourist-Safety/internal/notify"
	"github.com/nnish16/Tourist-Safety/internal/pdf"
	"github.com/nnish16/Tourist-Safety/internal/triage"
	"github.com/nnish16/Tourist-Safety/pkg/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingStore captures evidence uploads in memory
type recordingStore struct {
	mu    sync.Mutex
	saved map[string][]inference.MediaPart
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: make(map[string][]inference.MediaPart)}
}

func (s *recordingStore) Save(_ context.Context, incidentID string, part inference.MediaPart) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[incidentID] = append(s.saved[incidentID], part)
	return "mem://" + incidentID, nil
}

func (s *recordingStore) count(incidentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved[incidentID])
}

type testBackend struct {
	router   *gin.Engine
	engine   *engine.Engine
	notifier *notify.Service
	store    *recordingStore
}

// newBackend wires the full service against the given inference client,
// the way main wires it, minus the listener.
func newBackend(t *testing.T, client inference.Client) *testBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	hardener := harden.New(logger)
	notifier := notify.NewService(time.Minute, nil, logger)
	t.Cleanup(notifier.Close)
	store := newRecordingStore()

	eng := engine.NewEngine(
		triage.NewPipeline(client, hardener, logger),
		client,
		hardener,
		notifier,
		nil,
		audit.NewNopSink(logger),
		store,
		nil,
		logger,
	)
	classifier := classify.NewService(client, hardener, time.Minute, nil, logger)

	r := gin.New()
	handler.RegisterRoutes(r, handler.Handlers{
		Subjects:      handler.NewSubjectHandler(eng, classifier, nil, logger),
		Incidents:     handler.NewIncidentHandler(eng, pdf.NewPDFGenerator(logger), logger),
		Notifications: handler.NewNotificationHandler(notifier, logger),
		Assist:        handler.NewAssistHandler(eng, logger),
	})

	return &testBackend{router: r, engine: eng, notifier: notifier, store: store}
}

var _ evidence.Store = (*recordingStore)(nil)

func (b *testBackend) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	return w
}

func (b *testBackend) register(t *testing.T, name string) model.Tourist {
	t.Helper()
	w := b.do(t, http.MethodPost, "/api/v1/subjects", map[string]any{
		"name":        name,
		"nationality": "India",
		"contacts":    []model.Contact{{Name: "Family Contact", Relation: "Parent", Phone: "+91-00-0000-0000"}},
		"location":    model.GeoPoint{Lat: 26.14, Lng: 91.73, ZoneName: "Fancy Bazaar"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var tourist model.Tourist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tourist))
	return tourist
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
