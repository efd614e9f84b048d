// Package evidence retains SOS media attachments for responders. Like
// audit, storage is an external collaborator behind an interface; the
// default store discards nothing into nowhere visible to the engine.
package evidence

import (
	"context"

	"github.com/nnish16/Tourist-Safety/internal/inference"
)

// Store persists incident media and returns an opaque reference
type Store interface {
	Save(ctx context.Context, incidentID string, part inference.MediaPart) (string, error)
}

// NopStore drops media and returns no reference
type NopStore struct{}

// Save discards the media part
func (NopStore) Save(_ context.Context, _ string, _ inference.MediaPart) (string, error) {
	return "", nil
}

var _ Store = NopStore{}
