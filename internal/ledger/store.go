package ledger

import (
	"context"
	"encoding/json"
	"errors"
)

// ProjectRecord is the envelope stored on the ledger for one project version.
// Data carries the embedded project JSON; UpdatedAt is the externally tracked
// timestamp used for latest-version-wins resolution.
type ProjectRecord struct {
	ProjectID string          `json:"projectId"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt string          `json:"updatedAt"`
}

// Store is the remote project store. It is treated as a black box: any error
// means "unavailable" and callers fall back to local data.
type Store interface {
	// StoreProject writes a new version of the project and returns the entity
	// handle, or "" with a nil error when write capability is not configured.
	StoreProject(ctx context.Context, projectID string, data json.RawMessage) (string, error)

	// GetProject returns the latest stored version, or ErrNotFound.
	GetProject(ctx context.Context, projectID string) (*ProjectRecord, error)

	// GetAllProjects returns the latest stored version of every project.
	GetAllProjects(ctx context.Context) ([]ProjectRecord, error)
}

// ErrNotFound means no entity exists for the requested project ID.
var ErrNotFound = errors.New("ledger: project not found")
