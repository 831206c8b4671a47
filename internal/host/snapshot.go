package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// SnapshotEnv names the environment variable editors set to hand the picker
// their open-document snapshot.
const SnapshotEnv = "TRIPICK_BUFFERS"

// SnapshotFile reads a JSON-encoded State from a file written by the editor
// before it spawned the picker. A missing or unconfigured file yields an
// empty state so the picker stays usable outside an editor.
type SnapshotFile struct {
	path string
}

// NewSnapshotFile returns a Lister backed by the snapshot at path. An empty
// path falls back to the SnapshotEnv environment variable.
func NewSnapshotFile(path string) SnapshotFile {
	if path == "" {
		path = os.Getenv(SnapshotEnv)
	}
	return SnapshotFile{path: path}
}

// Snapshot implements Lister.
func (s SnapshotFile) Snapshot(_ context.Context) (State, error) {
	if s.path == "" {
		return State{}, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read buffer snapshot: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode buffer snapshot %s: %w", s.path, err)
	}
	return st, nil
}
