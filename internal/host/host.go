// Package host models the editor that spawns the picker and exposes its
// open documents.
package host

import "context"

// Kind classifies a buffer the way the editor reports it. The zero value is
// an ordinary file-backed buffer.
type Kind string

const (
	KindNormal   Kind = ""
	KindTerminal Kind = "terminal"
)

// Buffer is one open document in the host editor.
type Buffer struct {
	// ID is the editor's buffer number.
	ID int `json:"id"`
	// Name is the path the editor associates with the buffer. Unnamed
	// buffers carry an empty name.
	Name string `json:"name"`
	// Kind is the editor's buffer type.
	Kind Kind `json:"kind"`
	// Listed mirrors the editor's buffer-list flag.
	Listed bool `json:"listed"`
	// Modified is set when the buffer has unsaved changes.
	Modified bool `json:"modified"`
	// LastUsed is the unix time the buffer was last entered.
	LastUsed int64 `json:"last_used"`
}

// State is a snapshot of the editor's open documents.
type State struct {
	// Current is the ID of the buffer that was focused when the snapshot
	// was taken, zero when unknown.
	Current int `json:"current"`
	// Alternate is the ID of the previously focused buffer, zero when
	// unknown.
	Alternate int `json:"alternate"`
	Buffers   []Buffer `json:"buffers"`
}

// Lister queries the host editor for its open documents.
type Lister interface {
	Snapshot(ctx context.Context) (State, error)
}
