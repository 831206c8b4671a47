package gather

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Registry tracks which paths have already been delivered during one gather
// run. Keys are hashed so a large walk does not retain every path string.
// It is not safe for concurrent use; the gatherer serializes access.
type Registry struct {
	enabled bool
	seen    map[uint64]struct{}
}

// NewRegistry returns an empty registry. A disabled registry admits
// everything, which turns deduplication off without touching the delivery
// path.
func NewRegistry(enabled bool) *Registry {
	r := &Registry{enabled: enabled}
	if enabled {
		r.seen = make(map[uint64]struct{}, 1024)
	}
	return r
}

// Admit reports whether path is being seen for the first time this run and
// records it. Sources run in priority order, so the first admitted owner of
// a path is the highest-priority one.
func (r *Registry) Admit(path string) bool {
	if !r.enabled {
		return true
	}
	key := xxhash.Sum64String(normalizeKey(path))
	if _, dup := r.seen[key]; dup {
		return false
	}
	r.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct paths admitted so far.
func (r *Registry) Len() int {
	return len(r.seen)
}

// normalizeKey strips trailing separators so "/a/b/" and "/a/b" collide.
// Nothing else is rewritten; case folding or symlink resolution would merge
// paths the host editor considers distinct.
func normalizeKey(path string) string {
	if path == "" {
		return path
	}
	trimmed := strings.TrimRight(path, "/")
	if os.PathSeparator != '/' {
		trimmed = strings.TrimRight(trimmed, string(os.PathSeparator))
	}
	if trimmed == "" {
		// The path was nothing but separators, i.e. the root.
		return path[:1]
	}
	return trimmed
}
