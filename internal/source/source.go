// Package source adapts the picker's inputs (editor buffers, the MRU
// registry and the filesystem walk) to the gather engine.
package source

// Sort orders accepted by the buffer source.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)
