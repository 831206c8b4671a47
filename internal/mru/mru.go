// Package mru queries an external most-recently-used registry for file
// paths.
package mru

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
)

// Variant selects which register to query. The registry keeps separate
// histories for files that were used, written, read and deleted.
type Variant string

const (
	VariantUsed    Variant = "mru"
	VariantWritten Variant = "mrw"
	VariantRead    Variant = "mrr"
	VariantDeleted Variant = "mrd"
)

// ParseVariant validates a register name from configuration.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantUsed, VariantWritten, VariantRead, VariantDeleted:
		return v, nil
	}
	return "", fmt.Errorf("unknown mru variant %q (want mru, mrw, mrr or mrd)", s)
}

// ErrMalformed reports a registry response that is not a JSON array of path
// strings.
var ErrMalformed = errors.New("malformed mru response")

// ErrNoCommand reports that the registry is enabled but no helper command is
// configured.
var ErrNoCommand = errors.New("no mru command configured")

// Client queries the external registry.
type Client interface {
	// List returns the register's paths, most recent first.
	List(ctx context.Context, v Variant) ([]string, error)
}

// Command dispatches queries to a helper process. The variant is appended as
// the final argument and the helper must print a JSON array of path strings
// on stdout.
type Command struct {
	argv []string
}

// NewCommand returns a Client that runs argv. An empty argv yields a client
// whose List always fails with ErrNoCommand.
func NewCommand(argv []string) *Command {
	return &Command{argv: argv}
}

// List implements Client. Context cancellation and deadlines kill the helper
// process.
func (c *Command) List(ctx context.Context, v Variant) ([]string, error) {
	if len(c.argv) == 0 {
		return nil, ErrNoCommand
	}

	args := append(append([]string(nil), c.argv[1:]...), string(v))
	cmd := exec.CommandContext(ctx, c.argv[0], args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("mru helper: %w", ctxErr)
		}
		return nil, fmt.Errorf("mru helper: %w", err)
	}

	return decodeList(stdout.Bytes())
}

// decodeList parses a JSON array of strings, rejecting any other shape with
// ErrMalformed.
func decodeList(data []byte) ([]string, error) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	paths := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is %T, not a string", ErrMalformed, i, v)
		}
		paths = append(paths, s)
	}
	return paths, nil
}
