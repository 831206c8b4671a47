package mru

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestParseVariant(t *testing.T) {
	for _, s := range []string{"mru", "mrw", "mrr", "mrd"} {
		v, err := ParseVariant(s)
		if err != nil {
			t.Fatalf("ParseVariant(%q) error: %v", s, err)
		}
		if string(v) != s {
			t.Fatalf("ParseVariant(%q) = %q", s, v)
		}
	}
	if _, err := ParseVariant("mrx"); err == nil {
		t.Fatal("expected error for unknown variant")
	}
}

func TestDecodeList(t *testing.T) {
	paths, err := decodeList([]byte(`["/a/one", "/b/two"]`))
	if err != nil {
		t.Fatalf("decodeList error: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/a/one" || paths[1] != "/b/two" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestDecodeListEmpty(t *testing.T) {
	paths, err := decodeList([]byte(`[]`))
	if err != nil {
		t.Fatalf("decodeList error: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths, got %v", paths)
	}
}

func TestDecodeListRejectsNonStrings(t *testing.T) {
	_, err := decodeList([]byte(`["/a", 42]`))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeListRejectsInvalidJSON(t *testing.T) {
	_, err := decodeList([]byte(`not json`))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestCommandListRunsHelper(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("helper stub uses sh")
	}
	c := NewCommand([]string{"sh", "-c", `printf '["/x/one","/x/two"]'`})
	paths, err := c.List(context.Background(), VariantUsed)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/x/one" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestCommandListPassesVariant(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("helper stub uses sh")
	}
	// The variant arrives as the final argument; the stub echoes it back
	// as the only list element.
	c := NewCommand([]string{"sh", "-c", `printf '["%s"]' "$0"`})
	paths, err := c.List(context.Background(), VariantWritten)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(paths) != 1 || paths[0] != "mrw" {
		t.Fatalf("expected variant echo, got %v", paths)
	}
}

func TestCommandListTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("helper stub uses sh")
	}
	c := NewCommand([]string{"sh", "-c", "sleep 5"})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.List(ctx, VariantUsed)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("helper not killed promptly, took %v", elapsed)
	}
}

func TestCommandListUnconfigured(t *testing.T) {
	_, err := NewCommand(nil).List(context.Background(), VariantUsed)
	if !errors.Is(err, ErrNoCommand) {
		t.Fatalf("expected ErrNoCommand, got %v", err)
	}
}

func TestCommandListMalformedOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("helper stub uses sh")
	}
	c := NewCommand([]string{"sh", "-c", `printf '{"oops": true}'`})
	_, err := c.List(context.Background(), VariantUsed)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
