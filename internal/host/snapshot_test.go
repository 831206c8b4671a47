package host

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotFileReadsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buffers.json")
	payload := `{
		"current": 3,
		"alternate": 1,
		"buffers": [
			{"id": 1, "name": "/tmp/a.go", "listed": true, "modified": false, "last_used": 100},
			{"id": 3, "name": "/tmp/b.go", "listed": true, "modified": true, "last_used": 200}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	st, err := NewSnapshotFile(path).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if st.Current != 3 || st.Alternate != 1 {
		t.Fatalf("got current=%d alternate=%d, want 3 and 1", st.Current, st.Alternate)
	}
	if len(st.Buffers) != 2 {
		t.Fatalf("got %d buffers, want 2", len(st.Buffers))
	}
	if st.Buffers[1].Name != "/tmp/b.go" || !st.Buffers[1].Modified {
		t.Fatalf("unexpected second buffer: %+v", st.Buffers[1])
	}
}

func TestSnapshotFileMissingIsEmpty(t *testing.T) {
	st, err := NewSnapshotFile(filepath.Join(t.TempDir(), "absent.json")).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(st.Buffers) != 0 {
		t.Fatalf("expected empty state, got %+v", st)
	}
}

func TestSnapshotFileUnconfiguredIsEmpty(t *testing.T) {
	t.Setenv(SnapshotEnv, "")
	st, err := NewSnapshotFile("").Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(st.Buffers) != 0 {
		t.Fatalf("expected empty state, got %+v", st)
	}
}

func TestSnapshotFileEnvFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buffers.json")
	if err := os.WriteFile(path, []byte(`{"buffers":[{"id":1,"name":"x","listed":true}]}`), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	t.Setenv(SnapshotEnv, path)

	st, err := NewSnapshotFile("").Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	if len(st.Buffers) != 1 || st.Buffers[0].Name != "x" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSnapshotFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buffers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	if _, err := NewSnapshotFile(path).Snapshot(context.Background()); err == nil {
		t.Fatal("expected decode error for malformed snapshot")
	}
}
