package gather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/s-show/tripick/internal/item"
)

type fakeCollector struct {
	tag   item.Tag
	items []item.Item
	err   error
}

func (f *fakeCollector) Tag() item.Tag { return f.tag }

func (f *fakeCollector) Collect(ctx context.Context) ([]item.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeStreamer struct {
	tag     item.Tag
	batches [][]item.Item
	err     error
}

func (f *fakeStreamer) Tag() item.Tag { return f.tag }

func (f *fakeStreamer) Stream(ctx context.Context, sink func([]item.Item) error) error {
	for _, batch := range f.batches {
		if err := sink(batch); err != nil {
			return err
		}
	}
	return f.err
}

func mk(tag item.Tag, path string) item.Item {
	return item.Item{Display: path, Tag: tag, Path: path}
}

func drain(t *testing.T, s *Stream) []item.Item {
	t.Helper()
	var items []item.Item
	for batch := range s.Batches() {
		items = append(items, batch...)
	}
	return items
}

func TestGatherPriorityOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(NewRegistry(true), nil,
		&fakeCollector{tag: item.TagBuffer, items: []item.Item{mk(item.TagBuffer, "/open/a")}},
		&fakeCollector{tag: item.TagMRUUsed, items: []item.Item{mk(item.TagMRUUsed, "/recent/b")}},
		&fakeStreamer{tag: item.TagWalk, batches: [][]item.Item{
			{mk(item.TagWalk, "/tree/c")},
			{mk(item.TagWalk, "/tree/d")},
		}},
	)

	s := g.Gather(context.Background())
	items := drain(t, s)
	require.NoError(t, s.Err())

	var tags []item.Tag
	var paths []string
	for _, it := range items {
		tags = append(tags, it.Tag)
		paths = append(paths, it.Path)
	}
	assert.Equal(t, []string{"/open/a", "/recent/b", "/tree/c", "/tree/d"}, paths)
	assert.Equal(t, []item.Tag{item.TagBuffer, item.TagMRUUsed, item.TagWalk, item.TagWalk}, tags)
}

func TestGatherFirstSourceOwnsDuplicatePaths(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(NewRegistry(true), nil,
		&fakeCollector{tag: item.TagBuffer, items: []item.Item{mk(item.TagBuffer, "/shared/file")}},
		&fakeCollector{tag: item.TagMRUUsed, items: []item.Item{
			mk(item.TagMRUUsed, "/shared/file"),
			mk(item.TagMRUUsed, "/shared/file/"),
			mk(item.TagMRUUsed, "/only/mru"),
		}},
		&fakeStreamer{tag: item.TagWalk, batches: [][]item.Item{
			{mk(item.TagWalk, "/shared/file"), mk(item.TagWalk, "/only/walk")},
		}},
	)

	items := drain(t, g.Gather(context.Background()))

	byPath := map[string]item.Tag{}
	for _, it := range items {
		_, dup := byPath[normalizeKey(it.Path)]
		require.False(t, dup, "path %q delivered twice", it.Path)
		byPath[normalizeKey(it.Path)] = it.Tag
	}
	assert.Equal(t, item.TagBuffer, byPath["/shared/file"], "highest-priority source keeps the path")
	assert.Equal(t, item.TagMRUUsed, byPath["/only/mru"])
	assert.Equal(t, item.TagWalk, byPath["/only/walk"])
	assert.Len(t, items, 3)
}

func TestGatherDedupDisabledForwardsDuplicates(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(NewRegistry(false), nil,
		&fakeCollector{tag: item.TagBuffer, items: []item.Item{mk(item.TagBuffer, "/same")}},
		&fakeCollector{tag: item.TagMRUUsed, items: []item.Item{mk(item.TagMRUUsed, "/same")}},
	)

	items := drain(t, g.Gather(context.Background()))
	assert.Len(t, items, 2, "both occurrences survive with dedup off")
}

func TestGatherCollectorFailureBecomesDiagnostic(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("helper exploded")
	g := New(NewRegistry(true), nil,
		&fakeCollector{tag: item.TagMRUUsed, err: boom},
		&fakeStreamer{tag: item.TagWalk, batches: [][]item.Item{
			{mk(item.TagWalk, "/tree/a")},
		}},
	)

	s := g.Gather(context.Background())
	items := drain(t, s)
	require.NoError(t, s.Err(), "a broken source must not abort the run")
	assert.Len(t, items, 1)

	select {
	case d := <-s.Diagnostics():
		assert.Equal(t, item.TagMRUUsed, d.Source)
		assert.ErrorIs(t, d.Err, boom)
	default:
		t.Fatal("expected a diagnostic for the failed source")
	}
}

func TestGatherStreamerFailureIsFatal(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("disk detached")
	g := New(NewRegistry(true), nil,
		&fakeStreamer{tag: item.TagWalk, batches: [][]item.Item{
			{mk(item.TagWalk, "/tree/a")},
		}, err: boom},
	)

	s := g.Gather(context.Background())
	items := drain(t, s)
	assert.Len(t, items, 1, "batches before the failure are delivered")
	assert.ErrorIs(t, s.Err(), boom)
}

func TestGatherCloseStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)

	many := make([][]item.Item, 100)
	for i := range many {
		many[i] = []item.Item{mk(item.TagWalk, "/tree/"+string(rune('a'+i%26))+string(rune('a'+i/26)))}
	}
	g := New(NewRegistry(false), nil, &fakeStreamer{tag: item.TagWalk, batches: many})

	s := g.Gather(context.Background())
	<-s.Batches()
	s.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-s.Batches():
			if !ok {
				require.NoError(t, s.Err(), "cancellation is not an error")
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after Close()")
		}
	}
}

func TestGatherSuppressesFullyDeduplicatedBatches(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(NewRegistry(true), nil,
		&fakeCollector{tag: item.TagBuffer, items: []item.Item{mk(item.TagBuffer, "/a")}},
		&fakeStreamer{tag: item.TagWalk, batches: [][]item.Item{
			{mk(item.TagWalk, "/a")},
			{mk(item.TagWalk, "/b")},
		}},
	)

	s := g.Gather(context.Background())
	var sizes []int
	for batch := range s.Batches() {
		sizes = append(sizes, len(batch))
	}
	assert.Equal(t, []int{1, 1}, sizes, "the fully duplicated batch is dropped, not emptied")
}

func TestGatherCancelledContextStartsNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(NewRegistry(true), nil,
		&fakeCollector{tag: item.TagBuffer, items: []item.Item{mk(item.TagBuffer, "/a")}},
	)

	s := g.Gather(ctx)
	items := drain(t, s)
	assert.Empty(t, items)
	assert.NoError(t, s.Err())
}
