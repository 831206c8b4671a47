package source

import (
	"context"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/s-show/tripick/internal/host"
	"github.com/s-show/tripick/internal/item"
)

// Buffers lists the host editor's open documents. Unnamed, unlisted and
// terminal buffers never appear.
type Buffers struct {
	host  host.Lister
	order string
	tags  bool
}

// NewBuffers returns the open-document source. Order is SortAscending or
// SortDescending by last use; under descending order the current buffer is
// pushed to the end, where the least interesting entry belongs.
func NewBuffers(l host.Lister, order string, showTags bool) *Buffers {
	return &Buffers{host: l, order: order, tags: showTags}
}

// Tag implements gather.Producer.
func (b *Buffers) Tag() item.Tag {
	return item.TagBuffer
}

// Collect implements gather.Collector.
func (b *Buffers) Collect(ctx context.Context) ([]item.Item, error) {
	st, err := b.host.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	bufs := make([]host.Buffer, 0, len(st.Buffers))
	for _, bf := range st.Buffers {
		if !bf.Listed || bf.Name == "" || bf.Kind == host.KindTerminal {
			continue
		}
		bufs = append(bufs, bf)
	}

	desc := b.order == SortDescending
	sort.SliceStable(bufs, func(i, j int) bool {
		if desc {
			return bufs[i].LastUsed > bufs[j].LastUsed
		}
		return bufs[i].LastUsed < bufs[j].LastUsed
	})
	if desc {
		moveCurrentLast(bufs, st.Current)
	}

	items := make([]item.Item, 0, len(bufs))
	for _, bf := range bufs {
		items = append(items, b.item(bf, st))
	}
	return items, nil
}

func (b *Buffers) item(bf host.Buffer, st host.State) item.Item {
	display := norm.NFC.String(bf.Name)
	if marker := bufferMarker(bf, st); marker != "" {
		display = marker + " " + display
	}

	it := item.Item{
		Display: display,
		Tag:     item.TagBuffer,
		Path:    absPath(bf.Name),
	}
	if b.tags {
		it.Display, it.Highlight = item.Labeled(item.TagBuffer, display)
	}
	return it
}

// bufferMarker renders the editor's status flags: % for the current buffer,
// # for the alternate one, + when there are unsaved changes.
func bufferMarker(bf host.Buffer, st host.State) string {
	marker := ""
	switch bf.ID {
	case st.Current:
		marker = "%"
	case st.Alternate:
		marker = "#"
	}
	if bf.Modified {
		marker += "+"
	}
	return marker
}

func moveCurrentLast(bufs []host.Buffer, current int) {
	for i, bf := range bufs {
		if bf.ID != current {
			continue
		}
		copy(bufs[i:], bufs[i+1:])
		bufs[len(bufs)-1] = bf
		return
	}
}

func absPath(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	return abs
}
