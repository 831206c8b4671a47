package source

import (
	"context"
	"os"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/s-show/tripick/internal/item"
	"github.com/s-show/tripick/internal/mru"
)

// MRU lists one register of the external most-recently-used registry.
type MRU struct {
	client  mru.Client
	variant mru.Variant
	timeout time.Duration
	tags    bool
}

// NewMRU returns the registry source. A positive timeout bounds how long
// one query may take; the registry is an external process and must never
// stall the run.
func NewMRU(c mru.Client, v mru.Variant, timeout time.Duration, showTags bool) *MRU {
	return &MRU{client: c, variant: v, timeout: timeout, tags: showTags}
}

// Tag implements gather.Producer.
func (m *MRU) Tag() item.Tag {
	return variantTag(m.variant)
}

// Collect implements gather.Collector.
func (m *MRU) Collect(ctx context.Context) ([]item.Item, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	paths, err := m.client.List(ctx, m.variant)
	if err != nil {
		return nil, err
	}

	tag := variantTag(m.variant)
	items := make([]item.Item, 0, len(paths))
	for _, p := range paths {
		it := item.Item{
			Display: norm.NFC.String(p),
			Tag:     tag,
			Path:    p,
			IsDir:   isDir(p),
		}
		if m.tags {
			it.Display, it.Highlight = item.Labeled(tag, it.Display)
		}
		items = append(items, it)
	}
	return items, nil
}

// isDir consults the filesystem because the deleted-files register may name
// paths that no longer exist; those stay listed as plain entries.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func variantTag(v mru.Variant) item.Tag {
	switch v {
	case mru.VariantWritten:
		return item.TagMRUWritten
	case mru.VariantRead:
		return item.TagMRURead
	case mru.VariantDeleted:
		return item.TagMRUDeleted
	default:
		return item.TagMRUUsed
	}
}
