// Package item defines the candidate results produced by the picker sources.
package item

// Tag identifies which source produced an item.
type Tag uint8

const (
	// TagBuffer marks items from the host editor's open documents.
	TagBuffer Tag = iota
	// TagMRUUsed through TagMRUDeleted mark items from the external
	// most-recently-used registry, one per register variant.
	TagMRUUsed
	TagMRUWritten
	TagMRURead
	TagMRUDeleted
	// TagWalk marks items found by the recursive directory walk.
	TagWalk
)

// Label returns the short provenance label rendered in front of an item.
func (t Tag) Label() string {
	switch t {
	case TagBuffer:
		return "buf"
	case TagMRUUsed:
		return "mru"
	case TagMRUWritten:
		return "mrw"
	case TagMRURead:
		return "mrr"
	case TagMRUDeleted:
		return "mrd"
	case TagWalk:
		return "rec"
	default:
		return "???"
	}
}

// StyleID returns the display style identifier registered for this tag.
func (t Tag) StyleID() string {
	return "tag_" + t.Label()
}

// IsMRU reports whether the tag is one of the MRU register variants.
func (t Tag) IsMRU() bool {
	return t >= TagMRUUsed && t <= TagMRUDeleted
}

// String returns a human-readable source name for logs and diagnostics.
func (t Tag) String() string {
	switch t {
	case TagBuffer:
		return "buffers"
	case TagMRUUsed, TagMRUWritten, TagMRURead, TagMRUDeleted:
		return "mru (" + t.Label() + ")"
	case TagWalk:
		return "walk"
	default:
		return "unknown"
	}
}

// Span marks a highlighted range of an item's display text.
type Span struct {
	Start int
	Len   int
	Style string
}

// Item is one candidate result delivered to the consumer.
type Item struct {
	// Display is the label shown in the picker list.
	Display string
	// Tag records which source produced the item.
	Tag Tag
	// Path is the filesystem path acted on when the item is accepted.
	// It must be non-empty for every item that participates in dedup.
	Path string
	// IsDir is set for items whose path names a directory.
	IsDir bool
	// IsLink is set for items reached through a symbolic link.
	IsLink bool
	// Highlight covers the provenance label prefix. It is nil unless
	// provenance tags are rendered.
	Highlight *Span
}

// Labeled prepends the provenance label of tag to text and returns the
// decorated display string together with the span covering the label.
func Labeled(tag Tag, text string) (string, *Span) {
	label := tag.Label()
	return label + " " + text, &Span{Start: 0, Len: len(label), Style: tag.StyleID()}
}
