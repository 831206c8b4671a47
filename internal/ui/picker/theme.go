package picker

import (
	"github.com/gdamore/tcell/v2"

	"github.com/s-show/tripick/internal/item"
)

// Theme defines picker colors. Tag styles are looked up by the style IDs
// items carry in their highlight spans.
type Theme struct {
	Base      tcell.Style
	Prompt    tcell.Style
	Query     tcell.Style
	Selection tcell.Style
	Matched   tcell.Style
	Status    tcell.Style
	Directory tcell.Style
	Symlink   tcell.Style

	tags map[string]tcell.Style
}

// DefaultTheme returns the default color scheme on a transparent
// background.
func DefaultTheme() *Theme {
	return &Theme{
		Base:      tcell.StyleDefault,
		Prompt:    tcell.StyleDefault.Foreground(tcell.Color33).Bold(true),
		Query:     tcell.StyleDefault.Bold(true),
		Selection: tcell.StyleDefault.Background(tcell.Color33).Foreground(tcell.ColorWhite),
		Matched:   tcell.StyleDefault.Foreground(tcell.Color208),
		Status:    tcell.StyleDefault.Foreground(tcell.ColorLightSlateGray),
		Directory: tcell.StyleDefault.Foreground(tcell.Color33),
		Symlink:   tcell.StyleDefault.Foreground(tcell.Color51),
		tags:      map[string]tcell.Style{},
	}
}

// RegisterTagStyle binds a provenance style ID to a display style. Each tag
// is registered once at startup, before the first render.
func (t *Theme) RegisterTagStyle(id string, style tcell.Style) {
	t.tags[id] = style
}

// TagStyle returns the registered style for id, falling back to the status
// style so unregistered tags stay visible but muted.
func (t *Theme) TagStyle(id string) tcell.Style {
	if style, ok := t.tags[id]; ok {
		return style
	}
	return t.Status
}

// RegisterDefaultTagStyles installs the stock colors for every provenance
// tag: blue for open documents, yellow for the MRU registers, gray for walk
// results.
func RegisterDefaultTagStyles(t *Theme) {
	for _, tag := range []item.Tag{
		item.TagBuffer,
		item.TagMRUUsed,
		item.TagMRUWritten,
		item.TagMRURead,
		item.TagMRUDeleted,
		item.TagWalk,
	} {
		var style tcell.Style
		switch {
		case tag == item.TagBuffer:
			style = tcell.StyleDefault.Foreground(tcell.Color33)
		case tag.IsMRU():
			style = tcell.StyleDefault.Foreground(tcell.Color178)
		default:
			style = tcell.StyleDefault.Foreground(tcell.ColorLightSlateGray)
		}
		t.RegisterTagStyle(tag.StyleID(), style)
	}
}
