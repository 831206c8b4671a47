package picker

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/s-show/tripick/internal/textutil"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerFrameInterval = 100 * time.Millisecond

// Renderer draws a View onto a tcell screen. Layout: query prompt on the
// top row, the match list below it, a status line on the bottom row.
type Renderer struct {
	screen tcell.Screen
	theme  *Theme
}

// NewRenderer creates a renderer for the given screen and theme.
func NewRenderer(screen tcell.Screen, theme *Theme) *Renderer {
	return &Renderer{screen: screen, theme: theme}
}

// Render draws the complete picker and flushes the screen.
func (r *Renderer) Render(v *View) {
	r.screen.Clear()
	width, height := r.screen.Size()
	if width <= 0 || height <= 0 {
		r.screen.Show()
		return
	}

	r.drawPrompt(v, width)

	listHeight := height - 2
	if listHeight > 0 {
		rows, cursorRow := v.Window(listHeight)
		for i, m := range rows {
			r.drawRow(v, m, 1+i, width, i == cursorRow)
		}
	}
	if height >= 2 {
		r.drawStatus(v, width, height-1)
	}
	r.screen.Show()
}

func (r *Renderer) drawPrompt(v *View, width int) {
	col := r.drawLine(0, 0, width, "> ", fixed(r.theme.Prompt))
	col = r.drawLine(col, 0, width, textutil.SanitizeLabel(v.Query()), fixed(r.theme.Query))
	r.screen.ShowCursor(col, 0)

	counts := fmt.Sprintf("%d/%d", v.MatchCount(), v.Total())
	cw := textutil.DisplayWidth(counts)
	if width-cw-1 > col {
		r.drawLine(width-cw, 0, width, counts, fixed(r.theme.Status))
	}
}

func (r *Renderer) drawRow(v *View, m match, y, width int, selected bool) {
	it := v.ItemAt(m)
	display := textutil.SanitizeLabel(it.Display)

	base := r.theme.Base
	switch {
	case it.IsLink:
		base = r.theme.Symlink
	case it.IsDir:
		base = r.theme.Directory
	}
	if selected {
		base = r.theme.Selection
		for x := 0; x < width; x++ {
			r.screen.SetContent(x, y, ' ', nil, base)
		}
	}

	// The provenance label is plain ASCII, so its rune count survives
	// sanitization unchanged.
	prefixRunes := 0
	tagStyle := base
	if sp := it.Highlight; sp != nil && sp.Start == 0 && sp.Len <= len(it.Display) {
		prefixRunes = utf8.RuneCountInString(it.Display[:sp.Len])
		if !selected {
			tagStyle = r.theme.TagStyle(sp.Style)
		}
	}

	var hits map[int]struct{}
	if v.Query() != "" {
		if positions := Positions(v.Query(), display); positions != nil {
			hits = make(map[int]struct{}, len(positions))
			for _, p := range positions {
				hits[p] = struct{}{}
			}
		}
	}

	r.drawLine(0, y, width, display, func(ri int) tcell.Style {
		st := base
		if ri < prefixRunes {
			st = tagStyle
		}
		if _, hit := hits[ri]; hit {
			if selected {
				st = st.Bold(true)
			} else {
				st = r.theme.Matched
			}
		}
		return st
	})
}

func (r *Renderer) drawStatus(v *View, width, y int) {
	var left string
	if v.Loading() {
		left = fmt.Sprintf("%s scanning…", r.spinner(v))
	} else {
		left = fmt.Sprintf("%d items", v.Total())
	}
	if note := v.LastNote(); note != "" {
		left += "  " + note
	}
	r.drawLine(0, y, width, textutil.SanitizeLabel(left), fixed(r.theme.Status))
}

func (r *Renderer) spinner(v *View) string {
	elapsed := time.Since(v.LoadingSince())
	if elapsed < 0 {
		return spinnerFrames[0]
	}
	return spinnerFrames[int(elapsed/spinnerFrameInterval)%len(spinnerFrames)]
}

func fixed(style tcell.Style) func(int) tcell.Style {
	return func(int) tcell.Style { return style }
}

// drawLine draws text starting at column x, truncating with an ellipsis
// when it would overflow maxX. Combining runes attach to the preceding
// cell. styleFor resolves the style for each rune index. Returns the column
// after the last drawn cell.
func (r *Renderer) drawLine(x, y, maxX int, text string, styleFor func(int) tcell.Style) int {
	col := x
	var pending rune
	var pendingCol int
	var pendingComb []rune
	var pendingStyle tcell.Style

	flush := func() {
		if pending != 0 {
			r.screen.SetContent(pendingCol, y, pending, pendingComb, pendingStyle)
			pending = 0
		}
	}

	ri := 0
	for _, rn := range text {
		w := runewidth.RuneWidth(rn)
		if w == 0 {
			if pending != 0 {
				pendingComb = append(pendingComb, rn)
			}
			ri++
			continue
		}
		if col+w > maxX {
			flush()
			if maxX-1 >= x {
				r.screen.SetContent(maxX-1, y, '…', nil, styleFor(ri))
			}
			return maxX
		}
		flush()
		pending, pendingCol, pendingComb, pendingStyle = rn, col, nil, styleFor(ri)
		col += w
		ri++
	}
	flush()
	return col
}
