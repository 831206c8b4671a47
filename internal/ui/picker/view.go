package picker

import (
	"sort"
	"time"

	"github.com/s-show/tripick/internal/item"
)

const maxNotes = 3

type match struct {
	idx   int
	score int
}

// View holds the picker state: every item received so far in arrival order,
// the subset matching the current query, and the cursor within that subset.
type View struct {
	items   []item.Item
	matches []match
	query   string
	cursor  int
	scroll  int
	height  int

	loading      bool
	loadingSince time.Time
	notes        []string
}

// NewView returns an empty view in the loading state.
func NewView() *View {
	return &View{
		loading:      true,
		loadingSince: time.Now(),
	}
}

// AppendBatch adds a delivered batch to the list. Arrival order is
// preserved, so with an empty query the list shows sources in priority
// order. New items are scored against the current query without rescoring
// the existing ones.
func (v *View) AppendBatch(batch []item.Item) {
	base := len(v.items)
	v.items = append(v.items, batch...)
	for i, it := range batch {
		score, ok := Score(v.query, it.Display)
		if !ok {
			continue
		}
		v.matches = append(v.matches, match{idx: base + i, score: score})
	}
	if v.query != "" {
		v.sortMatches()
	}
	v.clampCursor()
}

// SetQuery replaces the query and rescores every item.
func (v *View) SetQuery(query string) {
	if query == v.query {
		return
	}
	v.query = query
	v.rebuild()
}

// InsertRune appends a rune to the query.
func (v *View) InsertRune(r rune) {
	v.SetQuery(v.query + string(r))
}

// Backspace removes the last rune of the query.
func (v *View) Backspace() {
	if v.query == "" {
		return
	}
	runes := []rune(v.query)
	v.SetQuery(string(runes[:len(runes)-1]))
}

// ClearQuery resets the query to empty.
func (v *View) ClearQuery() {
	v.SetQuery("")
}

func (v *View) rebuild() {
	v.matches = v.matches[:0]
	for i, it := range v.items {
		score, ok := Score(v.query, it.Display)
		if !ok {
			continue
		}
		v.matches = append(v.matches, match{idx: i, score: score})
	}
	if v.query != "" {
		v.sortMatches()
	}
	v.cursor = 0
	v.scroll = 0
}

// sortMatches orders by score, best first. The sort is stable so items with
// equal scores keep arrival order, which keeps higher-priority sources on
// top.
func (v *View) sortMatches() {
	sort.SliceStable(v.matches, func(a, b int) bool {
		return v.matches[a].score > v.matches[b].score
	})
}

// Query returns the current query string.
func (v *View) Query() string { return v.query }

// Total returns the number of items received so far.
func (v *View) Total() int { return len(v.items) }

// MatchCount returns the number of items matching the current query.
func (v *View) MatchCount() int { return len(v.matches) }

// MoveCursor moves the selection by delta rows, clamped to the match list.
func (v *View) MoveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
}

// PageMove moves the selection by one page in the given direction. The page
// size comes from the most recent Window call.
func (v *View) PageMove(dir int) {
	page := v.height
	if page < 1 {
		page = 1
	}
	v.MoveCursor(dir * page)
}

func (v *View) clampCursor() {
	if v.cursor >= len(v.matches) {
		v.cursor = len(v.matches) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// ClickRow moves the cursor to a row relative to the current window start.
// Reports whether the row holds a match.
func (v *View) ClickRow(row int) bool {
	idx := v.scroll + row
	if row < 0 || idx >= len(v.matches) {
		return false
	}
	v.cursor = idx
	return true
}

// Selected returns the item under the cursor.
func (v *View) Selected() (item.Item, bool) {
	if len(v.matches) == 0 {
		return item.Item{}, false
	}
	return v.items[v.matches[v.cursor].idx], true
}

// Window adjusts the scroll offset so the cursor is visible within height
// rows and returns the slice of matches to draw plus the cursor's position
// relative to the window start.
func (v *View) Window(height int) ([]match, int) {
	v.height = height
	if height <= 0 || len(v.matches) == 0 {
		return nil, 0
	}
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+height {
		v.scroll = v.cursor - height + 1
	}
	if v.scroll > len(v.matches)-1 {
		v.scroll = len(v.matches) - 1
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
	end := v.scroll + height
	if end > len(v.matches) {
		end = len(v.matches)
	}
	return v.matches[v.scroll:end], v.cursor - v.scroll
}

// ItemAt returns the item behind a match entry.
func (v *View) ItemAt(m match) item.Item {
	return v.items[m.idx]
}

// SetLoading flips the loading indicator. Entering the loading state resets
// the spinner clock.
func (v *View) SetLoading(loading bool) {
	if loading && !v.loading {
		v.loadingSince = time.Now()
	}
	v.loading = loading
}

// Loading reports whether sources are still delivering.
func (v *View) Loading() bool { return v.loading }

// LoadingSince returns when the current loading phase started.
func (v *View) LoadingSince() time.Time { return v.loadingSince }

// Note records a short status message, keeping only the most recent few.
func (v *View) Note(text string) {
	v.notes = append(v.notes, text)
	if len(v.notes) > maxNotes {
		v.notes = v.notes[len(v.notes)-maxNotes:]
	}
}

// LastNote returns the most recent status message.
func (v *View) LastNote() string {
	if len(v.notes) == 0 {
		return ""
	}
	return v.notes[len(v.notes)-1]
}
