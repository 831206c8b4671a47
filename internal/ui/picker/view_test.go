package picker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-show/tripick/internal/item"
)

func viewItems(displays ...string) []item.Item {
	items := make([]item.Item, len(displays))
	for i, d := range displays {
		items[i] = item.Item{Display: d, Path: "/" + d}
	}
	return items
}

func windowDisplays(t *testing.T, v *View, height int) []string {
	t.Helper()
	rows, _ := v.Window(height)
	out := make([]string, len(rows))
	for i, m := range rows {
		out[i] = v.ItemAt(m).Display
	}
	return out
}

func TestViewEmptyQueryKeepsArrivalOrder(t *testing.T) {
	v := NewView()
	v.AppendBatch(viewItems("buf a.go", "mru b.go"))
	v.AppendBatch(viewItems("rec c.go", "rec d.go"))

	assert.Equal(t, 4, v.Total())
	assert.Equal(t, 4, v.MatchCount())
	assert.Equal(t,
		[]string{"buf a.go", "mru b.go", "rec c.go", "rec d.go"},
		windowDisplays(t, v, 10))
}

func TestViewQueryFiltersAndResetsCursor(t *testing.T) {
	v := NewView()
	v.AppendBatch(viewItems("buf notes.txt", "rec src/main.go", "rec main.go"))
	v.MoveCursor(2)

	v.SetQuery("main")

	assert.Equal(t, 2, v.MatchCount())
	shown := windowDisplays(t, v, 10)
	assert.ElementsMatch(t, []string{"rec src/main.go", "rec main.go"}, shown)
	selected, ok := v.Selected()
	require.True(t, ok)
	assert.Contains(t, selected.Display, "main.go")
}

func TestViewAppendScoresOnlyAgainstCurrentQuery(t *testing.T) {
	v := NewView()
	v.AppendBatch(viewItems("rec alpha.go"))
	v.SetQuery("beta")
	assert.Equal(t, 0, v.MatchCount())

	v.AppendBatch(viewItems("rec beta.go"))
	assert.Equal(t, 1, v.MatchCount())
	assert.Equal(t, []string{"rec beta.go"}, windowDisplays(t, v, 10))
}

func TestViewBackspaceAndClear(t *testing.T) {
	v := NewView()
	v.AppendBatch(viewItems("rec a.go", "rec b.go"))

	v.InsertRune('a')
	assert.Equal(t, "a", v.Query())
	assert.Equal(t, 1, v.MatchCount())

	v.Backspace()
	assert.Equal(t, "", v.Query())
	assert.Equal(t, 2, v.MatchCount())

	v.Backspace()
	assert.Equal(t, "", v.Query())

	v.InsertRune('b')
	v.ClearQuery()
	assert.Equal(t, 2, v.MatchCount())
}

func TestViewCursorClampsToMatches(t *testing.T) {
	v := NewView()
	v.AppendBatch(viewItems("rec a.go", "rec b.go", "rec c.go"))

	v.MoveCursor(10)
	selected, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "rec c.go", selected.Display)

	v.MoveCursor(-10)
	selected, _ = v.Selected()
	assert.Equal(t, "rec a.go", selected.Display)
}

func TestViewWindowFollowsCursor(t *testing.T) {
	v := NewView()
	var displays []string
	for i := 0; i < 10; i++ {
		displays = append(displays, fmt.Sprintf("rec f%02d.go", i))
	}
	v.AppendBatch(viewItems(displays...))

	rows, cursorRow := v.Window(3)
	assert.Len(t, rows, 3)
	assert.Equal(t, 0, cursorRow)

	v.MoveCursor(5)
	rows, cursorRow = v.Window(3)
	assert.Equal(t, "rec f05.go", v.ItemAt(rows[cursorRow]).Display)
	assert.Equal(t, 2, cursorRow, "cursor sits at the window bottom after scrolling down")

	v.MoveCursor(-5)
	rows, cursorRow = v.Window(3)
	assert.Equal(t, "rec f00.go", v.ItemAt(rows[cursorRow]).Display)
	assert.Equal(t, 0, cursorRow)
}

func TestViewPageMoveUsesWindowHeight(t *testing.T) {
	v := NewView()
	var displays []string
	for i := 0; i < 20; i++ {
		displays = append(displays, fmt.Sprintf("rec f%02d.go", i))
	}
	v.AppendBatch(viewItems(displays...))
	v.Window(5)

	v.PageMove(1)
	selected, _ := v.Selected()
	assert.Equal(t, "rec f05.go", selected.Display)

	v.PageMove(-1)
	selected, _ = v.Selected()
	assert.Equal(t, "rec f00.go", selected.Display)
}

func TestViewSelectedOnEmptyList(t *testing.T) {
	v := NewView()
	_, ok := v.Selected()
	assert.False(t, ok)
}

func TestViewNotesKeepOnlyRecent(t *testing.T) {
	v := NewView()
	for i := 0; i < 5; i++ {
		v.Note(fmt.Sprintf("note %d", i))
	}
	assert.Equal(t, "note 4", v.LastNote())
	assert.Len(t, v.notes, maxNotes)
}

func TestViewLoadingTransitions(t *testing.T) {
	v := NewView()
	assert.True(t, v.Loading())

	v.SetLoading(false)
	assert.False(t, v.Loading())

	before := v.LoadingSince()
	v.SetLoading(true)
	assert.True(t, v.Loading())
	assert.False(t, v.LoadingSince().Before(before))
}
