package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/s-show/tripick/internal/item"
	"github.com/s-show/tripick/internal/ui/picker"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run opens the terminal picker, streams source batches into it as they
// arrive, and returns the accepted path. It returns ErrAborted when the
// user quits without accepting.
func (a *App) Run(ctx context.Context) (string, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return "", err
	}
	if err := screen.Init(); err != nil {
		return "", err
	}
	defer screen.Fini()
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()
	a.screen = screen

	theme := picker.DefaultTheme()
	picker.RegisterDefaultTagStyles(theme)
	renderer := picker.NewRenderer(screen, theme)
	a.view = picker.NewView()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream := a.gatherer.Gather(ctx)
	defer stream.Close()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	const animationInterval = 50 * time.Millisecond
	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	batches := stream.Batches()
	diags := stream.Diagnostics()

	renderer.Render(a.view)
	renderPending := false

	for !a.shouldQuit {
		if renderPending {
			renderer.Render(a.view)
			renderPending = false
		}

		if a.view.Loading() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if a.handleEvent(ev) {
				renderPending = true
			}
		case batch, ok := <-batches:
			if !ok {
				batches = nil
				a.view.SetLoading(false)
				if err := stream.Err(); err != nil {
					return "", err
				}
			} else {
				a.view.AppendBatch(batch)
			}
			renderPending = true
		case diag, ok := <-diags:
			if !ok {
				diags = nil
			} else {
				a.log.Warn("source failed", "source", diag.Source.Label(), "err", diag.Err)
				a.view.Note(fmt.Sprintf("%s unavailable: %v", diag.Source.Label(), diag.Err))
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case <-sigContCh:
			if a.resumeAfterStop() {
				renderPending = true
			}
		}
	}

	stopAnimation()

	if !a.accepted {
		return "", ErrAborted
	}
	return a.selected, nil
}

func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
		return true
	case *tcell.EventMouse:
		return a.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		// First press clears the query, a second one quits.
		if a.view.Query() != "" {
			a.view.ClearQuery()
		} else {
			a.shouldQuit = true
		}
	case tcell.KeyCtrlC:
		a.shouldQuit = true
	case tcell.KeyEnter:
		if it, ok := a.view.Selected(); ok {
			a.accept(it)
		}
	case tcell.KeyUp, tcell.KeyCtrlP:
		a.view.MoveCursor(-1)
	case tcell.KeyDown, tcell.KeyCtrlN:
		a.view.MoveCursor(1)
	case tcell.KeyPgUp:
		a.view.PageMove(-1)
	case tcell.KeyPgDn:
		a.view.PageMove(1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.view.Backspace()
	case tcell.KeyCtrlU:
		a.view.ClearQuery()
	case tcell.KeyRune:
		a.view.InsertRune(ev.Rune())
	default:
		return false
	}
	return true
}

// handleMouse maps wheel movement to the cursor and primary clicks to
// selection. A double click accepts the clicked row.
func (a *App) handleMouse(ev *tcell.EventMouse) bool {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		a.view.MoveCursor(-1)
		return true
	case buttons&tcell.WheelDown != 0:
		a.view.MoveCursor(1)
		return true
	}
	if buttons&tcell.Button1 == 0 {
		return false
	}

	_, y := ev.Position()
	_, height := a.screen.Size()
	if y < 1 || y >= height-1 {
		return false
	}
	row := y - 1
	if !a.view.ClickRow(row) {
		return false
	}

	if a.lastClickRow == row && time.Since(a.lastClickTime) <= doubleClickThreshold {
		if it, ok := a.view.Selected(); ok {
			a.accept(it)
		}
	}
	a.lastClickRow = row
	a.lastClickTime = time.Now()
	return true
}

// accept records the selection. Directories gain a trailing separator so the
// caller can tell them apart from plain files.
func (a *App) accept(it item.Item) {
	path := it.Path
	if it.IsDir && !strings.HasSuffix(path, string(os.PathSeparator)) {
		path += string(os.PathSeparator)
	}
	a.selected = path
	a.accepted = true
	a.shouldQuit = true
}
