package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/duelsim/internal/combat"
	"github.com/samdwyer/duelsim/internal/gamedata"
)

// Viewer steps through a battle log one entry at a time.
type Viewer struct {
	screen   *Screen
	renderer *Renderer
	result   *combat.Result
	pos      int
}

// NewViewer creates a viewer positioned on the first log entry.
func NewViewer(screen *Screen, catalog *gamedata.Catalog, res *combat.Result) *Viewer {
	return &Viewer{
		screen:   screen,
		renderer: NewRenderer(screen, catalog),
		result:   res,
	}
}

// Run draws the log and handles keys until the user quits.
func (v *Viewer) Run() {
	v.renderer.Render(v.result, v.pos)
	for {
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return
			}
		case nil:
			return
		}
		v.renderer.Render(v.result, v.pos)
	}
}

// handleKey moves through the log. It returns false when the viewer should
// exit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	last := max(0, len(v.result.Log)-1)
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight, tcell.KeyDown:
		v.pos = min(last, v.pos+1)
	case tcell.KeyLeft, tcell.KeyUp:
		v.pos = max(0, v.pos-1)
	case tcell.KeyPgDn:
		v.pos = min(last, v.pos+10)
	case tcell.KeyPgUp:
		v.pos = max(0, v.pos-10)
	case tcell.KeyHome:
		v.pos = 0
	case tcell.KeyEnd:
		v.pos = last
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ', 'j', 'l':
			v.pos = min(last, v.pos+1)
		case 'k', 'h':
			v.pos = max(0, v.pos-1)
		case 'g':
			v.pos = 0
		case 'G':
			v.pos = last
		}
	}
	return true
}
