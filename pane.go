package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
)

// HitZone represents where a mouse click landed on a pane
type HitZone int

const (
	ZoneNone HitZone = iota
	ZoneTitleBar
	ZoneContent
	ZoneBorder
	ZoneCornerSE
)

// PaneContent defines what a pane can display
type PaneContent interface {
	// Render returns the content string to display within pane borders.
	// w, h are the content area dimensions (inside borders).
	Render(w, h int) string

	// HandleKey processes keyboard input when this pane has focus.
	// Returns true if the key was consumed.
	HandleKey(msg tea.KeyMsg) bool

	// HandleMouse processes mouse input within this pane's bounds.
	// x, y are relative to the pane's content area.
	HandleMouse(x, y int, msg tea.MouseMsg) bool

	// Title returns the pane's title
	Title() string
}

// DragMode represents the current drag operation
type DragMode int

const (
	DragNone DragMode = iota
	DragMove
	DragResize
)

// Pane is a floating window composited over the editor
type Pane struct {
	ID      string
	X, Y    int // top-left, screen coordinates
	Width   int // including borders
	Height  int
	MinW    int
	MinH    int
	Focused bool
	Content PaneContent

	dragMode    DragMode
	dragOffsetX int
	dragOffsetY int
}

// NewPane creates a pane with sensible defaults
func NewPane(id string, content PaneContent, x, y, w, h int) *Pane {
	return &Pane{
		ID:      id,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
		MinW:    20,
		MinH:    5,
		Content: content,
	}
}

// HitZone determines where a screen point falls within the pane. Only the
// title bar (move) and SE corner (resize) are draggable.
func (p *Pane) HitZone(x, y int) HitZone {
	if x < p.X || x >= p.X+p.Width || y < p.Y || y >= p.Y+p.Height {
		return ZoneNone
	}
	relX, relY := x-p.X, y-p.Y
	if relY == p.Height-1 && relX == p.Width-1 {
		return ZoneCornerSE
	}
	if relY == 0 {
		return ZoneTitleBar
	}
	if relY == p.Height-1 || relX == 0 || relX == p.Width-1 {
		return ZoneBorder
	}
	return ZoneContent
}

// StartDrag begins moving or resizing depending on the hit zone
func (p *Pane) StartDrag(zone HitZone, mouseX, mouseY int) {
	switch zone {
	case ZoneTitleBar:
		p.dragMode = DragMove
		p.dragOffsetX = mouseX - p.X
		p.dragOffsetY = mouseY - p.Y
	case ZoneCornerSE:
		p.dragMode = DragResize
	}
}

// UpdateDrag applies mouse motion to the active drag
func (p *Pane) UpdateDrag(mouseX, mouseY, screenW, screenH int) {
	switch p.dragMode {
	case DragMove:
		p.X = clamp(mouseX-p.dragOffsetX, -p.Width+5, screenW-5)
		p.Y = clamp(mouseY-p.dragOffsetY, 0, screenH-1)
	case DragResize:
		p.Width = max(mouseX-p.X+1, p.MinW)
		p.Height = max(mouseY-p.Y+1, p.MinH)
	}
}

// StopDrag ends the current drag operation
func (p *Pane) StopDrag() {
	p.dragMode = DragNone
}

// Render renders the pane with borders and content. Focused panes use a
// double-line border.
func (p *Pane) Render() string {
	var tl, tr, bl, br, h, v string
	if p.Focused {
		tl, tr, bl, br, h, v = "╔", "╗", "╚", "╝", "═", "║"
	} else {
		tl, tr, bl, br, h, v = "┌", "┐", "└", "┘", "─", "│"
	}

	contentW := max(p.Width-2, 1)
	contentH := max(p.Height-2, 1)

	content := ""
	title := ""
	if p.Content != nil {
		content = p.Content.Render(contentW, contentH)
		title = p.Content.Title()
	}
	contentLines := strings.Split(content, "\n")

	titleRunes := []rune(title)
	if len(titleRunes) > contentW-2 {
		titleRunes = titleRunes[:max(contentW-2, 0)]
	}
	padding := contentW - len(titleRunes) - 2
	if padding < 0 {
		padding = 0
	}

	var lines []string
	lines = append(lines, tl+" "+string(titleRunes)+" "+strings.Repeat(h, padding)+tr)
	for i := 0; i < contentH; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, v+padVisible(line, contentW)+v)
	}
	lines = append(lines, bl+strings.Repeat(h, contentW)+br)

	return strings.Join(lines, "\n")
}

// padVisible pads or truncates a possibly-styled line to exactly w cells,
// going through a cell buffer so ANSI sequences are measured correctly.
func padVisible(line string, w int) string {
	buf := cellbuf.NewBuffer(w, 1)
	cellbuf.SetContent(buf, line)
	return cellbuf.Render(buf)
}

// PaneManager tracks all floating panes
type PaneManager struct {
	panes     map[string]*Pane
	zOrder    []string // last = topmost
	focusedID string
	screenW   int
	screenH   int
}

// NewPaneManager creates a new pane manager
func NewPaneManager(screenW, screenH int) *PaneManager {
	return &PaneManager{
		panes:   make(map[string]*Pane),
		screenW: screenW,
		screenH: screenH,
	}
}

// Add adds a pane to the manager
func (pm *PaneManager) Add(pane *Pane) {
	pm.panes[pane.ID] = pane
	pm.zOrder = append(pm.zOrder, pane.ID)
}

// Remove removes a pane from the manager
func (pm *PaneManager) Remove(id string) {
	delete(pm.panes, id)
	for i, pid := range pm.zOrder {
		if pid == id {
			pm.zOrder = append(pm.zOrder[:i], pm.zOrder[i+1:]...)
			break
		}
	}
	if pm.focusedID == id {
		pm.focusedID = ""
		if n := len(pm.zOrder); n > 0 {
			pm.Focus(pm.zOrder[n-1])
		}
	}
}

// Get returns a pane by ID, nil if absent
func (pm *PaneManager) Get(id string) *Pane {
	return pm.panes[id]
}

// Focus focuses a pane and raises it to the top
func (pm *PaneManager) Focus(id string) {
	if p := pm.panes[pm.focusedID]; p != nil {
		p.Focused = false
	}
	pm.focusedID = id
	if p := pm.panes[id]; p != nil {
		p.Focused = true
		pm.raise(id)
	}
}

func (pm *PaneManager) raise(id string) {
	for i, pid := range pm.zOrder {
		if pid == id {
			pm.zOrder = append(pm.zOrder[:i], pm.zOrder[i+1:]...)
			pm.zOrder = append(pm.zOrder, id)
			break
		}
	}
}

// FocusNext cycles focus to the next pane
func (pm *PaneManager) FocusNext() {
	if len(pm.zOrder) == 0 {
		return
	}
	if pm.focusedID == "" {
		pm.Focus(pm.zOrder[0])
		return
	}
	for i, id := range pm.zOrder {
		if id == pm.focusedID {
			pm.Focus(pm.zOrder[(i+1)%len(pm.zOrder)])
			return
		}
	}
}

// FocusedPane returns the currently focused pane, nil if none
func (pm *PaneManager) FocusedPane() *Pane {
	return pm.panes[pm.focusedID]
}

// PaneAt returns the topmost pane at the given coordinates
func (pm *PaneManager) PaneAt(x, y int) *Pane {
	for i := len(pm.zOrder) - 1; i >= 0; i-- {
		pane := pm.panes[pm.zOrder[i]]
		if pane != nil && pane.HitZone(x, y) != ZoneNone {
			return pane
		}
	}
	return nil
}

// UpdateSize updates the screen dimensions and keeps panes reachable
func (pm *PaneManager) UpdateSize(w, h int) {
	pm.screenW = w
	pm.screenH = h
	for _, pane := range pm.panes {
		if pane.X > w-5 {
			pane.X = w - 5
		}
		if pane.Y >= h {
			pane.Y = h - 1
		}
	}
}

// HasPanes returns true if there are any panes
func (pm *PaneManager) HasPanes() bool {
	return len(pm.zOrder) > 0
}

// Render composites all panes over the base content, bottom to top
func (pm *PaneManager) Render(base string) string {
	if len(pm.zOrder) == 0 {
		return base
	}

	baseH := len(strings.Split(base, "\n"))
	baseW := pm.screenW
	buf := cellbuf.NewBuffer(baseW, baseH)
	cellbuf.SetContent(buf, base)

	for _, id := range pm.zOrder {
		pane := pm.panes[id]
		if pane == nil {
			continue
		}

		// Render the pane into its own buffer, then copy cells across so
		// styled content keeps its attributes.
		pbuf := cellbuf.NewBuffer(pane.Width, pane.Height)
		cellbuf.SetContent(pbuf, pane.Render())
		for dy := 0; dy < pane.Height; dy++ {
			y := pane.Y + dy
			if y < 0 || y >= baseH {
				continue
			}
			for dx := 0; dx < pane.Width; dx++ {
				x := pane.X + dx
				if x < 0 || x >= baseW {
					continue
				}
				if cell := pbuf.Cell(dx, dy); cell != nil {
					buf.SetCell(x, y, cell)
				}
			}
		}
	}

	return cellbuf.Render(buf)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// trimLastRune removes the final rune, not byte, for backspace over input.
func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
