package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"platex/tex"
)

func testConfig() Config {
	cfg := LoadConfig()
	cfg.DebounceMS = 10
	return cfg
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(testConfig(), nil, nil)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mm.(Model)
}

func newTestModelWithDoc(t *testing.T) (Model, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.tex")
	text := "\\documentclass{article}\n\\begin{document}\nHello\n\\end{document}\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t)
	m.openFile(path)
	return m, path
}

func TestNewModelOpensProjectMainTex(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.tex", "main.tex"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("\\documentclass{article}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	p, err := tex.OpenProject(dir)
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(testConfig(), p, nil)
	if m.locator == nil {
		t.Fatal("model should carry a toolchain locator")
	}
	if got := filepath.Base(m.activeBuf().Path); got != "main.tex" {
		t.Errorf("active buffer = %q, want the alphabetically first .tex", got)
	}
}

func TestDebounceStaleSequenceIgnored(t *testing.T) {
	m := newTestModel(t)
	m.livePDF = true

	cmd := m.noteEdit()
	if cmd == nil {
		t.Fatal("expected a debounce command while live mode is on")
	}
	stale := m.editSeq
	m.noteEdit() // a later edit supersedes the first

	mm, cmd := m.Update(debounceMsg{seq: stale})
	if cmd != nil {
		t.Error("stale debounce should not trigger a compile")
	}
	if mm.(Model).compiling {
		t.Error("stale debounce must not start a compile")
	}
}

func TestDebounceOnlyWhenLive(t *testing.T) {
	m := newTestModel(t)

	if cmd := m.noteEdit(); cmd != nil {
		t.Error("edits should not schedule a debounce with live mode off")
	}

	m.livePDF = true
	if cmd := m.noteEdit(); cmd == nil {
		t.Error("edits should schedule a debounce with live mode on")
	}
}

func TestDebounceCurrentSequenceCompiles(t *testing.T) {
	m, _ := newTestModelWithDoc(t)
	m.livePDF = true
	m.cfg.Compiler = "pdflatex" // skip PATH lookup
	m.noteEdit()

	mm, cmd := m.Update(debounceMsg{seq: m.editSeq})
	if !mm.(Model).compiling {
		t.Error("current debounce should start a compile")
	}
	if cmd == nil {
		t.Error("expected a compile command")
	}
}

func TestCompileSingleFlight(t *testing.T) {
	m, _ := newTestModelWithDoc(t)
	m.cfg.Compiler = "pdflatex"
	m.compiling = true

	mm, cmd := m.startCompile()
	if cmd != nil {
		t.Error("a second compile must not start while one is running")
	}
	got := mm.(Model)
	if got.status != "compile already running" {
		t.Errorf("status = %q", got.status)
	}
}

func TestCompileUnsavedPrompts(t *testing.T) {
	m := newTestModel(t)
	m.cfg.Compiler = "pdflatex"

	mm, cmd := m.startCompile()
	got := mm.(Model)
	if cmd != nil || got.compiling {
		t.Error("an unnamed buffer must not compile")
	}
	if got.prompt != promptSaveAs {
		t.Errorf("prompt = %v, want save-as", got.prompt)
	}
}

func TestCompileSavesModifiedBuffer(t *testing.T) {
	m, path := newTestModelWithDoc(t)
	m.cfg.Compiler = "pdflatex"
	m.activeBuf().InsertText("% note\n")
	if !m.activeBuf().Modified {
		t.Fatal("buffer should be modified")
	}

	mm, cmd := m.startCompile()
	got := mm.(Model)
	if cmd == nil || !got.compiling {
		t.Fatal("compile should have started")
	}
	if m.activeBuf().Modified {
		t.Error("compile should save the buffer first")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "% note") {
		t.Error("saved file missing the edit")
	}
}

func TestCompileDoneSuccess(t *testing.T) {
	m, path := newTestModelWithDoc(t)
	m.compiling = true
	m.errorLines = map[int]bool{2: true}
	artifact := strings.TrimSuffix(path, ".tex") + ".pdf"

	mm, _ := m.handleCompileDone(tex.Result{
		Status:   tex.StatusSucceeded,
		Artifact: artifact,
	})
	got := mm.(Model)
	if got.compiling {
		t.Error("compiling flag should clear")
	}
	if got.errorLines != nil {
		t.Error("error markers should clear on success")
	}
	if got.lastGoodArtifact != artifact {
		t.Errorf("lastGoodArtifact = %q", got.lastGoodArtifact)
	}
	if got.panes.Get("preview") == nil {
		t.Error("preview pane should open on success")
	}
	if !strings.HasPrefix(got.status, "compiled ✓") {
		t.Errorf("status = %q", got.status)
	}
}

func TestCompileDoneFailureMarksLines(t *testing.T) {
	m, _ := newTestModelWithDoc(t)
	m.compiling = true
	log := "! Undefined control sequence.\nl.3 \\badmacro\n"

	mm, _ := m.handleCompileDone(tex.Result{
		Status:   tex.StatusFailed,
		ExitCode: 1,
		Log:      log,
	})
	got := mm.(Model)
	if got.compiling {
		t.Error("compiling flag should clear")
	}
	if !got.errorLines[2] {
		t.Errorf("errorLines = %v, want line 2 marked", got.errorLines)
	}
	if got.panes.Get("log") == nil {
		t.Error("log pane should open on failure")
	}
	if !strings.Contains(got.status, "Undefined control sequence") {
		t.Errorf("status = %q", got.status)
	}
}

func TestCompileDoneTimeout(t *testing.T) {
	m, path := newTestModelWithDoc(t)
	m.compiling = true

	var logged bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logged, nil)))
	defer slog.SetDefault(prev)

	mm, _ := m.handleCompileDone(tex.Result{Status: tex.StatusTimedOut})
	got := mm.(Model)
	if got.status != "compile timed out" {
		t.Errorf("status = %q", got.status)
	}
	if got.panes.Get("log") == nil {
		t.Error("log pane should open on timeout")
	}
	if !strings.Contains(logged.String(), path) {
		t.Errorf("timeout log entry should name the document, got %q", logged.String())
	}
}

func TestEditClearsErrorMarkers(t *testing.T) {
	m := newTestModel(t)
	m.errorLines = map[int]bool{0: true}
	m.noteEdit()
	if m.errorLines != nil {
		t.Error("an edit should clear error markers")
	}
}

func TestTypingMarksBufferModified(t *testing.T) {
	m := newTestModel(t)
	before := m.activeBuf().Lines[m.activeBuf().CursorRow]

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	got := mm.(Model)
	if !got.activeBuf().Modified {
		t.Error("typing should mark the buffer modified")
	}
	after := got.activeBuf().Lines[got.activeBuf().CursorRow]
	if after == before {
		t.Error("typing should change the cursor line")
	}
}

func TestEditorHonoursConfiguredNavKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Keys.Down = []string{"ctrl+n"}
	cfg.Keys.Backspace = []string{"ctrl+h"}

	m := NewModel(cfg, nil, nil)
	m.activeBuf().SetText("one\ntwo\n")
	m.activeBuf().CursorRow, m.activeBuf().CursorCol = 0, 3

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	got := mm.(Model)
	if got.activeBuf().CursorRow != 1 {
		t.Errorf("row = %d, want 1 after remapped down", got.activeBuf().CursorRow)
	}

	got.activeBuf().CursorRow, got.activeBuf().CursorCol = 0, 3
	mm, _ = got.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	got = mm.(Model)
	if line := got.activeBuf().Lines[0]; line != "on" {
		t.Errorf("line = %q, want %q after remapped backspace", line, "on")
	}
}

func TestPaletteCompileAction(t *testing.T) {
	m, _ := newTestModelWithDoc(t)
	m.cfg.Compiler = "pdflatex"

	cmd := m.runAction(ActionCompile)
	if cmd == nil {
		t.Fatal("expected a compile command")
	}
	if !m.compiling {
		t.Error("palette compile should set the compiling flag")
	}
}

func TestRecentFileActionOpensTab(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.tex")
	if err := os.WriteFile(path, []byte("\\documentclass{article}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := OpenStore(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	m := NewModel(testConfig(), nil, store)
	m.runAction(actionRecentPrefix + path)

	if got := m.activeBuf().Path; got != path {
		t.Errorf("active buffer = %q, want %q", got, path)
	}
	if got := store.RecentFiles(); len(got) == 0 || got[0] != path {
		t.Errorf("recent list = %v", got)
	}

	m.togglePalette()
	pal, ok := m.panes.Get("palette").Content.(*Palette)
	if !ok {
		t.Fatal("palette pane missing")
	}
	found := false
	for _, c := range pal.commands {
		if c.Action == actionRecentPrefix+path {
			found = true
		}
	}
	if !found {
		t.Error("palette should list the recent file")
	}
}

func TestToggleLiveAction(t *testing.T) {
	m := newTestModel(t)
	if m.livePDF {
		t.Fatal("live mode should start off by default")
	}
	m.runAction(ActionToggleLive)
	if !m.livePDF {
		t.Error("toggle should turn live mode on")
	}
	m.runAction(ActionToggleLive)
	if m.livePDF {
		t.Error("toggle should turn live mode off again")
	}
}

func TestWindowSizeResizesPanes(t *testing.T) {
	m := newTestModel(t)
	m.toggleLogPane()
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	got := mm.(Model)
	if got.width != 200 || got.height != 60 {
		t.Errorf("size = %dx%d", got.width, got.height)
	}
}

func TestViewRendersWithoutProject(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	if out == "" {
		t.Fatal("empty view")
	}
	if !strings.Contains(out, "Untitled.tex") {
		t.Error("view should show the untitled tab")
	}
}

func TestDebounceTimingHonoursConfig(t *testing.T) {
	cmd := debounceCmd(1, 10*time.Millisecond)
	if cmd == nil {
		t.Fatal("nil command")
	}
	msg := cmd()
	d, ok := msg.(debounceMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if d.seq != 1 {
		t.Errorf("seq = %d", d.seq)
	}
}
