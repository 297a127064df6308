package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"platex/tex"
)

// Cursor style - inverted colors
var cursorStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("255")).
	Foreground(lipgloss.Color("0"))

// AccentColor is set from config at startup
var AccentColor = lipgloss.Color("62")

// promptKind is what the status-line input is currently asking for
type promptKind int

const (
	promptNone promptKind = iota
	promptSaveAs
	promptOpenFile
	promptNewProject
	promptOpenProject
	promptFigure
)

var promptLabels = map[promptKind]string{
	promptSaveAs:      "save as",
	promptOpenFile:    "open file",
	promptNewProject:  "new project path",
	promptOpenProject: "open project dir",
	promptFigure:      "image to import",
}

// Messages produced by commands.

// compileDoneMsg carries the outcome of a compile run
type compileDoneMsg struct {
	res tex.Result
}

// debounceMsg fires after edits pause; stale sequence numbers are ignored
type debounceMsg struct {
	seq int
}

// assistantAnswerMsg carries the assistant's response
type assistantAnswerMsg struct {
	text string
	err  error
}

// installDoneMsg carries the result of a toolchain install attempt
type installDoneMsg struct {
	compiler string
	found    bool
	output   string
}

// Model holds all state for the TUI
type Model struct {
	cfg  Config
	keys KeyMap
	help help.Model

	// Open documents, one per tab
	bufs   []*Buffer
	active int

	project *tex.Project // nil when editing a lone file
	locator *tex.Locator
	store   *Store // nil if the state db could not be opened

	// Floating panes
	panes         *PaneManager
	logPane       *LogPane
	previewPane   *PreviewPane
	treePane      *FileTreePane
	assistantPane *AssistantPane
	searchPane    *SearchPane
	helpPane      *HelpPane

	// Compile pipeline
	compiling        bool
	livePDF          bool
	editSeq          int
	lastResult       *tex.Result
	lastGoodArtifact string
	errorLines       map[int]bool // 0-indexed rows of the active buffer

	assistantCancel context.CancelFunc

	prompt      promptKind
	promptInput string

	status string
	width  int
	height int
}

// NewModel builds the initial model. project may be nil.
func NewModel(cfg Config, project *tex.Project, store *Store) Model {
	if cfg.Accent != "" {
		AccentColor = lipgloss.Color(cfg.Accent)
	}

	m := Model{
		cfg:     cfg,
		keys:    cfg.ToKeyMap(),
		help:    help.New(),
		locator: tex.NewLocator(),
		store:   store,
		panes:   NewPaneManager(80, 24),
		livePDF: cfg.LivePDF,
		status:  "ready",
	}

	if project != nil {
		m.setProject(project)
		if main, ok := project.MainTex(); ok {
			m.openFile(main)
		}
	}
	if len(m.bufs) == 0 {
		m.bufs = []*Buffer{NewBufferFromText(DocTemplates[0].Text)}
	}
	m.searchPane = NewSearchPane(m.activeBuf())
	return m
}

func (m *Model) activeBuf() *Buffer {
	return m.bufs[m.active]
}

func (m *Model) setProject(p *tex.Project) {
	m.project = p
	if m.treePane != nil {
		m.treePane.Close()
		m.panes.Remove("tree")
	}
	m.treePane = NewFileTreePane(p.Root)
	if m.store != nil {
		m.store.SetLastProject(p.Root)
	}
	slog.Info("project opened", "root", p.Root)
}

func (m *Model) openFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for i, b := range m.bufs {
		if b.Path == abs {
			m.active = i
			m.onTabSwitch()
			return
		}
	}
	buf, err := LoadBuffer(abs)
	if err != nil {
		m.status = "open failed: " + err.Error()
		return
	}
	m.bufs = append(m.bufs, buf)
	m.active = len(m.bufs) - 1
	m.onTabSwitch()
	if m.store != nil {
		m.store.AddRecentFile(abs)
	}
	slog.Info("file opened", "path", abs)
}

func (m *Model) onTabSwitch() {
	m.errorLines = nil
	if m.searchPane != nil {
		m.searchPane.SetBuffer(m.activeBuf())
	}
}

// Commands.

func compileCmd(req tex.Request) tea.Cmd {
	return func() tea.Msg {
		return compileDoneMsg{res: tex.Run(context.Background(), req)}
	}
}

func debounceCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func askAssistantCmd(ctx context.Context, question, document, compileLog string) tea.Cmd {
	return func() tea.Msg {
		text, err := Answer(ctx, question, document, compileLog)
		return assistantAnswerMsg{text: text, err: err}
	}
}

func installCmd(loc *tex.Locator) tea.Cmd {
	return func() tea.Msg {
		var lines []string
		compiler, found := loc.InstallBestEffort(func(s string) {
			lines = append(lines, s)
		})
		return installDoneMsg{compiler: compiler, found: found, output: strings.Join(lines, "\n")}
	}
}

func (m Model) Init() tea.Cmd {
	if m.treePane != nil {
		return m.treePane.Watch()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.panes.UpdateSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case compileDoneMsg:
		return m.handleCompileDone(msg.res)

	case debounceMsg:
		if msg.seq != m.editSeq {
			return m, nil // superseded by a later edit
		}
		if m.livePDF && !m.compiling {
			return m.startCompile()
		}
		return m, nil

	case assistantAnswerMsg:
		if msg.err != nil {
			return m, nil // cancelled in favour of a newer question
		}
		if m.assistantPane != nil {
			m.assistantPane.AddAnswer(msg.text)
			m.assistantPane.SetBusy(false)
		}
		m.assistantCancel = nil
		return m, nil

	case installDoneMsg:
		if m.logPane != nil {
			m.logPane.SetText("Toolchain Install", msg.output)
		}
		if msg.found {
			m.status = "toolchain ready: " + msg.compiler
		} else {
			m.status = "no LaTeX compiler found after install attempt"
		}
		return m, nil

	case treeChangedMsg:
		if m.treePane != nil {
			m.treePane.Refresh()
			return m, m.treePane.Watch()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	// Global shortcuts
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Save):
		return m, m.save()

	case key.Matches(msg, m.keys.Compile):
		return m.startCompile()

	case key.Matches(msg, m.keys.ToggleLive):
		m.livePDF = !m.livePDF
		if m.livePDF {
			m.status = "live PDF on"
		} else {
			m.status = "live PDF off"
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleLog):
		m.toggleLogPane()
		return m, nil

	case key.Matches(msg, m.keys.TogglePreview):
		m.togglePreviewPane()
		return m, nil

	case key.Matches(msg, m.keys.ToggleTree):
		return m, m.toggleTreePane()

	case key.Matches(msg, m.keys.Search):
		m.toggleSearchPane()
		return m, nil

	case key.Matches(msg, m.keys.Assistant):
		m.toggleAssistantPane()
		return m, nil

	case key.Matches(msg, m.keys.HelpPane):
		m.toggleHelpPane()
		return m, nil

	case key.Matches(msg, m.keys.Palette):
		m.togglePalette()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.active = (m.active + 1) % len(m.bufs)
		m.onTabSwitch()
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.active = (m.active - 1 + len(m.bufs)) % len(m.bufs)
		m.onTabSwitch()
		return m, nil

	case key.Matches(msg, m.keys.CloseTab):
		m.closeTab()
		return m, nil

	case key.Matches(msg, m.keys.CyclePane):
		if m.panes.HasPanes() {
			m.panes.FocusNext()
			return m, nil
		}
		// No panes: tab belongs to the editor.

	case key.Matches(msg, m.keys.ClosePane):
		if fp := m.panes.FocusedPane(); fp != nil {
			m.removePane(fp.ID)
			return m, nil
		}

	case key.Matches(msg, m.keys.ShowKeys):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	// Route to focused pane
	if fp := m.panes.FocusedPane(); fp != nil && fp.Content != nil {
		if fp.Content.HandleKey(msg) {
			cmd := m.afterPaneKey(fp.ID)
			return m, cmd
		}
	}

	return m.handleEditorKey(msg)
}

// afterPaneKey reacts to requests pane contents leave behind after consuming
// a key: palette selections, tree opens, assistant questions.
func (m *Model) afterPaneKey(id string) tea.Cmd {
	switch id {
	case "palette":
		if p, ok := m.panes.Get(id).Content.(*Palette); ok && p.Selected != "" {
			action := p.Selected
			p.Selected = ""
			m.removePane("palette")
			return m.runAction(action)
		}
	case "tree":
		if m.treePane != nil && m.treePane.OpenRequest != "" {
			path := m.treePane.OpenRequest
			m.treePane.OpenRequest = ""
			m.openFile(path)
		}
	case "assistant":
		if m.assistantPane != nil && m.assistantPane.Question != "" {
			q := m.assistantPane.Question
			m.assistantPane.Question = ""
			return m.askAssistant(q)
		}
	}
	return nil
}

func (m *Model) askAssistant(question string) tea.Cmd {
	// Newest question wins; abandon any answer still in flight.
	if m.assistantCancel != nil {
		m.assistantCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.assistantCancel = cancel

	m.assistantPane.AddQuestion(question)
	m.assistantPane.SetBusy(true)

	compileLog := ""
	if m.lastResult != nil {
		compileLog = m.lastResult.Log
	}
	return askAssistantCmd(ctx, question, m.activeBuf().Text(), compileLog)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.treePane != nil {
		m.treePane.Close()
	}
	if m.helpPane != nil {
		m.helpPane.Close()
	}
	return m, tea.Quit
}

// save writes the active buffer, or opens the save-as prompt for unnamed ones
func (m *Model) save() tea.Cmd {
	buf := m.activeBuf()
	if buf.Path == "" {
		m.prompt = promptSaveAs
		m.promptInput = ""
		return nil
	}
	if err := buf.Save(); err != nil {
		m.status = "save failed: " + err.Error()
		slog.Error("save failed", "path", buf.Path, "err", err)
		return nil
	}
	m.status = "saved " + buf.Name()
	return nil
}

// startCompile kicks off a compile of the active document. At most one runs
// at a time; the compiling flag is only touched here and in handleCompileDone.
func (m Model) startCompile() (tea.Model, tea.Cmd) {
	if m.compiling {
		m.status = "compile already running"
		return m, nil
	}
	buf := m.activeBuf()
	if buf.Path == "" {
		m.status = "save the document before compiling"
		m.prompt = promptSaveAs
		m.promptInput = ""
		return m, nil
	}
	if buf.Modified {
		if err := buf.Save(); err != nil {
			m.status = "save failed: " + err.Error()
			return m, nil
		}
	}

	compiler := m.cfg.Compiler
	if compiler == "" {
		found, ok := m.locator.Locate()
		if !ok {
			m.status = "no LaTeX compiler found — try Install LaTeX Toolchain from the palette"
			return m, nil
		}
		compiler = found
	}

	m.compiling = true
	m.status = "compiling…"
	slog.Info("compile started", "document", buf.Path, "compiler", compiler)

	timeout := time.Duration(m.cfg.TimeoutS) * time.Second
	return m, compileCmd(tex.Request{
		Document: buf.Path,
		Compiler: compiler,
		Timeout:  timeout,
	})
}

func (m Model) handleCompileDone(res tex.Result) (tea.Model, tea.Cmd) {
	m.compiling = false
	m.lastResult = &res
	if m.logPane != nil {
		m.logPane.SetResult(res)
	}

	switch res.Status {
	case tex.StatusSucceeded:
		m.errorLines = nil
		m.lastGoodArtifact = res.Artifact
		m.status = "compiled ✓ " + filepath.Base(res.Artifact)
		slog.Info("compile succeeded", "artifact", res.Artifact)
		if m.panes.Get("preview") == nil {
			m.togglePreviewPane()
		} else {
			m.previewPane.Load(res.Artifact, false)
		}

	case tex.StatusTimedOut:
		m.status = "compile timed out"
		slog.Warn("compile timed out", "document", m.activeBuf().Path)
		m.toggleLogPaneOpen()

	default:
		report := tex.ParseLog(res.Log)
		m.errorLines = make(map[int]bool, len(report.Lines))
		for _, l := range report.Lines {
			m.errorLines[l] = true
		}
		m.status = "compile failed: " + report.FirstMessage()
		slog.Warn("compile failed", "exit", res.ExitCode)
		m.toggleLogPaneOpen()
		// An earlier artifact may still be on screen; mark it stale.
		if m.previewPane != nil && m.previewPane.Path() != "" {
			m.previewPane.Load(m.previewPane.Path(), true)
		}
	}
	return m, nil
}

// Pane toggles.

func (m *Model) removePane(id string) {
	m.panes.Remove(id)
}

func (m *Model) paneSlot(w, h int) (x, y int) {
	x = m.width - w - 2
	if x < 0 {
		x = 0
	}
	return x, 1
}

func (m *Model) toggleLogPane() {
	if m.panes.Get("log") != nil {
		m.removePane("log")
		return
	}
	m.toggleLogPaneOpen()
}

func (m *Model) toggleLogPaneOpen() {
	if m.panes.Get("log") != nil {
		return
	}
	if m.logPane == nil {
		m.logPane = NewLogPane()
		if m.lastResult != nil {
			m.logPane.SetResult(*m.lastResult)
		}
	}
	w, h := 60, max(m.height/2, 10)
	x, y := m.paneSlot(w, h)
	m.panes.Add(NewPane("log", m.logPane, x, y, w, h))
	m.panes.Focus("log")
}

func (m *Model) togglePreviewPane() {
	if m.panes.Get("preview") != nil {
		m.removePane("preview")
		return
	}
	if m.previewPane == nil {
		m.previewPane = NewPreviewPane()
	}
	if m.lastGoodArtifact != "" {
		stale := m.lastResult != nil && m.lastResult.Status != tex.StatusSucceeded
		m.previewPane.Load(m.lastGoodArtifact, stale)
	}
	w, h := max(m.width/2, 40), max(m.height-4, 10)
	x, y := m.paneSlot(w, h)
	m.panes.Add(NewPane("preview", m.previewPane, x, y, w, h))
	m.panes.Focus("preview")
}

func (m *Model) toggleTreePane() tea.Cmd {
	if m.panes.Get("tree") != nil {
		m.removePane("tree")
		return nil
	}
	if m.treePane == nil {
		m.status = "no project open"
		return nil
	}
	h := max(m.height-4, 10)
	m.panes.Add(NewPane("tree", m.treePane, 0, 1, 32, h))
	m.panes.Focus("tree")
	return m.treePane.Watch()
}

func (m *Model) toggleSearchPane() {
	if m.panes.Get("search") != nil {
		m.removePane("search")
		return
	}
	m.searchPane.SetBuffer(m.activeBuf())
	x, y := m.paneSlot(48, 9)
	m.panes.Add(NewPane("search", m.searchPane, x, y, 48, 9))
	m.panes.Focus("search")
}

func (m *Model) toggleAssistantPane() {
	if m.panes.Get("assistant") != nil {
		m.removePane("assistant")
		return
	}
	if m.assistantPane == nil {
		m.assistantPane = NewAssistantPane()
		m.assistantPane.AddAnswer("Ask about figures, citations, structure, compile errors or writing stats.")
	}
	w, h := 56, max(m.height/2, 12)
	x, y := m.paneSlot(w, h)
	m.panes.Add(NewPane("assistant", m.assistantPane, x, y, w, h))
	m.panes.Focus("assistant")
}

func (m *Model) toggleHelpPane() {
	if m.panes.Get("help") != nil {
		m.removePane("help")
		return
	}
	w, h := max(m.width*2/3, 50), max(m.height-4, 12)
	if m.helpPane == nil {
		m.helpPane = NewHelpPane(w - 2)
	}
	x, y := m.paneSlot(w, h)
	m.panes.Add(NewPane("help", m.helpPane, x, y, w, h))
	m.panes.Focus("help")
}

func (m *Model) togglePalette() {
	if m.panes.Get("palette") != nil {
		m.removePane("palette")
		return
	}
	cmds := defaultCommands()
	if m.store != nil {
		cmds = recentCommands(cmds, m.store.RecentFiles())
	}
	w, h := 64, max(m.height/2, 14)
	x := max((m.width-w)/2, 0)
	m.panes.Add(NewPane("palette", NewPalette(cmds), x, 1, w, h))
	m.panes.Focus("palette")
}

func (m *Model) closeTab() {
	if len(m.bufs) == 1 {
		m.status = "last tab stays open"
		return
	}
	m.bufs = append(m.bufs[:m.active], m.bufs[m.active+1:]...)
	if m.active >= len(m.bufs) {
		m.active = len(m.bufs) - 1
	}
	m.onTabSwitch()
}

// Palette actions.

func (m *Model) runAction(action string) tea.Cmd {
	switch {
	case strings.HasPrefix(action, actionTemplatePrefix):
		name := strings.TrimPrefix(action, actionTemplatePrefix)
		for _, t := range DocTemplates {
			if t.Name == name {
				m.activeBuf().SetText(t.Text)
				m.status = "applied " + name + " template"
				return m.noteEdit()
			}
		}
		return nil

	case strings.HasPrefix(action, actionSnippetPrefix):
		name := strings.TrimPrefix(action, actionSnippetPrefix)
		for _, s := range AllSnippets {
			if s.String() == name {
				m.activeBuf().InsertText(s.Template())
				m.status = "inserted " + name
				return m.noteEdit()
			}
		}
		return nil

	case strings.HasPrefix(action, actionRecentPrefix):
		m.openFile(strings.TrimPrefix(action, actionRecentPrefix))
		return nil
	}

	switch action {
	case ActionSave:
		return m.save()
	case ActionSaveAs:
		m.prompt = promptSaveAs
		m.promptInput = m.activeBuf().Path
	case ActionOpenFile:
		m.prompt = promptOpenFile
		m.promptInput = ""
	case ActionNewFile:
		m.bufs = append(m.bufs, NewBuffer())
		m.active = len(m.bufs) - 1
		m.onTabSwitch()
	case ActionNewProject:
		m.prompt = promptNewProject
		m.promptInput = ""
	case ActionOpenProject:
		m.prompt = promptOpenProject
		m.promptInput = ""
	case ActionCompile:
		var cmd tea.Cmd
		var mm tea.Model
		mm, cmd = m.startCompile()
		*m = mm.(Model)
		return cmd
	case ActionToggleLive:
		m.livePDF = !m.livePDF
	case ActionOpenExternal:
		if m.lastGoodArtifact == "" {
			m.status = "nothing compiled yet"
			return nil
		}
		if err := tex.OpenExternally(m.lastGoodArtifact); err != nil {
			m.status = "open failed: " + err.Error()
		}
	case ActionImportFigure:
		if m.project == nil {
			m.status = "figures need an open project"
			return nil
		}
		m.prompt = promptFigure
		m.promptInput = ""
	case ActionInstallTex:
		m.toggleLogPaneOpen()
		m.logPane.SetText("Toolchain Install", "running package manager, this can take a while…")
		return installCmd(m.locator)
	case ActionSearch:
		m.toggleSearchPane()
	case ActionAssistant:
		m.toggleAssistantPane()
	case ActionHelp:
		m.toggleHelpPane()
	case ActionQuit:
		return tea.Quit
	}
	return nil
}

// Prompt handling.

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.prompt = promptNone
		m.promptInput = ""
		return m, nil
	case tea.KeyEnter:
		kind, input := m.prompt, strings.TrimSpace(m.promptInput)
		m.prompt = promptNone
		m.promptInput = ""
		return m, m.finishPrompt(kind, input)
	case tea.KeyBackspace:
		if len(m.promptInput) > 0 {
			m.promptInput = trimLastRune(m.promptInput)
		}
		return m, nil
	case tea.KeySpace:
		m.promptInput += " "
		return m, nil
	default:
		if len(msg.Runes) > 0 {
			m.promptInput += string(msg.Runes)
		}
		return m, nil
	}
}

func (m *Model) finishPrompt(kind promptKind, input string) tea.Cmd {
	if input == "" {
		return nil
	}
	switch kind {
	case promptSaveAs:
		if err := m.activeBuf().SaveAs(input); err != nil {
			m.status = "save failed: " + err.Error()
			return nil
		}
		m.status = "saved " + m.activeBuf().Name()
		if m.store != nil {
			m.store.AddRecentFile(input)
		}

	case promptOpenFile:
		m.openFile(input)

	case promptNewProject:
		p, err := tex.CreateProject(filepath.Dir(input), filepath.Base(input))
		if err != nil {
			m.status = "new project failed: " + err.Error()
			return nil
		}
		m.setProject(p)
		if main, ok := p.MainTex(); ok {
			m.openFile(main)
		}
		m.status = "created project " + p.Root
		return m.treePane.Watch()

	case promptOpenProject:
		p, err := tex.OpenProject(input)
		if err != nil {
			m.status = "open project failed: " + err.Error()
			return nil
		}
		m.setProject(p)
		if main, ok := p.MainTex(); ok {
			m.openFile(main)
		}
		return m.treePane.Watch()

	case promptFigure:
		rel, err := m.project.ImportFigure(input)
		if err != nil {
			m.status = "import failed: " + err.Error()
			return nil
		}
		label := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
		m.activeBuf().InsertText(FigureSnippet(rel, label))
		m.status = "imported " + rel
		return m.noteEdit()
	}
	return nil
}

// Editor keys.

// noteEdit bumps the debounce sequence after a text change and, with live
// PDF on, schedules a recompile for when typing pauses.
func (m *Model) noteEdit() tea.Cmd {
	m.editSeq++
	m.errorLines = nil
	if !m.livePDF {
		return nil
	}
	after := time.Duration(m.cfg.DebounceMS) * time.Millisecond
	if after <= 0 {
		after = 500 * time.Millisecond
	}
	return debounceCmd(m.editSeq, after)
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buf := m.activeBuf()

	// Nav and deletion go through the configured bindings.
	switch {
	case key.Matches(msg, m.keys.Backspace):
		buf.DeleteBack()
		return m, m.noteEdit()
	case key.Matches(msg, m.keys.Delete):
		buf.DeleteForward()
		return m, m.noteEdit()
	case key.Matches(msg, m.keys.Up):
		buf.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		buf.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Left):
		buf.CursorLeft()
		return m, nil
	case key.Matches(msg, m.keys.Right):
		buf.CursorRight()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		buf.CursorHome()
		return m, nil
	case key.Matches(msg, m.keys.End):
		buf.CursorEnd()
		return m, nil
	case key.Matches(msg, m.keys.PgUp):
		buf.CursorPage(-m.editorHeight())
		return m, nil
	case key.Matches(msg, m.keys.PgDn):
		buf.CursorPage(m.editorHeight())
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		buf.InsertNewline()
		return m, m.noteEdit()
	case tea.KeyTab:
		buf.InsertText("    ")
		return m, m.noteEdit()
	case tea.KeySpace:
		buf.InsertRune(' ')
		return m, m.noteEdit()
	default:
		if len(msg.Runes) > 0 {
			for _, r := range msg.Runes {
				buf.InsertRune(r)
			}
			return m, m.noteEdit()
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Finish any drag in progress first.
	for _, id := range m.panes.zOrder {
		pane := m.panes.panes[id]
		if pane != nil && pane.dragMode != DragNone {
			switch msg.Type {
			case tea.MouseMotion:
				pane.UpdateDrag(msg.X, msg.Y, m.panes.screenW, m.panes.screenH)
				return m, nil
			case tea.MouseRelease:
				pane.StopDrag()
				return m, nil
			}
		}
	}

	pane := m.panes.PaneAt(msg.X, msg.Y)

	switch msg.Type {
	case tea.MouseLeft:
		if pane == nil {
			if fp := m.panes.FocusedPane(); fp != nil {
				fp.Focused = false
				m.panes.focusedID = ""
			}
			return m, nil
		}
		m.panes.Focus(pane.ID)
		switch zone := pane.HitZone(msg.X, msg.Y); zone {
		case ZoneTitleBar, ZoneCornerSE:
			pane.StartDrag(zone, msg.X, msg.Y)
		case ZoneContent:
			if pane.Content != nil {
				pane.Content.HandleMouse(msg.X-pane.X-1, msg.Y-pane.Y-1, msg)
				cmd := m.afterPaneKey(pane.ID)
				return m, cmd
			}
		}
		return m, nil

	case tea.MouseWheelUp, tea.MouseWheelDown:
		if pane != nil && pane.Content != nil {
			pane.Content.HandleMouse(msg.X-pane.X-1, msg.Y-pane.Y-1, msg)
			return m, nil
		}
		buf := m.activeBuf()
		if msg.Type == tea.MouseWheelUp {
			buf.CursorPage(-3)
		} else {
			buf.CursorPage(3)
		}
		return m, nil
	}

	return m, nil
}

// View.

func (m Model) editorHeight() int {
	h := m.height
	if h < 5 {
		h = 24
	}
	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = 4
	}
	// tab bar + status line + box borders
	return h - helpHeight - 4
}

func (m Model) View() string {
	w, h := m.width, m.height
	if w < 20 {
		w = 80
	}
	if h < 5 {
		h = 24
	}

	editorH := m.editorHeight()
	contentW := w - 2

	var sb strings.Builder
	sb.WriteString(m.renderTabBar(w))
	sb.WriteString("\n")
	sb.WriteString(m.renderBox(m.editorTitle(), m.renderEditor(contentW, editorH), contentW, editorH, m.cfg.Accent))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatus(w))

	base := sb.String()
	if m.panes.HasPanes() {
		base = m.panes.Render(base)
	}

	m.help.Width = w
	return base + "\n" + m.help.View(m.keys)
}

var (
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	statusLiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	gutterStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	gutterErrStyle   = lipgloss.NewStyle().Background(lipgloss.Color("203")).Foreground(lipgloss.Color("0")).Bold(true)
)

func (m Model) renderTabBar(w int) string {
	tabActiveStyle := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0")).Padding(0, 1)
	var parts []string
	for i, b := range m.bufs {
		name := b.Name()
		if b.Modified {
			name += " ●"
		}
		if i == m.active {
			parts = append(parts, tabActiveStyle.Render(name))
		} else {
			parts = append(parts, tabInactiveStyle.Render(name))
		}
	}
	return truncateRunes(strings.Join(parts, "│"), w)
}

func (m Model) editorTitle() string {
	title := m.activeBuf().Name()
	if m.project != nil {
		title = filepath.Base(m.project.Root) + "/" + title
	}
	return title
}

func (m Model) renderStatus(w int) string {
	if m.prompt != promptNone {
		prompt := promptLabels[m.prompt] + ": " + m.promptInput
		return truncateRunes(statusStyle.Render(prompt)+cursorStyle.Render(" "), w)
	}

	left := m.status
	var right []string
	if m.compiling {
		right = append(right, "⟳ compiling")
	}
	if m.livePDF {
		right = append(right, statusLiveStyle.Render("LIVE"))
	}
	buf := m.activeBuf()
	right = append(right, fmt.Sprintf("%d:%d", buf.CursorRow+1, buf.CursorCol+1))

	rightStr := strings.Join(right, "  ")
	pad := w - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if pad < 1 {
		return truncateRunes(statusStyle.Render(left), w)
	}
	return statusStyle.Render(left) + strings.Repeat(" ", pad) + rightStr
}

func (m Model) renderBox(title, content string, w, h int, color string) string {
	if color == "" {
		color = "62"
	}
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	titleStyle := borderStyle.Bold(true)

	dashes := w - len(title) - 3
	if dashes < 0 {
		dashes = 0
	}
	topBorder := borderStyle.Render("╭─ ") + titleStyle.Render(title) + borderStyle.Render(" "+strings.Repeat("─", dashes)+"╮")
	bottomBorder := borderStyle.Render("╰" + strings.Repeat("─", w) + "╯")

	contentLines := strings.Split(content, "\n")
	var sb strings.Builder
	sb.WriteString(topBorder)
	sb.WriteString("\n")
	for i := 0; i < h; i++ {
		line := ""
		if i < len(contentLines) {
			line = contentLines[i]
		}
		sb.WriteString(borderStyle.Render("│"))
		sb.WriteString(line)
		sb.WriteString(borderStyle.Render("│"))
		sb.WriteString("\n")
	}
	sb.WriteString(bottomBorder)
	return sb.String()
}

// renderEditor draws the visible slice of the active buffer with a line
// number gutter. The cursor line skips syntax highlighting so cursor
// placement stays a plain rune offset.
func (m Model) renderEditor(w, h int) string {
	buf := m.activeBuf()

	startLine := 0
	if buf.CursorRow >= h {
		startLine = buf.CursorRow - h + 1
	}

	gutterW := len(fmt.Sprintf("%d", len(buf.Lines))) + 1
	if gutterW < 4 {
		gutterW = 4
	}
	textW := w - gutterW - 1

	lines := make([]string, h)
	for i := 0; i < h; i++ {
		srcIdx := startLine + i
		if srcIdx >= len(buf.Lines) {
			lines[i] = strings.Repeat(" ", w)
			continue
		}

		num := fmt.Sprintf("%*d ", gutterW-1, srcIdx+1)
		gutter := gutterStyle.Render(num + "│")
		if m.errorLines[srcIdx] {
			gutter = gutterErrStyle.Render(num) + gutterStyle.Render("│")
		}

		text := buf.Lines[srcIdx]
		runes := []rune(text)

		if srcIdx == buf.CursorRow {
			col := min(buf.CursorCol, len(runes))
			maxLen := textW - 1
			if len(runes) > maxLen {
				runes = runes[:maxLen]
				if col > maxLen {
					col = maxLen
				}
			}
			var rendered string
			var visualLen int
			if col < len(runes) {
				rendered = string(runes[:col]) + cursorStyle.Render(string(runes[col])) + string(runes[col+1:])
				visualLen = len(runes)
			} else {
				rendered = string(runes) + cursorStyle.Render(" ")
				visualLen = len(runes) + 1
			}
			if visualLen < textW {
				rendered += strings.Repeat(" ", textW-visualLen)
			}
			lines[i] = gutter + rendered
		} else {
			if len(runes) > textW {
				runes = runes[:textW]
			}
			rendered := HighlightLine(string(runes))
			if pad := textW - len(runes); pad > 0 {
				rendered += strings.Repeat(" ", pad)
			}
			lines[i] = gutter + rendered
		}
	}

	return strings.Join(lines, "\n")
}
