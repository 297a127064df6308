package main

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// Palette action identifiers. The model switches on these after selection.
const (
	ActionSave         = "save"
	ActionSaveAs       = "save-as"
	ActionOpenFile     = "open-file"
	ActionNewFile      = "new-file"
	ActionNewProject   = "new-project"
	ActionOpenProject  = "open-project"
	ActionCompile      = "compile"
	ActionToggleLive   = "toggle-live"
	ActionOpenExternal = "open-external"
	ActionImportFigure = "import-figure"
	ActionInstallTex   = "install-toolchain"
	ActionSearch       = "search"
	ActionAssistant    = "assistant"
	ActionHelp         = "help"
	ActionQuit         = "quit"

	actionTemplatePrefix = "template:"
	actionSnippetPrefix  = "snippet:"
	actionRecentPrefix   = "recent:"
)

// Command is one palette entry
type Command struct {
	Name   string
	Help   string
	Action string
}

// defaultCommands builds the full palette: editor actions, document
// templates, and one entry per snippet.
func defaultCommands() []Command {
	cmds := []Command{
		{"Save", "write the active document", ActionSave},
		{"Save As…", "write the active document to a new path", ActionSaveAs},
		{"Open File…", "open a .tex file in a new tab", ActionOpenFile},
		{"New File", "open an empty tab", ActionNewFile},
		{"New Project…", "scaffold main.tex, references.bib and images/", ActionNewProject},
		{"Open Project…", "open a directory containing .tex files", ActionOpenProject},
		{"Compile", "run the LaTeX toolchain on the active document", ActionCompile},
		{"Toggle Live PDF", "recompile automatically after edits pause", ActionToggleLive},
		{"Open PDF Externally", "view the artifact in the system PDF viewer", ActionOpenExternal},
		{"Import Figure…", "copy an image into images/ and insert a figure", ActionImportFigure},
		{"Install LaTeX Toolchain", "best-effort MiKTeX/TeX Live install", ActionInstallTex},
		{"Find & Replace", "search within the active document", ActionSearch},
		{"Assistant", "ask about figures, references or compiling", ActionAssistant},
		{"LaTeX Help", "quick reference for common environments", ActionHelp},
		{"Quit", "exit platex", ActionQuit},
	}
	for _, t := range DocTemplates {
		cmds = append(cmds, Command{
			Name:   "Template: " + t.Name,
			Help:   "replace the tab contents with a " + strings.ToLower(t.Name) + " skeleton",
			Action: actionTemplatePrefix + t.Name,
		})
	}
	for _, s := range AllSnippets {
		cmds = append(cmds, Command{
			Name:   "Insert: " + s.String(),
			Help:   s.Help(),
			Action: actionSnippetPrefix + s.String(),
		})
	}
	return cmds
}

// recentCommands appends one open entry per recently opened file.
func recentCommands(cmds []Command, recent []string) []Command {
	for _, path := range recent {
		cmds = append(cmds, Command{
			Name:   "Recent: " + filepath.Base(path),
			Help:   path,
			Action: actionRecentPrefix + path,
		})
	}
	return cmds
}

// Palette is a fuzzy-ish filtered command list shown in a floating pane
type Palette struct {
	commands []Command
	filtered []Command
	query    string
	selected int
	scroll   int

	// Selected is the action of the chosen entry, cleared by the consumer
	Selected string
}

// NewPalette creates a palette over the given commands
func NewPalette(commands []Command) *Palette {
	return &Palette{commands: commands, filtered: commands}
}

func (p *Palette) filter() {
	if p.query == "" {
		p.filtered = p.commands
	} else {
		q := strings.ToLower(p.query)
		p.filtered = nil
		for _, cmd := range p.commands {
			if strings.Contains(strings.ToLower(cmd.Name), q) ||
				strings.Contains(strings.ToLower(cmd.Help), q) {
				p.filtered = append(p.filtered, cmd)
			}
		}
	}
	p.selected = clamp(p.selected, 0, max(len(p.filtered)-1, 0))
	p.scroll = 0
}

func (p *Palette) Title() string {
	return "Commands"
}

var paletteHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

func (p *Palette) Render(w, h int) string {
	var sb strings.Builder

	prompt := lipgloss.NewStyle().Foreground(AccentColor)
	sb.WriteString(prompt.Render(": "))
	sb.WriteString(p.query)
	sb.WriteString(cursorStyle.Render(" "))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")

	listH := max(h-2, 1)
	if p.selected >= p.scroll+listH {
		p.scroll = p.selected - listH + 1
	}
	if p.selected < p.scroll {
		p.scroll = p.selected
	}

	selectedStyle := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0"))
	nameW := max(w/3, 14)

	shown := 0
	for i := p.scroll; i < len(p.filtered) && shown < listH; i++ {
		cmd := p.filtered[i]
		name := padRight(truncateRunes(cmd.Name, nameW), nameW)
		if i == p.selected {
			name = selectedStyle.Render(name)
		}
		sb.WriteString(name + " " + paletteHelpStyle.Render(truncateRunes(cmd.Help, max(w-nameW-1, 0))))
		shown++
		if shown < listH {
			sb.WriteString("\n")
		}
	}
	for shown < listH {
		sb.WriteString(strings.Repeat(" ", w))
		shown++
		if shown < listH {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func (p *Palette) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if p.selected > 0 {
			p.selected--
		}
		return true
	case tea.KeyDown:
		if p.selected < len(p.filtered)-1 {
			p.selected++
		}
		return true
	case tea.KeyEnter:
		if p.selected >= 0 && p.selected < len(p.filtered) {
			p.Selected = p.filtered[p.selected].Action
		}
		return true
	case tea.KeyBackspace:
		if len(p.query) > 0 {
			p.query = trimLastRune(p.query)
			p.filter()
		}
		return true
	case tea.KeyEscape:
		return false
	default:
		if len(msg.Runes) > 0 {
			p.query += string(msg.Runes)
			p.filter()
			return true
		}
	}
	return false
}

func (p *Palette) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft && y >= 2 {
		idx := p.scroll + y - 2
		if idx >= 0 && idx < len(p.filtered) {
			p.selected = idx
			p.Selected = p.filtered[idx].Action
			return true
		}
	}
	return false
}
