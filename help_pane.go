package main

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed help.md
var builtinHelpMD string

// HelpTopic is one row of the optional help database
type HelpTopic struct {
	Topic string
	Title string
}

// HelpPane shows a LaTeX quick reference. With a help database (built by
// cmd/bundle-help) it offers a topic index; without one it falls back to the
// embedded single-page reference.
type HelpPane struct {
	db       *sql.DB
	topics   []HelpTopic
	selected int
	showing  bool // true when displaying a topic, false on the index
	title    string
	lines    []string
	scroll   int
	width    int
}

// helpDBPaths lists where a bundled help database may live
func helpDBPaths() []string {
	return []string{
		"latex-help.db",
		filepath.Join(os.Getenv("HOME"), ".config", "platex", "latex-help.db"),
	}
}

// NewHelpPane creates the help pane, preferring a topic database when present
func NewHelpPane(width int) *HelpPane {
	hp := &HelpPane{width: width, title: "LaTeX Help"}

	for _, path := range helpDBPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			continue
		}
		topics, err := loadHelpTopics(db)
		if err != nil || len(topics) == 0 {
			db.Close()
			continue
		}
		hp.db = db
		hp.topics = topics
		return hp
	}

	hp.showContent("LaTeX Help", builtinHelpMD)
	return hp
}

func loadHelpTopics(db *sql.DB) ([]HelpTopic, error) {
	rows, err := db.Query("SELECT topic, title FROM topics ORDER BY topic")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []HelpTopic
	for rows.Next() {
		var t HelpTopic
		if err := rows.Scan(&t.Topic, &t.Title); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// Close releases the help database, if open
func (hp *HelpPane) Close() {
	if hp.db != nil {
		hp.db.Close()
	}
}

// RenderMarkdown pre-renders markdown for terminal display at the given width
func RenderMarkdown(markdown string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func (hp *HelpPane) showContent(title, markdown string) {
	rendered := RenderMarkdown(markdown, hp.width)
	hp.title = title
	hp.lines = strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	hp.scroll = 0
	hp.showing = true
}

func (hp *HelpPane) openTopic(topic HelpTopic) {
	var content string
	err := hp.db.QueryRow("SELECT content FROM topics WHERE topic = ?", topic.Topic).Scan(&content)
	if err != nil {
		return
	}
	hp.showContent(topic.Title, content)
}

func (hp *HelpPane) Title() string {
	if hp.showing && hp.db != nil {
		return "← " + hp.title
	}
	return hp.title
}

func (hp *HelpPane) Render(w, h int) string {
	hp.width = w
	if !hp.showing {
		return hp.renderIndex(w, h)
	}

	var sb strings.Builder
	end := min(hp.scroll+h, len(hp.lines))
	for i := hp.scroll; i < end; i++ {
		sb.WriteString(hp.lines[i])
		if i < end-1 {
			sb.WriteRune('\n')
		}
	}
	if len(hp.lines) > h {
		sb.WriteRune('\n')
		pos := fmt.Sprintf(" %d/%d ", hp.scroll+1, len(hp.lines))
		if pad := w - len(pos); pad > 0 {
			sb.WriteString(strings.Repeat("─", pad))
		}
		sb.WriteString(pos)
	}
	return sb.String()
}

func (hp *HelpPane) renderIndex(w, h int) string {
	selStyle := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0"))
	var sb strings.Builder
	shown := 0
	for i, t := range hp.topics {
		if shown >= h {
			break
		}
		line := truncateRunes(t.Title, w)
		if i == hp.selected {
			line = selStyle.Render(line)
		}
		sb.WriteString(line)
		shown++
		if shown < h {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (hp *HelpPane) HandleKey(msg tea.KeyMsg) bool {
	if !hp.showing {
		switch msg.Type {
		case tea.KeyUp:
			if hp.selected > 0 {
				hp.selected--
			}
			return true
		case tea.KeyDown:
			if hp.selected < len(hp.topics)-1 {
				hp.selected++
			}
			return true
		case tea.KeyEnter:
			if hp.selected < len(hp.topics) {
				hp.openTopic(hp.topics[hp.selected])
			}
			return true
		}
		return false
	}

	switch msg.Type {
	case tea.KeyUp:
		hp.scrollBy(-1)
	case tea.KeyDown:
		hp.scrollBy(1)
	case tea.KeyPgUp:
		hp.scrollBy(-20)
	case tea.KeyPgDown:
		hp.scrollBy(20)
	case tea.KeyBackspace:
		if hp.db != nil {
			hp.showing = false
		}
	default:
		if len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'j':
				hp.scrollBy(1)
			case 'k':
				hp.scrollBy(-1)
			default:
				return false
			}
		} else {
			return false
		}
	}
	return true
}

func (hp *HelpPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	switch msg.Type {
	case tea.MouseWheelUp:
		hp.scrollBy(-3)
		return true
	case tea.MouseWheelDown:
		hp.scrollBy(3)
		return true
	}
	return false
}

func (hp *HelpPane) scrollBy(n int) {
	hp.scroll = clamp(hp.scroll+n, 0, max(len(hp.lines)-10, 0))
}
