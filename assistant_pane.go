package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

// AssistantPane is a small Q&A transcript with an input line. Questions are
// answered off the UI loop; asking again while one is in flight cancels it.
type AssistantPane struct {
	viewport viewport.Model
	lines    []string
	input    string
	busy     bool
	dirty    bool

	// Question is the submitted query, cleared by the consumer
	Question string
}

// NewAssistantPane creates an empty assistant pane
func NewAssistantPane() *AssistantPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &AssistantPane{viewport: vp}
}

func askStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
}

var answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

// SetBusy marks whether an answer is in flight
func (a *AssistantPane) SetBusy(busy bool) {
	a.busy = busy
}

// AddQuestion appends the user's question to the transcript
func (a *AssistantPane) AddQuestion(q string) {
	a.lines = append(a.lines, askStyle().Render("you: ")+q)
	a.dirty = true
}

// AddAnswer appends a response to the transcript
func (a *AssistantPane) AddAnswer(text string) {
	a.lines = append(a.lines, answerStyle.Render(text), "")
	a.dirty = true
}

func (a *AssistantPane) Title() string {
	if a.busy {
		return "Assistant — thinking…"
	}
	return "Assistant"
}

func (a *AssistantPane) Render(w, h int) string {
	a.viewport.Width = w
	a.viewport.Height = max(h-2, 1)
	if a.dirty {
		var wrapped []string
		for _, l := range a.lines {
			wrapped = append(wrapped, l)
		}
		a.viewport.SetContent(strings.Join(wrapped, "\n"))
		a.viewport.GotoBottom()
		a.dirty = false
	}

	var sb strings.Builder
	sb.WriteString(a.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")
	sb.WriteString(askStyle().Render("> "))
	sb.WriteString(a.input)
	sb.WriteString(cursorStyle.Render(" "))
	return sb.String()
}

func (a *AssistantPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter:
		q := strings.TrimSpace(a.input)
		if q != "" {
			a.Question = q
			a.input = ""
		}
		return true
	case tea.KeyBackspace:
		if len(a.input) > 0 {
			a.input = trimLastRune(a.input)
		}
		return true
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return cmd != nil
	case tea.KeyEscape:
		return false
	}
	if len(msg.Runes) > 0 {
		a.input += string(msg.Runes)
		return true
	}
	return false
}

func (a *AssistantPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return cmd != nil
}
