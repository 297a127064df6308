package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"platex/tex"
)

// LogPane displays the output of the most recent compile run
type LogPane struct {
	viewport viewport.Model
	title    string
	summary  string
	text     string
	dirty    bool
}

// NewLogPane creates an empty compile log pane
func NewLogPane() *LogPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &LogPane{viewport: vp, title: "Compile Log"}
}

// SetResult replaces the pane content with the outcome of a compile run
func (l *LogPane) SetResult(res tex.Result) {
	l.text = res.Log
	l.dirty = true

	switch res.Status {
	case tex.StatusSucceeded:
		l.title = "Compile Log — ok"
		l.summary = ""
	case tex.StatusTimedOut:
		l.title = "Compile Log — timed out"
		l.summary = "Compilation timed out. Check for missing packages or an endless loop."
	default:
		l.title = "Compile Log — failed"
		report := tex.ParseLog(res.Log)
		l.summary = report.FirstMessage()
	}
}

// SetText replaces the pane content with arbitrary text, e.g. install output
func (l *LogPane) SetText(title, text string) {
	l.title = title
	l.summary = ""
	l.text = text
	l.dirty = true
}

func (l *LogPane) Title() string {
	return l.title
}

var logSummaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)

func (l *LogPane) Render(w, h int) string {
	var sb strings.Builder
	if l.summary != "" {
		sb.WriteString(logSummaryStyle.Render(truncateRunes(l.summary, w)))
		sb.WriteString("\n")
		h--
	}
	if h < 1 {
		h = 1
	}

	l.viewport.Width = w
	l.viewport.Height = h
	if l.dirty {
		l.viewport.SetContent(l.text)
		l.viewport.GotoBottom()
		l.dirty = false
	}
	sb.WriteString(l.viewport.View())
	return sb.String()
}

func (l *LogPane) HandleKey(msg tea.KeyMsg) bool {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd != nil
}

func (l *LogPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return cmd != nil
}

func truncateRunes(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w < 1 {
		return ""
	}
	return string(runes[:w-1]) + "…"
}
