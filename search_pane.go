package main

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
)

type searchField int

const (
	fieldFind searchField = iota
	fieldReplace
)

// SearchPane is find & replace over the active buffer. Plain searches are
// case-insensitive; regex mode passes the pattern through as written.
type SearchPane struct {
	buf      *Buffer
	find     string
	replace  string
	field    searchField
	useRegex bool
	status   string
	matchLen int // length of the match under the cursor, 0 if none
}

// NewSearchPane creates a search pane bound to the given buffer
func NewSearchPane(buf *Buffer) *SearchPane {
	return &SearchPane{buf: buf}
}

// SetBuffer rebinds the pane when the active tab changes
func (s *SearchPane) SetBuffer(buf *Buffer) {
	s.buf = buf
	s.matchLen = 0
}

// matcher compiles the current query. Literal mode quotes the query and adds
// case folding.
func (s *SearchPane) matcher() (*regexp.Regexp, error) {
	if s.find == "" {
		return nil, fmt.Errorf("empty search")
	}
	if s.useRegex {
		return regexp.Compile(s.find)
	}
	return regexp.Compile("(?i)" + regexp.QuoteMeta(s.find))
}

// FindNext moves the buffer cursor to the next match, wrapping at the end.
// Returns false when the document has no match.
func (s *SearchPane) FindNext() bool {
	re, err := s.matcher()
	if err != nil {
		s.status = "bad pattern: " + err.Error()
		s.matchLen = 0
		return false
	}

	rows := len(s.buf.Lines)
	startRow := s.buf.CursorRow
	startCol := s.buf.CursorCol + max(s.matchLen, 1) - 1
	if s.matchLen == 0 {
		startCol = s.buf.CursorCol
	}

	for i := 0; i <= rows; i++ {
		row := (startRow + i) % rows
		line := s.buf.Lines[row]
		from := 0
		if i == 0 {
			from = min(startCol+1, len(line))
		}
		if loc := re.FindStringIndex(line[from:]); loc != nil {
			s.buf.CursorRow = row
			s.buf.CursorCol = from + loc[0]
			s.matchLen = loc[1] - loc[0]
			s.status = fmt.Sprintf("match at line %d", row+1)
			return true
		}
	}

	s.status = "no matches"
	s.matchLen = 0
	return false
}

// FindPrev moves the buffer cursor to the previous match, wrapping at the top
func (s *SearchPane) FindPrev() bool {
	re, err := s.matcher()
	if err != nil {
		s.status = "bad pattern: " + err.Error()
		s.matchLen = 0
		return false
	}

	rows := len(s.buf.Lines)
	for i := 0; i <= rows; i++ {
		row := ((s.buf.CursorRow-i)%rows + rows) % rows
		line := s.buf.Lines[row]
		limit := len(line)
		if i == 0 {
			limit = min(s.buf.CursorCol, len(line))
		}
		locs := re.FindAllStringIndex(line[:limit], -1)
		if len(locs) == 0 {
			continue
		}
		loc := locs[len(locs)-1]
		s.buf.CursorRow = row
		s.buf.CursorCol = loc[0]
		s.matchLen = loc[1] - loc[0]
		s.status = fmt.Sprintf("match at line %d", row+1)
		return true
	}

	s.status = "no matches"
	s.matchLen = 0
	return false
}

// ReplaceCurrent replaces the match under the cursor, if any, then advances
// to the next one
func (s *SearchPane) ReplaceCurrent() bool {
	re, err := s.matcher()
	if err != nil {
		s.status = "bad pattern: " + err.Error()
		return false
	}

	row, col := s.buf.CursorRow, s.buf.CursorCol
	line := s.buf.Lines[row]
	loc := re.FindStringIndex(line[col:])
	if loc == nil || loc[0] != 0 {
		// Nothing under the cursor; just seek.
		return s.FindNext()
	}

	repl := s.replacement(re, line[col:col+loc[1]])
	s.buf.Lines[row] = line[:col] + repl + line[col+loc[1]:]
	s.buf.CursorCol = col + len(repl)
	s.buf.Modified = true
	s.matchLen = 0
	s.FindNext()
	return true
}

// ReplaceAll replaces every match in the buffer and reports the count
func (s *SearchPane) ReplaceAll() int {
	re, err := s.matcher()
	if err != nil {
		s.status = "bad pattern: " + err.Error()
		return 0
	}

	count := 0
	for i, line := range s.buf.Lines {
		matches := re.FindAllStringIndex(line, -1)
		if len(matches) == 0 {
			continue
		}
		count += len(matches)
		s.buf.Lines[i] = re.ReplaceAllStringFunc(line, func(m string) string {
			return s.replacement(re, m)
		})
	}
	if count > 0 {
		s.buf.Modified = true
		s.buf.clampCol()
	}
	s.matchLen = 0
	s.status = fmt.Sprintf("replaced %d occurrence(s)", count)
	return count
}

// replacement expands $1-style group references in regex mode
func (s *SearchPane) replacement(re *regexp.Regexp, match string) string {
	if !s.useRegex {
		return s.replace
	}
	var out []byte
	sub := re.FindStringSubmatchIndex(match)
	return string(re.ExpandString(out, s.replace, match, sub))
}

func (s *SearchPane) Title() string {
	return "Find & Replace"
}

var searchLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

func (s *SearchPane) Render(w, h int) string {
	var sb strings.Builder

	renderField := func(label, val string, active bool) {
		sb.WriteString(searchLabelStyle.Render(label))
		sb.WriteString(val)
		if active {
			sb.WriteString(cursorStyle.Render(" "))
		}
		sb.WriteString("\n")
	}
	renderField("find:    ", s.find, s.field == fieldFind)
	renderField("replace: ", s.replace, s.field == fieldReplace)

	mode := "plain"
	if s.useRegex {
		mode = "regex"
	}
	sb.WriteString(searchLabelStyle.Render(fmt.Sprintf("mode: %s  (^e toggles)", mode)))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", w))
	sb.WriteString("\n")
	sb.WriteString(truncateRunes(s.status, w))
	sb.WriteString("\n")
	sb.WriteString(searchLabelStyle.Render(truncateRunes("enter next · ^p prev · ^y replace · ^a replace all · tab field", w)))
	return sb.String()
}

func (s *SearchPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "tab":
		if s.field == fieldFind {
			s.field = fieldReplace
		} else {
			s.field = fieldFind
		}
		return true
	case "enter":
		s.FindNext()
		return true
	case "ctrl+p":
		s.FindPrev()
		return true
	case "ctrl+y":
		s.ReplaceCurrent()
		return true
	case "ctrl+a":
		s.ReplaceAll()
		return true
	case "ctrl+e":
		s.useRegex = !s.useRegex
		s.matchLen = 0
		return true
	case "backspace":
		if s.field == fieldFind && len(s.find) > 0 {
			s.find = trimLastRune(s.find)
			s.matchLen = 0
		} else if s.field == fieldReplace && len(s.replace) > 0 {
			s.replace = trimLastRune(s.replace)
		}
		return true
	case "esc":
		return false
	}
	if len(msg.Runes) > 0 {
		if s.field == fieldFind {
			s.find += string(msg.Runes)
			s.matchLen = 0
		} else {
			s.replace += string(msg.Runes)
		}
		return true
	}
	return false
}

func (s *SearchPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft {
		if y == 0 {
			s.field = fieldFind
		} else if y == 1 {
			s.field = fieldReplace
		}
		return true
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
