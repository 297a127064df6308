package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Buffer is an in-memory editable document plus an optional backing file.
// Unsaved state exists only here; Save copies the full text to disk,
// overwriting prior content.
type Buffer struct {
	Path      string // empty for untitled buffers
	Lines     []string
	CursorRow int
	CursorCol int
	Modified  bool
}

// NewBuffer creates an empty untitled buffer.
func NewBuffer() *Buffer {
	return &Buffer{Lines: []string{""}}
}

// NewBufferFromText creates an untitled buffer holding the given text.
func NewBufferFromText(text string) *Buffer {
	b := NewBuffer()
	b.SetText(text)
	b.Modified = false
	return b
}

// LoadBuffer reads a file into a new buffer.
func LoadBuffer(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	b := &Buffer{Path: path}
	b.SetText(string(data))
	b.Modified = false
	return b, nil
}

// Name returns the display name for tab labels and titles.
func (b *Buffer) Name() string {
	if b.Path == "" {
		return "Untitled.tex"
	}
	return filepath.Base(b.Path)
}

// Text joins the buffer into a single string with trailing newline.
func (b *Buffer) Text() string {
	return strings.Join(b.Lines, "\n") + "\n"
}

// SetText replaces the whole buffer content and clamps the cursor.
func (b *Buffer) SetText(text string) {
	text = strings.TrimSuffix(text, "\n")
	b.Lines = strings.Split(text, "\n")
	if len(b.Lines) == 0 {
		b.Lines = []string{""}
	}
	if b.CursorRow >= len(b.Lines) {
		b.CursorRow = len(b.Lines) - 1
	}
	b.clampCol()
	b.Modified = true
}

// Save persists the buffer as a whole-file overwrite. The path must be set.
func (b *Buffer) Save() error {
	if b.Path == "" {
		return fmt.Errorf("buffer has no file path")
	}
	if err := os.WriteFile(b.Path, []byte(b.Text()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", b.Path, err)
	}
	b.Modified = false
	return nil
}

// SaveAs rebinds the buffer to a new path and persists it there. Subsequent
// compiles produce the artifact beside the new path.
func (b *Buffer) SaveAs(path string) error {
	b.Path = path
	return b.Save()
}

func (b *Buffer) currentLine() string {
	if b.CursorRow >= 0 && b.CursorRow < len(b.Lines) {
		return b.Lines[b.CursorRow]
	}
	return ""
}

func (b *Buffer) clampCol() {
	if n := len([]rune(b.currentLine())); b.CursorCol > n {
		b.CursorCol = n
	}
	if b.CursorCol < 0 {
		b.CursorCol = 0
	}
}

// InsertRune inserts one rune at the cursor.
func (b *Buffer) InsertRune(r rune) {
	runes := []rune(b.currentLine())
	col := b.CursorCol
	if col > len(runes) {
		col = len(runes)
	}
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:col]...)
	out = append(out, r)
	out = append(out, runes[col:]...)
	b.Lines[b.CursorRow] = string(out)
	b.CursorCol = col + 1
	b.Modified = true
}

// InsertText inserts a possibly multi-line string at the cursor, leaving the
// cursor after the inserted text. Used by snippet insertion.
func (b *Buffer) InsertText(text string) {
	parts := strings.Split(text, "\n")
	runes := []rune(b.currentLine())
	col := b.CursorCol
	if col > len(runes) {
		col = len(runes)
	}
	before := string(runes[:col])
	after := string(runes[col:])

	if len(parts) == 1 {
		b.Lines[b.CursorRow] = before + parts[0] + after
		b.CursorCol = len([]rune(before + parts[0]))
		b.Modified = true
		return
	}

	out := make([]string, 0, len(b.Lines)+len(parts)-1)
	out = append(out, b.Lines[:b.CursorRow]...)
	out = append(out, before+parts[0])
	out = append(out, parts[1:len(parts)-1]...)
	last := parts[len(parts)-1]
	out = append(out, last+after)
	out = append(out, b.Lines[b.CursorRow+1:]...)

	b.Lines = out
	b.CursorRow += len(parts) - 1
	b.CursorCol = len([]rune(last))
	b.Modified = true
}

// InsertNewline splits the current line at the cursor.
func (b *Buffer) InsertNewline() {
	runes := []rune(b.currentLine())
	col := b.CursorCol
	if col > len(runes) {
		col = len(runes)
	}
	before := string(runes[:col])
	after := string(runes[col:])

	out := make([]string, 0, len(b.Lines)+1)
	out = append(out, b.Lines[:b.CursorRow]...)
	out = append(out, before, after)
	out = append(out, b.Lines[b.CursorRow+1:]...)

	b.Lines = out
	b.CursorRow++
	b.CursorCol = 0
	b.Modified = true
}

// DeleteBack removes the rune before the cursor, joining lines at column 0.
func (b *Buffer) DeleteBack() {
	if b.CursorCol > 0 {
		runes := []rune(b.currentLine())
		col := b.CursorCol
		out := make([]rune, 0, len(runes)-1)
		out = append(out, runes[:col-1]...)
		out = append(out, runes[col:]...)
		b.Lines[b.CursorRow] = string(out)
		b.CursorCol--
		b.Modified = true
		return
	}
	if b.CursorRow > 0 {
		prev := b.Lines[b.CursorRow-1]
		b.CursorCol = len([]rune(prev))
		b.Lines[b.CursorRow-1] = prev + b.currentLine()
		b.Lines = append(b.Lines[:b.CursorRow], b.Lines[b.CursorRow+1:]...)
		b.CursorRow--
		b.Modified = true
	}
}

// DeleteForward removes the rune at the cursor, joining with the next line at
// end of line.
func (b *Buffer) DeleteForward() {
	runes := []rune(b.currentLine())
	if b.CursorCol < len(runes) {
		out := make([]rune, 0, len(runes)-1)
		out = append(out, runes[:b.CursorCol]...)
		out = append(out, runes[b.CursorCol+1:]...)
		b.Lines[b.CursorRow] = string(out)
		b.Modified = true
		return
	}
	if b.CursorRow < len(b.Lines)-1 {
		b.Lines[b.CursorRow] = b.currentLine() + b.Lines[b.CursorRow+1]
		b.Lines = append(b.Lines[:b.CursorRow+1], b.Lines[b.CursorRow+2:]...)
		b.Modified = true
	}
}

// Cursor movement. Left/Right wrap across line boundaries.

func (b *Buffer) CursorUp() {
	if b.CursorRow > 0 {
		b.CursorRow--
		b.clampCol()
	}
}

func (b *Buffer) CursorDown() {
	if b.CursorRow < len(b.Lines)-1 {
		b.CursorRow++
		b.clampCol()
	}
}

func (b *Buffer) CursorLeft() {
	if b.CursorCol > 0 {
		b.CursorCol--
	} else if b.CursorRow > 0 {
		b.CursorRow--
		b.CursorCol = len([]rune(b.currentLine()))
	}
}

func (b *Buffer) CursorRight() {
	if b.CursorCol < len([]rune(b.currentLine())) {
		b.CursorCol++
	} else if b.CursorRow < len(b.Lines)-1 {
		b.CursorRow++
		b.CursorCol = 0
	}
}

func (b *Buffer) CursorHome() { b.CursorCol = 0 }

func (b *Buffer) CursorEnd() { b.CursorCol = len([]rune(b.currentLine())) }

// CursorPage moves the cursor by n rows (negative = up), clamping.
func (b *Buffer) CursorPage(n int) {
	b.CursorRow += n
	if b.CursorRow < 0 {
		b.CursorRow = 0
	}
	if b.CursorRow >= len(b.Lines) {
		b.CursorRow = len(b.Lines) - 1
	}
	b.clampCol()
}

// GoToLine jumps to a 0-indexed line, clamping to the buffer.
func (b *Buffer) GoToLine(line int) {
	if line < 0 {
		line = 0
	}
	if line >= len(b.Lines) {
		line = len(b.Lines) - 1
	}
	b.CursorRow = line
	b.CursorCol = 0
}
