package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBufferInsertAndDelete(t *testing.T) {
	b := NewBuffer()
	for _, r := range "hello" {
		b.InsertRune(r)
	}
	if b.Lines[0] != "hello" || b.CursorCol != 5 {
		t.Fatalf("after insert: %q col=%d", b.Lines[0], b.CursorCol)
	}

	b.DeleteBack()
	if b.Lines[0] != "hell" {
		t.Errorf("after backspace: %q", b.Lines[0])
	}

	b.CursorHome()
	b.DeleteForward()
	if b.Lines[0] != "ell" {
		t.Errorf("after delete forward: %q", b.Lines[0])
	}
}

func TestBufferNewlineSplitAndJoin(t *testing.T) {
	b := NewBufferFromText("alpha beta")
	b.CursorCol = 5
	b.InsertNewline()
	if len(b.Lines) != 2 || b.Lines[0] != "alpha" || b.Lines[1] != " beta" {
		t.Fatalf("split: %v", b.Lines)
	}
	if b.CursorRow != 1 || b.CursorCol != 0 {
		t.Errorf("cursor = (%d,%d)", b.CursorRow, b.CursorCol)
	}

	// Backspace at column 0 joins with the previous line.
	b.DeleteBack()
	if len(b.Lines) != 1 || b.Lines[0] != "alpha beta" {
		t.Errorf("join: %v", b.Lines)
	}
	if b.CursorCol != 5 {
		t.Errorf("cursor col after join = %d", b.CursorCol)
	}
}

func TestBufferInsertMultilineText(t *testing.T) {
	b := NewBufferFromText("startend")
	b.CursorCol = 5
	b.InsertText("one\ntwo\nthree")
	want := []string{"startone", "two", "threeend"}
	if len(b.Lines) != 3 {
		t.Fatalf("lines = %v", b.Lines)
	}
	for i, w := range want {
		if b.Lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, b.Lines[i], w)
		}
	}
	if b.CursorRow != 2 || b.CursorCol != 5 {
		t.Errorf("cursor = (%d,%d), want (2,5)", b.CursorRow, b.CursorCol)
	}
}

func TestBufferCursorWrap(t *testing.T) {
	b := NewBufferFromText("ab\ncd")
	b.CursorEnd()
	b.CursorRight()
	if b.CursorRow != 1 || b.CursorCol != 0 {
		t.Errorf("right wrap: (%d,%d)", b.CursorRow, b.CursorCol)
	}
	b.CursorLeft()
	if b.CursorRow != 0 || b.CursorCol != 2 {
		t.Errorf("left wrap: (%d,%d)", b.CursorRow, b.CursorCol)
	}
}

func TestBufferSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.tex")
	b := NewBufferFromText("\\section{One}\ntext")
	if err := b.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	if b.Modified {
		t.Error("buffer still marked modified after save")
	}

	loaded, err := LoadBuffer(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Text() != b.Text() {
		t.Errorf("round trip: %q != %q", loaded.Text(), b.Text())
	}
}

func TestBufferSaveWithoutPathFails(t *testing.T) {
	if err := NewBuffer().Save(); err == nil {
		t.Error("save without a path succeeded")
	}
}

func TestBufferSaveAsRebindsArtifactLocation(t *testing.T) {
	dir := t.TempDir()
	b := NewBufferFromText("x")
	if err := b.SaveAs(filepath.Join(dir, "first.tex")); err != nil {
		t.Fatal(err)
	}
	next := filepath.Join(dir, "second.tex")
	if err := b.SaveAs(next); err != nil {
		t.Fatal(err)
	}
	if b.Path != next {
		t.Errorf("path = %q, want %q", b.Path, next)
	}
	if _, err := os.Stat(next); err != nil {
		t.Errorf("second path not written: %v", err)
	}
}

func TestBufferGoToLineClamps(t *testing.T) {
	b := NewBufferFromText("a\nb\nc")
	b.GoToLine(99)
	if b.CursorRow != 2 {
		t.Errorf("row = %d, want 2", b.CursorRow)
	}
	b.GoToLine(-1)
	if b.CursorRow != 0 {
		t.Errorf("row = %d, want 0", b.CursorRow)
	}
}
