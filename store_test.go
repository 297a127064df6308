package main

import (
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecentFilesOrderAndDedupe(t *testing.T) {
	s := openTestStore(t)

	for _, p := range []string{"/tmp/a.tex", "/tmp/b.tex", "/tmp/a.tex"} {
		if err := s.AddRecentFile(p); err != nil {
			t.Fatal(err)
		}
	}

	got := s.RecentFiles()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got[0] != "/tmp/a.tex" || got[1] != "/tmp/b.tex" {
		t.Errorf("order = %v", got)
	}
}

func TestRecentFilesCapped(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < maxRecentFiles+5; i++ {
		if err := s.AddRecentFile(fmt.Sprintf("/tmp/doc%02d.tex", i)); err != nil {
			t.Fatal(err)
		}
	}

	got := s.RecentFiles()
	if len(got) != maxRecentFiles {
		t.Fatalf("len = %d, want %d", len(got), maxRecentFiles)
	}
	if got[0] != fmt.Sprintf("/tmp/doc%02d.tex", maxRecentFiles+4) {
		t.Errorf("front = %q", got[0])
	}
}

func TestLastProjectRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, ok := s.LastProject(); ok {
		t.Error("fresh store should have no last project")
	}
	if err := s.SetLastProject("/home/user/thesis"); err != nil {
		t.Fatal(err)
	}
	dir, ok := s.LastProject()
	if !ok || dir != "/home/user/thesis" {
		t.Errorf("got %q, %v", dir, ok)
	}
}

func TestStoreReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddRecentFile("/tmp/kept.tex"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got := s2.RecentFiles()
	if len(got) != 1 || got[0] != "/tmp/kept.tex" {
		t.Errorf("got %v", got)
	}
}
