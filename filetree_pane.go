package main

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fsnotify/fsnotify"
)

// treeChangedMsg is emitted when something under the project root changes
type treeChangedMsg struct{}

type treeEntry struct {
	path  string // absolute
	name  string
	depth int
	isDir bool
}

// FileTreePane lists the project directory and follows filesystem changes
type FileTreePane struct {
	root     string
	entries  []treeEntry
	selected int
	scroll   int
	watcher  *fsnotify.Watcher

	// OpenRequest is the absolute path of a file chosen with Enter,
	// cleared by the consumer.
	OpenRequest string
}

// NewFileTreePane builds a tree rooted at the project directory. The watcher
// is best effort: on platforms where it can't be created the tree still works,
// it just won't auto-refresh.
func NewFileTreePane(root string) *FileTreePane {
	t := &FileTreePane{root: root}
	if w, err := fsnotify.NewWatcher(); err == nil {
		t.watcher = w
	}
	t.Refresh()
	return t
}

// Refresh re-walks the project directory and re-arms the watcher
func (t *FileTreePane) Refresh() {
	var entries []treeEntry
	filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if path != t.root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == t.root {
			if t.watcher != nil {
				t.watcher.Add(path)
			}
			return nil
		}
		if d.IsDir() && t.watcher != nil {
			t.watcher.Add(path)
		}
		rel, _ := filepath.Rel(t.root, path)
		entries = append(entries, treeEntry{
			path:  path,
			name:  name,
			depth: strings.Count(rel, string(filepath.Separator)),
			isDir: d.IsDir(),
		})
		return nil
	})

	// Directories before files at each level, then by name.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].path < entries[j].path
	})
	t.entries = entries
	if t.selected >= len(t.entries) {
		t.selected = max(len(t.entries)-1, 0)
	}
}

// Watch returns a command that delivers the next filesystem event. The model
// re-issues it after each treeChangedMsg.
func (t *FileTreePane) Watch() tea.Cmd {
	if t.watcher == nil {
		return nil
	}
	w := t.watcher
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				// Editor swap files and temp artifacts churn constantly;
				// only structural ops warrant a rebuild.
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					return treeChangedMsg{}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

// Close releases the filesystem watcher
func (t *FileTreePane) Close() {
	if t.watcher != nil {
		t.watcher.Close()
	}
}

func (t *FileTreePane) Title() string {
	return filepath.Base(t.root)
}

var treeDirStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)

func (t *FileTreePane) Render(w, h int) string {
	treeSelectedStyle := lipgloss.NewStyle().Background(AccentColor).Foreground(lipgloss.Color("0"))
	if len(t.entries) == 0 {
		return "(empty project)"
	}

	// Keep selection visible.
	if t.selected < t.scroll {
		t.scroll = t.selected
	}
	if t.selected >= t.scroll+h {
		t.scroll = t.selected - h + 1
	}

	var sb strings.Builder
	shown := 0
	for i := t.scroll; i < len(t.entries) && shown < h; i++ {
		e := t.entries[i]
		label := strings.Repeat("  ", e.depth) + e.name
		if e.isDir {
			label += "/"
		}
		label = truncateRunes(label, w)
		switch {
		case i == t.selected:
			label = treeSelectedStyle.Render(label)
		case e.isDir:
			label = treeDirStyle.Render(label)
		}
		sb.WriteString(label)
		shown++
		if shown < h {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *FileTreePane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if t.selected > 0 {
			t.selected--
		}
		return true
	case tea.KeyDown:
		if t.selected < len(t.entries)-1 {
			t.selected++
		}
		return true
	case tea.KeyEnter:
		if t.selected < len(t.entries) && !t.entries[t.selected].isDir {
			t.OpenRequest = t.entries[t.selected].path
		}
		return true
	}
	return false
}

func (t *FileTreePane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	if msg.Button == tea.MouseButtonLeft {
		idx := t.scroll + y
		if idx >= 0 && idx < len(t.entries) {
			if idx == t.selected && !t.entries[idx].isDir {
				t.OpenRequest = t.entries[idx].path
			}
			t.selected = idx
			return true
		}
	}
	return false
}
