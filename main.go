package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"platex/tex"
)

func main() {
	projectDir := flag.String("project", "", "project directory to open")
	logFile := flag.String("log", "", "write a debug log to this file")
	flag.Parse()

	setupLogging(*logFile)

	store, err := OpenStore(DefaultStorePath())
	if err != nil {
		// A broken state db shouldn't keep the editor from starting.
		slog.Warn("state db unavailable", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	var project *tex.Project
	dir := *projectDir
	if dir == "" && store != nil {
		if last, ok := store.LastProject(); ok {
			dir = last
		}
	}
	if dir != "" {
		p, err := tex.OpenProject(dir)
		if err != nil {
			if *projectDir != "" {
				fmt.Fprintf(os.Stderr, "cannot open project %s: %v\n", dir, err)
				os.Exit(1)
			}
			// The remembered project moved or was deleted; start empty.
			slog.Warn("last project unavailable", "dir", dir, "err", err)
		} else {
			project = p
		}
	}

	// Files named on the command line open as extra tabs.
	m := NewModel(LoadConfig(), project, store)
	for _, path := range flag.Args() {
		m.openFile(path)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "platex: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends slog output to the given file, or discards it. The TUI
// owns the terminal, so logs never go to stderr while running.
func setupLogging(path string) {
	var w io.Writer = io.Discard
	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			w = f
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
