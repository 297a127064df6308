package uitest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report collects assertion results and screen snapshots, written out as
// a markdown file per run
type Report struct {
	Timestamp string
	Results   []Result
	Snapshots []Snapshot
	OutputDir string
}

// Result is one named assertion outcome
type Result struct {
	Name   string
	Passed bool
}

// Snapshot is one captured screen
type Snapshot struct {
	Label   string
	Content string
}

// NewReport creates an empty report writing into outputDir
func NewReport(outputDir string) *Report {
	return &Report{
		Timestamp: time.Now().Format("20060102-150405"),
		OutputDir: outputDir,
	}
}

// AddResult records an assertion outcome
func (r *Report) AddResult(name string, passed bool) {
	r.Results = append(r.Results, Result{Name: name, Passed: passed})
}

// AddSnapshot records a captured screen
func (r *Report) AddSnapshot(label, content string) {
	r.Snapshots = append(r.Snapshots, Snapshot{Label: label, Content: content})
}

// Failed returns the count of failed assertions
func (r *Report) Failed() int {
	n := 0
	for _, t := range r.Results {
		if !t.Passed {
			n++
		}
	}
	return n
}

// Write saves the report as markdown and returns its path
func (r *Report) Write() (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# platex ui test %s\n\n", r.Timestamp)
	fmt.Fprintf(&sb, "%d checks, %d failed\n\n", len(r.Results), r.Failed())

	for _, t := range r.Results {
		mark := "x"
		if !t.Passed {
			mark = " "
		}
		fmt.Fprintf(&sb, "- [%s] %s\n", mark, t.Name)
	}

	for _, snap := range r.Snapshots {
		fmt.Fprintf(&sb, "\n## %s\n\n```\n%s\n```\n", snap.Label, strings.TrimRight(snap.Content, "\n"))
	}

	path := filepath.Join(r.OutputDir, fmt.Sprintf("run-%s.md", r.Timestamp))
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
