// Package uitest drives the editor inside a tmux session for integration
// testing: real terminal, real key events, screen-scrape assertions.
package uitest

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Session wraps a tmux session running the program under test
type Session struct {
	Name   string
	Width  int
	Height int
}

// RequireTmux reports whether tmux is available; tests skip without it
func RequireTmux() error {
	if _, err := exec.LookPath("tmux"); err != nil {
		return fmt.Errorf("tmux not installed: %w", err)
	}
	return nil
}

// NewSession creates a detached tmux session of the given size running cmd
func NewSession(name string, width, height int, cmd string) (*Session, error) {
	s := &Session{Name: name, Width: width, Height: height}

	// A leftover session from a crashed run would shadow this one.
	exec.Command("tmux", "kill-session", "-t", name).Run()

	args := []string{
		"new-session", "-d",
		"-s", name,
		"-x", fmt.Sprintf("%d", width),
		"-y", fmt.Sprintf("%d", height),
		cmd,
	}
	if err := exec.Command("tmux", args...).Run(); err != nil {
		return nil, fmt.Errorf("create tmux session: %w", err)
	}
	return s, nil
}

// Close kills the tmux session
func (s *Session) Close() error {
	return exec.Command("tmux", "kill-session", "-t", s.Name).Run()
}

// SendKeys sends keys to the session. Key names follow tmux conventions:
// "C-s", "Enter", "Escape", or literal text.
func (s *Session) SendKeys(keys ...string) error {
	args := append([]string{"send-keys", "-t", s.Name}, keys...)
	return exec.Command("tmux", args...).Run()
}

// Type sends literal text without tmux key-name interpretation
func (s *Session) Type(text string) error {
	return exec.Command("tmux", "send-keys", "-t", s.Name, "-l", text).Run()
}

// Capture returns the current pane content as plain text
func (s *Session) Capture() (string, error) {
	out, err := exec.Command("tmux", "capture-pane", "-t", s.Name, "-p").Output()
	if err != nil {
		return "", fmt.Errorf("capture pane: %w", err)
	}
	return string(out), nil
}

// WaitFor polls until the screen contains the literal pattern
func (s *Session) WaitFor(pattern string, timeout time.Duration) error {
	return s.wait(timeout, pattern, func(content string) bool {
		return strings.Contains(content, pattern)
	})
}

// WaitForRegex polls until the screen matches the regular expression
func (s *Session) WaitForRegex(pattern string, timeout time.Duration) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	return s.wait(timeout, pattern, re.MatchString)
}

func (s *Session) wait(timeout time.Duration, pattern string, match func(string) bool) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		content, err := s.Capture()
		if err != nil {
			return err
		}
		if match(content) {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	content, _ := s.Capture()
	return fmt.Errorf("timeout waiting for %q\nCurrent screen:\n%s", pattern, content)
}

// Contains reports whether the screen currently shows the pattern
func (s *Session) Contains(pattern string) (bool, error) {
	content, err := s.Capture()
	if err != nil {
		return false, err
	}
	return strings.Contains(content, pattern), nil
}

// StubCompiler writes a fake latexmk into dir that emits a minimal valid PDF
// next to its input, so compile flows can be exercised without TeX installed.
// Returns the directory to prepend to PATH.
func StubCompiler(dir string) (string, error) {
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", err
	}

	// Last argument is the document basename; the stub writes <stem>.pdf in
	// the current directory, which is how the real toolchain behaves.
	script := `#!/bin/sh
for last; do :; done
stem="${last%.tex}"
printf '%s' "%PDF-1.4
1 0 obj<</Type/Catalog/Pages 2 0 R>>endobj
2 0 obj<</Type/Pages/Kids[3 0 R]/Count 1>>endobj
3 0 obj<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]>>endobj
trailer<</Root 1 0 R>>
%%EOF" > "$stem.pdf"
echo "stub latexmk: wrote $stem.pdf"
exit 0
`
	path := filepath.Join(binDir, "latexmk")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", err
	}
	return binDir, nil
}
