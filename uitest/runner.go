package uitest

import (
	"testing"
	"time"
)

// Runner ties a tmux session to a testing.T and records a screen-capture
// report as checks run
type Runner struct {
	T       *testing.T
	Session *Session
	Report  *Report
}

// NewRunner starts the program under test in tmux and prepares a report
func NewRunner(t *testing.T, sessionName string, width, height int, cmd, reportDir string) (*Runner, error) {
	session, err := NewSession(sessionName, width, height, cmd)
	if err != nil {
		return nil, err
	}
	return &Runner{T: t, Session: session, Report: NewReport(reportDir)}, nil
}

// Close tears down the tmux session
func (r *Runner) Close() error {
	return r.Session.Close()
}

// Snapshot records the current screen under a label
func (r *Runner) Snapshot(label string) {
	content, err := r.Session.Capture()
	if err != nil {
		r.T.Logf("snapshot %q failed: %v", label, err)
		return
	}
	r.Report.AddSnapshot(label, content)
}

// Check runs a named assertion, failing the test and capturing the screen
// when it does not hold
func (r *Runner) Check(name string, ok bool) bool {
	r.Report.AddResult(name, ok)
	if !ok {
		r.T.Errorf("FAIL: %s", name)
		r.Snapshot("failed: " + name)
	}
	return ok
}

// SendKeys forwards keys to the session, failing the test on error
func (r *Runner) SendKeys(keys ...string) {
	if err := r.Session.SendKeys(keys...); err != nil {
		r.T.Fatalf("send keys: %v", err)
	}
}

// Type forwards literal text to the session
func (r *Runner) Type(text string) {
	if err := r.Session.Type(text); err != nil {
		r.T.Fatalf("type text: %v", err)
	}
}

// WaitFor waits for a pattern, reporting false on timeout
func (r *Runner) WaitFor(pattern string, timeout time.Duration) bool {
	if err := r.Session.WaitFor(pattern, timeout); err != nil {
		r.T.Logf("WaitFor: %v", err)
		return false
	}
	return true
}

// Contains reports whether the screen currently shows a pattern
func (r *Runner) Contains(pattern string) bool {
	found, err := r.Session.Contains(pattern)
	if err != nil {
		r.T.Logf("Contains: %v", err)
		return false
	}
	return found
}

// WriteReport saves the report and logs its location
func (r *Runner) WriteReport() {
	path, err := r.Report.Write()
	if err != nil {
		r.T.Logf("report: %v", err)
		return
	}
	r.T.Logf("report saved to %s", path)
}
