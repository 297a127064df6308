package tex

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single compile run.
const DefaultTimeout = 60 * time.Second

// Status is the terminal state of one compile attempt.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed out"
	}
	return "unknown"
}

// Request describes one compile attempt. It is built fresh per attempt; the
// document must already be persisted to disk before Run is called.
type Request struct {
	Document string // path to the .tex source
	Compiler string // resolved compiler executable
	Timeout  time.Duration
}

// Result is the outcome of a compile run.
type Result struct {
	Status   Status
	ExitCode int
	Log      string // combined stdout+stderr
	Artifact string // expected PDF path; valid only when Status is StatusSucceeded
	Err      error  // process start failure, if any
}

// ArtifactPath is the output convention: the document path with its extension
// replaced by .pdf, in the same directory.
func ArtifactPath(document string) string {
	ext := filepath.Ext(document)
	return strings.TrimSuffix(document, ext) + ".pdf"
}

// Command builds the argv for a compiler invocation. latexmk gets the fuller
// form; every other compiler runs a plain nonstop single pass.
func Command(compiler, document string) []string {
	name := filepath.Base(document)
	if strings.Contains(strings.ToLower(filepath.Base(compiler)), "latexmk") {
		return []string{compiler, "-pdf", "-interaction=nonstopmode", "-halt-on-error", name}
	}
	return []string{compiler, "-interaction=nonstopmode", name}
}

// withToolchainEnv defaults the MiKTeX on-the-fly package flags without
// overriding values the user already exported.
func withToolchainEnv(env []string) []string {
	defaults := map[string]string{
		"MIKTEX_AUTOINSTALL": "1",
		"MIKTEX_ON_THE_FLY":  "1",
	}
	for _, kv := range env {
		if i := strings.IndexByte(kv, '='); i > 0 {
			delete(defaults, kv[:i])
		}
	}
	for k, v := range defaults {
		env = append(env, k+"="+v)
	}
	return env
}

// Run executes one compile attempt synchronously. The subprocess runs in the
// document's directory so relative resource paths resolve. Success requires
// BOTH a zero exit status AND the artifact present on disk afterwards; either
// alone is not enough.
func Run(ctx context.Context, req Request) Result {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := Command(req.Compiler, req.Document)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = filepath.Dir(req.Document)
	cmd.Env = withToolchainEnv(os.Environ())

	out, err := cmd.CombinedOutput()
	log := string(out)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{Status: StatusTimedOut, ExitCode: -1, Log: log}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// The process never ran (bad path, permissions).
			return Result{Status: StatusFailed, ExitCode: -1, Log: log, Err: err}
		}
	}

	artifact := ArtifactPath(req.Document)
	_, statErr := os.Stat(artifact)

	if exitCode == 0 && statErr == nil {
		return Result{Status: StatusSucceeded, ExitCode: 0, Log: log, Artifact: artifact}
	}
	return Result{Status: StatusFailed, ExitCode: exitCode, Log: log}
}
