package tex

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeCompiler writes an executable shell script standing in for a LaTeX
// compiler and returns its path.
func fakeCompiler(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func texDocument(t *testing.T) string {
	t.Helper()
	doc := filepath.Join(t.TempDir(), "main.tex")
	if err := os.WriteFile(doc, []byte("\\documentclass{article}\n\\begin{document}\nhi\n\\end{document}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestRunSucceededNeedsExitZeroAndArtifact(t *testing.T) {
	doc := texDocument(t)
	compiler := fakeCompiler(t, "pdflatex", "echo ok\ntouch main.pdf\nexit 0\n")

	res := Run(context.Background(), Request{Document: doc, Compiler: compiler, Timeout: 10 * time.Second})
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, want succeeded (log: %q)", res.Status, res.Log)
	}
	if res.Artifact != ArtifactPath(doc) {
		t.Errorf("artifact = %q, want %q", res.Artifact, ArtifactPath(doc))
	}
	if _, err := os.Stat(res.Artifact); err != nil {
		t.Errorf("artifact missing on disk: %v", err)
	}
}

func TestRunZeroExitWithoutArtifactFails(t *testing.T) {
	doc := texDocument(t)
	compiler := fakeCompiler(t, "pdflatex", "echo no pdf written\nexit 0\n")

	res := Run(context.Background(), Request{Document: doc, Compiler: compiler, Timeout: 10 * time.Second})
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
}

func TestRunNonzeroExitWithStaleArtifactFails(t *testing.T) {
	doc := texDocument(t)
	// Artifact from a previous successful run is still on disk.
	if err := os.WriteFile(ArtifactPath(doc), []byte("%PDF-old"), 0o644); err != nil {
		t.Fatal(err)
	}
	compiler := fakeCompiler(t, "pdflatex", "echo '! Undefined control sequence'\necho 'l.12 \\foo'\nexit 1\n")

	res := Run(context.Background(), Request{Document: doc, Compiler: compiler, Timeout: 10 * time.Second})
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if res.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode)
	}
	report := ParseLog(res.Log)
	if len(report.Lines) != 1 || report.Lines[0] != 11 {
		t.Errorf("report lines = %v, want [11]", report.Lines)
	}
}

func TestRunTimeout(t *testing.T) {
	doc := texDocument(t)
	compiler := fakeCompiler(t, "pdflatex", "sleep 5\n")

	start := time.Now()
	res := Run(context.Background(), Request{Document: doc, Compiler: compiler, Timeout: 200 * time.Millisecond})
	if res.Status != StatusTimedOut {
		t.Fatalf("status = %v, want timed out", res.Status)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout did not kill the process promptly (took %v)", elapsed)
	}
}

func TestRunMissingCompiler(t *testing.T) {
	doc := texDocument(t)
	res := Run(context.Background(), Request{Document: doc, Compiler: filepath.Join(t.TempDir(), "nope"), Timeout: time.Second})
	if res.Status != StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if res.Err == nil {
		t.Error("expected a start error for a missing compiler binary")
	}
}

func TestRunUsesDocumentDirAsWorkingDirectory(t *testing.T) {
	doc := texDocument(t)
	// The script touches a marker in its cwd; it must land beside the doc.
	compiler := fakeCompiler(t, "pdflatex", "touch cwd-marker\ntouch main.pdf\nexit 0\n")

	res := Run(context.Background(), Request{Document: doc, Compiler: compiler, Timeout: 10 * time.Second})
	if res.Status != StatusSucceeded {
		t.Fatalf("status = %v, want succeeded", res.Status)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(doc), "cwd-marker")); err != nil {
		t.Errorf("compiler did not run in the document directory: %v", err)
	}
}

func TestCommandForms(t *testing.T) {
	doc := "/work/paper/thesis.tex"

	got := Command("/usr/bin/latexmk", doc)
	want := []string{"/usr/bin/latexmk", "-pdf", "-interaction=nonstopmode", "-halt-on-error", "thesis.tex"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("latexmk argv = %v, want %v", got, want)
	}

	got = Command("/usr/bin/xelatex", doc)
	want = []string{"/usr/bin/xelatex", "-interaction=nonstopmode", "thesis.tex"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("xelatex argv = %v, want %v", got, want)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/a/b/main.tex", "/a/b/main.pdf"},
		{"/a/b/report.ltx", "/a/b/report.pdf"},
		{"relative.tex", "relative.pdf"},
	}
	for _, tt := range tests {
		if got := ArtifactPath(tt.in); got != filepath.FromSlash(tt.want) && got != tt.want {
			t.Errorf("ArtifactPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithToolchainEnvDefaults(t *testing.T) {
	env := withToolchainEnv([]string{"PATH=/bin"})
	joined := strings.Join(env, "\n")
	if !strings.Contains(joined, "MIKTEX_AUTOINSTALL=1") || !strings.Contains(joined, "MIKTEX_ON_THE_FLY=1") {
		t.Errorf("defaults missing from env: %v", env)
	}

	env = withToolchainEnv([]string{"MIKTEX_AUTOINSTALL=0"})
	for _, kv := range env {
		if kv == "MIKTEX_AUTOINSTALL=1" {
			t.Error("user-set MIKTEX_AUTOINSTALL was overridden")
		}
	}
}
