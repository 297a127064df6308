package tex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func stubBinary(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestNewLocatorStartsUncached(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing uses POSIX scripts")
	}
	dir := t.TempDir()
	stubBinary(t, dir, "pdflatex")
	t.Setenv("PATH", dir)

	loc := NewLocator()
	path, ok := loc.Locate()
	if !ok || filepath.Base(path) != "pdflatex" {
		t.Errorf("located %q ok=%v, want pdflatex", path, ok)
	}
}

func TestLocatePrefersLatexmk(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing uses POSIX scripts")
	}
	dir := t.TempDir()
	stubBinary(t, dir, "pdflatex")
	stubBinary(t, dir, "latexmk")
	t.Setenv("PATH", dir)

	var loc Locator
	path, ok := loc.Locate()
	if !ok {
		t.Fatal("no compiler found")
	}
	if filepath.Base(path) != "latexmk" {
		t.Errorf("located %q, want latexmk ahead of pdflatex", path)
	}
}

func TestLocateFallsBackInOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing uses POSIX scripts")
	}
	dir := t.TempDir()
	stubBinary(t, dir, "xelatex")
	t.Setenv("PATH", dir)

	var loc Locator
	path, ok := loc.Locate()
	if !ok || filepath.Base(path) != "xelatex" {
		t.Errorf("located %q ok=%v, want xelatex", path, ok)
	}
}

func TestLocateCachesAndReset(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH stubbing uses POSIX scripts")
	}
	dir := t.TempDir()
	stubBinary(t, dir, "pdflatex")
	t.Setenv("PATH", dir)

	var loc Locator
	first, ok := loc.Locate()
	if !ok {
		t.Fatal("no compiler found")
	}

	// Empty the search path; the cached hit must survive, a Reset must not.
	t.Setenv("PATH", t.TempDir())
	if cached, ok := loc.Locate(); !ok || cached != first {
		t.Errorf("cache miss: got %q ok=%v", cached, ok)
	}
	loc.Reset()
	if _, ok := loc.Locate(); ok {
		t.Error("Locate found a compiler on an empty PATH after Reset")
	}
}

func TestLocateAbsent(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	var loc Locator
	if path, ok := loc.Locate(); ok {
		t.Errorf("unexpectedly located %q", path)
	}
}

func TestRecipeStepsAreIndependent(t *testing.T) {
	recipe, ok := Recipe()
	if !ok {
		t.Skip("no install recipe for this OS")
	}
	if recipe.Tool == "" || len(recipe.Steps) == 0 {
		t.Fatalf("malformed recipe: %+v", recipe)
	}
	for _, step := range recipe.Steps {
		if len(step.Argv) == 0 {
			t.Errorf("step %q has empty argv", step.Name)
		}
	}
}

func TestInstallBestEffortWithoutPackageManager(t *testing.T) {
	// With an empty PATH the recipe tool is missing, so the install must
	// decline quietly rather than error out.
	t.Setenv("PATH", t.TempDir())
	var loc Locator
	var messages []string
	if path, ok := loc.InstallBestEffort(func(s string) { messages = append(messages, s) }); ok {
		t.Errorf("install unexpectedly produced %q", path)
	}
}
