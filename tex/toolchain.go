// Package tex owns the boundary to the external LaTeX toolchain: locating a
// compiler, best-effort installation, running compiles and parsing their logs.
package tex

import (
	"os/exec"
	"runtime"
	"sync"
)

// candidates is the ordered compiler preference list. latexmk comes first
// because it drives the full bibliography/cross-reference passes on its own.
var candidates = []string{"latexmk", "pdflatex", "xelatex"}

// Locator finds a LaTeX compiler on the host, caching the first hit.
type Locator struct {
	mu   sync.Mutex
	path string
}

// NewLocator returns a Locator with an empty cache.
func NewLocator() *Locator {
	return &Locator{}
}

// Locate returns the cached compiler path, or searches the candidate list.
func (l *Locator) Locate() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path != "" {
		return l.path, true
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			l.path = path
			return path, true
		}
	}
	return "", false
}

// Reset drops the cached path so the next Locate searches again.
func (l *Locator) Reset() {
	l.mu.Lock()
	l.path = ""
	l.mu.Unlock()
}

// InstallStep is one command in an install recipe. Steps run in order and a
// failing step never aborts the ones after it.
type InstallStep struct {
	Name string
	Argv []string
}

// InstallRecipe is a best-effort toolchain install for one OS family. It is an
// ordered step list, not a transaction: exit codes are ignored throughout.
type InstallRecipe struct {
	// Tool must be on PATH for the recipe to be attempted at all.
	Tool  string
	Label string
	Steps []InstallStep
}

var recipes = map[string]InstallRecipe{
	"windows": {
		Tool:  "winget",
		Label: "Installing MiKTeX via winget",
		Steps: []InstallStep{
			{"winget install", []string{"winget", "install", "--id", "MiKTeX.MiKTeX", "-e",
				"--silent", "--accept-package-agreements", "--accept-source-agreements"}},
			{"initexmf links", []string{"initexmf", "--mklinks", "--force"}},
			{"mpm update-db", []string{"mpm", "--admin", "--update-db"}},
			{"mpm install", []string{"mpm", "--admin", "--install=collection-latexrecommended"}},
		},
	},
	"darwin": {
		Tool:  "brew",
		Label: "Installing BasicTeX via Homebrew",
		Steps: []InstallStep{
			{"brew install", []string{"brew", "install", "--cask", "basictex"}},
			{"tlmgr repository", []string{"sudo", "/Library/TeX/texbin/tlmgr", "option", "repository",
				"https://mirror.ctan.org/systems/texlive/tlnet"}},
			{"tlmgr update", []string{"sudo", "/Library/TeX/texbin/tlmgr", "update", "--self", "--all"}},
			{"tlmgr latexmk", []string{"sudo", "/Library/TeX/texbin/tlmgr", "install", "latexmk"}},
		},
	},
	"linux": {
		Tool:  "apt-get",
		Label: "Installing TeX Live via apt-get",
		Steps: []InstallStep{
			{"apt update", []string{"sudo", "apt-get", "update"}},
			{"apt install", []string{"sudo", "apt-get", "install", "-y", "texlive-full", "latexmk"}},
		},
	},
}

// Recipe returns the install recipe for the current OS, if one exists.
func Recipe() (InstallRecipe, bool) {
	r, ok := recipes[runtime.GOOS]
	if !ok && runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		// Every other unix gets the apt-get recipe; it self-skips when
		// apt-get is absent.
		r, ok = recipes["linux"]
	}
	return r, ok
}

// InstallBestEffort runs the platform recipe once and re-locates. Individual
// step failures are ignored; status receives progress messages and may be nil.
func (l *Locator) InstallBestEffort(status func(string)) (string, bool) {
	if status == nil {
		status = func(string) {}
	}

	recipe, ok := Recipe()
	if !ok {
		return "", false
	}
	if _, err := exec.LookPath(recipe.Tool); err != nil {
		status("cannot install automatically: " + recipe.Tool + " not found")
		return "", false
	}

	status(recipe.Label)
	for _, step := range recipe.Steps {
		// Best-effort: run and move on regardless of the outcome.
		exec.Command(step.Argv[0], step.Argv[1:]...).Run()
	}

	l.Reset()
	return l.Locate()
}
