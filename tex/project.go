package tex

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// A Project is a directory holding at least one top-level .tex file plus an
// images/ subdirectory for figure assets. A document can exist without one.
type Project struct {
	Root string
}

const mainTexSeed = `\documentclass{article}
\usepackage[utf8]{inputenc}
\usepackage{graphicx}
\title{Project Title}
\author{Your Name}
\begin{document}
\maketitle

\section{Overview}
Welcome to your new project. Add sections, figures, and more from the palette.

\section{Next steps}
\begin{itemize}
  \item Add images to the images/ folder and reference them with \includegraphics.
  \item Insert figures, tables, and bibliography snippets from the palette.
  \item Compile to preview the PDF.
\end{itemize}

\bibliographystyle{plain}
\bibliography{references}
\end{document}
`

const referencesBibSeed = `@article{example,
  title={Getting Started},
  author={Author, A.},
  journal={Journal of Examples},
  year={2024}
}
`

// CreateProject makes <base>/<name> with an images/ subdirectory and seeds
// main.tex and references.bib when they do not already exist.
func CreateProject(base, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("project name is empty")
	}
	root := filepath.Join(base, name)
	if err := os.MkdirAll(filepath.Join(root, "images"), 0o755); err != nil {
		return nil, fmt.Errorf("create project folder: %w", err)
	}

	seeds := map[string]string{
		"main.tex":       mainTexSeed,
		"references.bib": referencesBibSeed,
	}
	for file, content := range seeds {
		path := filepath.Join(root, file)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("seed %s: %w", file, err)
		}
	}
	return &Project{Root: root}, nil
}

// OpenProject opens an existing directory as a project. The directory must
// contain at least one top-level .tex file.
func OpenProject(dir string) (*Project, error) {
	texFiles, err := filepath.Glob(filepath.Join(dir, "*.tex"))
	if err != nil {
		return nil, err
	}
	if len(texFiles) == 0 {
		return nil, fmt.Errorf("%s has no .tex files to open", dir)
	}
	return &Project{Root: dir}, nil
}

// MainTex returns the first top-level .tex file, alphabetically.
func (p *Project) MainTex() (string, bool) {
	texFiles, err := filepath.Glob(filepath.Join(p.Root, "*.tex"))
	if err != nil || len(texFiles) == 0 {
		return "", false
	}
	sort.Strings(texFiles)
	return texFiles[0], true
}

// ImagesDir returns the figure asset directory, creating it if needed.
func (p *Project) ImagesDir() (string, error) {
	dir := filepath.Join(p.Root, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// ImportFigure copies src into images/ and returns the project-relative path
// suitable for \includegraphics.
func (p *Project) ImportFigure(src string) (string, error) {
	dir, err := p.ImagesDir()
	if err != nil {
		return "", fmt.Errorf("images dir: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open figure: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("copy figure: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("copy figure: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("copy figure: %w", err)
	}

	rel, err := filepath.Rel(p.Root, dst)
	if err != nil {
		return filepath.Base(dst), nil
	}
	return filepath.ToSlash(rel), nil
}

// OpenExternally hands a file to the platform's default opener.
func OpenExternally(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	// Detach; the opener owns the file from here.
	go cmd.Wait()
	return nil
}
