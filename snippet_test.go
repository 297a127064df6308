package main

import (
	"strings"
	"testing"
)

func TestEverySnippetKindHasTemplate(t *testing.T) {
	for _, k := range AllSnippets {
		if k.Template() == "" {
			t.Errorf("snippet %v has empty template", k)
		}
		if k.String() == "unknown" {
			t.Errorf("snippet %v has no name", k)
		}
		if k.Help() == "" {
			t.Errorf("snippet %v has no help text", k)
		}
	}
}

func TestSnippetEnvironmentsAreBalanced(t *testing.T) {
	envs := map[SnippetKind]string{
		SnippetFigure:   "figure",
		SnippetTable:    "table",
		SnippetEquation: "equation",
		SnippetList:     "itemize",
		SnippetTheorem:  "theorem",
		SnippetCode:     "lstlisting",
	}
	for kind, env := range envs {
		tpl := kind.Template()
		if !strings.Contains(tpl, "\\begin{"+env+"}") || !strings.Contains(tpl, "\\end{"+env+"}") {
			t.Errorf("%v template does not open and close %s: %q", kind, env, tpl)
		}
	}
}

func TestFigureSnippetUsesRelativePath(t *testing.T) {
	s := FigureSnippet("images/plot.png", "plot")
	if !strings.Contains(s, "\\includegraphics[width=0.8\\linewidth]{images/plot.png}") {
		t.Errorf("missing includegraphics path: %q", s)
	}
	if !strings.Contains(s, "\\label{fig:plot}") {
		t.Errorf("missing label: %q", s)
	}
}

func TestDocTemplatesCompileableShape(t *testing.T) {
	if len(DocTemplates) != 3 {
		t.Fatalf("expected 3 templates, got %d", len(DocTemplates))
	}
	for _, tpl := range DocTemplates {
		if !strings.Contains(tpl.Text, "\\documentclass") {
			t.Errorf("%s template missing documentclass", tpl.Name)
		}
		if !strings.Contains(tpl.Text, "\\begin{document}") || !strings.Contains(tpl.Text, "\\end{document}") {
			t.Errorf("%s template missing document environment", tpl.Name)
		}
	}
}
