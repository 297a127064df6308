package main

import (
	"regexp"
	"testing"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func TestHighlightPreservesText(t *testing.T) {
	lines := []string{
		`\documentclass{article}`,
		`% a comment`,
		`Some plain prose here.`,
		`$e = mc^2$`,
		`\begin{figure}[ht]`,
		`  \includegraphics[width=\linewidth]{images/plot.png}`,
	}
	for _, line := range lines {
		if got := stripANSI(HighlightLine(line)); got != line {
			t.Errorf("HighlightLine(%q) changed the text: %q", line, got)
		}
	}
}

func TestHighlightEmptyLine(t *testing.T) {
	if got := HighlightLine(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestHighlightSingleLine(t *testing.T) {
	// Tokenising adds a newline internally; the output must not keep it.
	got := stripANSI(HighlightLine(`\section{Intro}`))
	for _, r := range got {
		if r == '\n' {
			t.Fatalf("got %q, contains newline", got)
		}
	}
}
