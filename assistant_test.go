package main

import (
	"context"
	"strings"
	"testing"
)

const assistantDoc = `\documentclass{article}
\usepackage{graphicx}
\begin{document}
\section{Introduction}
Some opening words about the topic \cite{knuth84}.
\begin{figure}
\includegraphics{images/plot.png}
\end{figure}
\begin{equation}
e = mc^2
\end{equation}
\subsection{Details}
More words here.
\end{document}
`

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		question string
		want     Intent
	}{
		{"how do I add a figure?", IntentFigures},
		{"why does my citation show as [?]", IntentReferences},
		{"the compile fails with an error", IntentCompile},
		{"should I use chapters or sections?", IntentStructure},
		{"what is my word count?", IntentWriting},
		{"hello there", IntentGeneral},
	}
	for _, c := range cases {
		if got := classifyIntent(c.question); got != c.want {
			t.Errorf("classifyIntent(%q) = %v, want %v", c.question, got, c.want)
		}
	}
}

func TestAnalyzeDocument(t *testing.T) {
	stats := analyzeDocument(assistantDoc)
	if stats.Sections != 2 {
		t.Errorf("Sections = %d, want 2", stats.Sections)
	}
	if stats.Figures != 1 {
		t.Errorf("Figures = %d, want 1", stats.Figures)
	}
	if stats.Equations != 1 {
		t.Errorf("Equations = %d, want 1", stats.Equations)
	}
	if stats.Citations != 1 {
		t.Errorf("Citations = %d, want 1", stats.Citations)
	}
	if stats.Words == 0 {
		t.Error("Words should count the prose")
	}
}

func TestAnalyzeDocumentIgnoresCommandArguments(t *testing.T) {
	stats := analyzeDocument(`\includegraphics{images/verylongfilename.png}` + "\n")
	if stats.Words != 0 {
		t.Errorf("Words = %d, command arguments are not prose", stats.Words)
	}
}

func TestAnswerCompileIntentReportsLines(t *testing.T) {
	log := "! Undefined control sequence.\nl.12 \\badmacro\n"
	got, err := Answer(context.Background(), "why did the compile fail?", assistantDoc, log)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "12") {
		t.Errorf("answer %q should name the failing line", got)
	}
	if !strings.Contains(got, "Undefined control sequence") {
		t.Errorf("answer %q should quote the error", got)
	}
}

func TestAnswerCompileIntentNoLog(t *testing.T) {
	got, err := Answer(context.Background(), "compile?", assistantDoc, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "No compile has run yet") {
		t.Errorf("answer = %q", got)
	}
}

func TestAnswerFigureCounts(t *testing.T) {
	got, err := Answer(context.Background(), "tell me about my figures", assistantDoc, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "1 figure") {
		t.Errorf("answer = %q", got)
	}
}

func TestAnswerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Answer(ctx, "word count?", assistantDoc, ""); err == nil {
		t.Error("cancelled context should return an error")
	}
}
