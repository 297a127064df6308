package main

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"platex/tex"
)

// Intent is the topic the assistant decides a question is about
type Intent int

const (
	IntentGeneral Intent = iota
	IntentFigures
	IntentReferences
	IntentCompile
	IntentStructure
	IntentWriting
)

var intentKeywords = map[Intent][]string{
	IntentFigures:    {"figure", "image", "picture", "graphic", "includegraphics", "plot"},
	IntentReferences: {"cite", "citation", "bibliography", "bibtex", "reference", "ref"},
	IntentCompile:    {"compile", "error", "build", "pdf", "latexmk", "fail", "log"},
	IntentStructure:  {"section", "chapter", "structure", "outline", "organize", "document class"},
	IntentWriting:    {"word", "count", "length", "stats", "how long", "progress"},
}

// classifyIntent scores the question against each topic's keyword list
func classifyIntent(question string) Intent {
	q := strings.ToLower(question)
	best, bestScore := IntentGeneral, 0
	for intent, words := range intentKeywords {
		score := 0
		for _, w := range words {
			if strings.Contains(q, w) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = intent, score
		}
	}
	return best
}

// DocStats summarises the active document
type DocStats struct {
	Words     int
	Lines     int
	Sections  int
	Figures   int
	Equations int
	Citations int
}

var (
	sectionRe  = regexp.MustCompile(`\\(?:sub)*section\{`)
	figureRe   = regexp.MustCompile(`\\begin\{figure\}`)
	equationRe = regexp.MustCompile(`\\begin\{(?:equation|align|gather)\*?\}`)
	citationRe = regexp.MustCompile(`\\cite\{`)
	commandRe  = regexp.MustCompile(`\\[a-zA-Z]+\*?(?:\[[^\]]*\])?(?:\{[^}]*\})?`)
)

// analyzeDocument counts the structural features the assistant talks about.
// The word count strips commands first so \includegraphics{...} isn't "text".
func analyzeDocument(text string) DocStats {
	stats := DocStats{
		Lines:     strings.Count(text, "\n") + 1,
		Sections:  len(sectionRe.FindAllString(text, -1)),
		Figures:   len(figureRe.FindAllString(text, -1)),
		Equations: len(equationRe.FindAllString(text, -1)),
		Citations: len(citationRe.FindAllString(text, -1)),
	}
	prose := commandRe.ReplaceAllString(text, " ")
	for _, f := range strings.Fields(prose) {
		if strings.ContainsAny(f, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			stats.Words++
		}
	}
	return stats
}

// Answer produces a response to a question about the document. It is pure
// text analysis and runs quickly, but honours ctx so an in-flight answer can
// be abandoned when the user asks something else.
func Answer(ctx context.Context, question, document, compileLog string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stats := analyzeDocument(document)

	switch classifyIntent(question) {
	case IntentFigures:
		if stats.Figures == 0 {
			return "The document has no figures yet. Use Import Figure from the command palette to copy an image into images/ and insert a figure environment, or insert the Figure snippet and fill in the path.", nil
		}
		return fmt.Sprintf("The document has %d figure(s). Each needs \\usepackage{graphicx} in the preamble and a unique \\label so you can \\ref it. Keep image files under images/ so paths stay relative.", stats.Figures), nil

	case IntentReferences:
		if stats.Citations == 0 {
			return "No \\cite commands yet. Add entries to references.bib, cite them with \\cite{key}, and end the document with \\bibliographystyle{plain} and \\bibliography{references}. latexmk reruns BibTeX for you.", nil
		}
		return fmt.Sprintf("The document has %d citation(s). Make sure every key exists in references.bib; undefined citations show as [?] in the PDF and warnings in the log.", stats.Citations), nil

	case IntentCompile:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if strings.TrimSpace(compileLog) == "" {
			return "No compile has run yet. Press the compile key or pick Compile from the palette; the log pane shows the toolchain output.", nil
		}
		report := tex.ParseLog(compileLog)
		if report.Empty() {
			return "The last compile log shows no error markers. If the PDF still looks wrong, check for warnings about undefined references or missing packages further up the log.", nil
		}
		lines := make([]string, 0, len(report.Lines))
		for _, l := range report.Lines {
			lines = append(lines, fmt.Sprintf("%d", l+1))
		}
		return fmt.Sprintf("The last compile failed around line(s) %s: %s", strings.Join(lines, ", "), report.FirstMessage()), nil

	case IntentStructure:
		if stats.Sections == 0 {
			return "The document has no sections yet. Start with \\section{Introduction} and build the outline before filling in prose; the Section snippet inserts one.", nil
		}
		return fmt.Sprintf("The document has %d section-level heading(s) across %d lines. If a section is getting long, split it with \\subsection; if the document is getting long, consider the report class with \\chapter.", stats.Sections, stats.Lines), nil

	case IntentWriting:
		return fmt.Sprintf("About %d words over %d lines, with %d section(s), %d figure(s), %d equation(s) and %d citation(s).",
			stats.Words, stats.Lines, stats.Sections, stats.Figures, stats.Equations, stats.Citations), nil
	}

	return "I can help with figures, citations, document structure, compile errors, and writing statistics. Ask about one of those, or open LaTeX Help from the palette for syntax reference.", nil
}
