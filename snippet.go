package main

import "fmt"

// SnippetKind is a closed enumeration of insertable LaTeX fragments. Each kind
// maps to a literal template via an exhaustive switch, never a string lookup.
type SnippetKind int

const (
	SnippetSection SnippetKind = iota
	SnippetFigure
	SnippetTable
	SnippetBibliography
	SnippetEquation
	SnippetList
	SnippetTOC
	SnippetTheorem
	SnippetCode
)

// AllSnippets lists every kind in palette order.
var AllSnippets = []SnippetKind{
	SnippetSection, SnippetFigure, SnippetTable, SnippetBibliography,
	SnippetEquation, SnippetList, SnippetTOC, SnippetTheorem, SnippetCode,
}

func (k SnippetKind) String() string {
	switch k {
	case SnippetSection:
		return "section"
	case SnippetFigure:
		return "figure"
	case SnippetTable:
		return "table"
	case SnippetBibliography:
		return "bibliography"
	case SnippetEquation:
		return "equation"
	case SnippetList:
		return "list"
	case SnippetTOC:
		return "toc"
	case SnippetTheorem:
		return "theorem"
	case SnippetCode:
		return "code"
	}
	return "unknown"
}

// Help is the one-line palette description.
func (k SnippetKind) Help() string {
	switch k {
	case SnippetSection:
		return "new \\section with placeholder text"
	case SnippetFigure:
		return "figure environment with \\includegraphics"
	case SnippetTable:
		return "3x3 tabular inside a table environment"
	case SnippetBibliography:
		return "bibliography commands and a sample .bib entry"
	case SnippetEquation:
		return "numbered equation environment"
	case SnippetList:
		return "itemize environment"
	case SnippetTOC:
		return "table of contents plus page break"
	case SnippetTheorem:
		return "theorem environment (needs amsthm)"
	case SnippetCode:
		return "lstlisting code block (needs listings)"
	}
	return ""
}

// Template returns the literal text inserted at the cursor.
func (k SnippetKind) Template() string {
	switch k {
	case SnippetSection:
		return "\\section{New Section}\nWrite your section text here.\n\n"
	case SnippetFigure:
		return "\\begin{figure}[h]\n" +
			"  \\centering\n" +
			"  \\includegraphics[width=0.8\\linewidth]{example-image}\n" +
			"  \\caption{Caption text}\n" +
			"  \\label{fig:label}\n" +
			"\\end{figure}\n\n"
	case SnippetTable:
		return "\\begin{table}[h]\n" +
			"  \\centering\n" +
			"  \\begin{tabular}{lll}\n" +
			"    \\hline\n" +
			"    A & B & C \\\\\n" +
			"    \\hline\n" +
			"    1 & 2 & 3 \\\\\n" +
			"    4 & 5 & 6 \\\\\n" +
			"    \\hline\n" +
			"  \\end{tabular}\n" +
			"  \\caption{Table caption}\n" +
			"  \\label{tab:label}\n" +
			"\\end{table}\n\n"
	case SnippetBibliography:
		return "% Add this near the end of your document\n" +
			"\\bibliographystyle{plain}\n" +
			"\\bibliography{references}\n\n" +
			"% Example .bib entry\n" +
			"% @article{key,\n" +
			"%   title={Example},\n" +
			"%   author={Author, A.},\n" +
			"%   journal={Journal},\n" +
			"%   year={2024}\n" +
			"% }\n"
	case SnippetEquation:
		return "\\begin{equation}\nE = mc^2\n\\end{equation}\n\n"
	case SnippetList:
		return "\\begin{itemize}\n  \\item First item\n  \\item Second item\n\\end{itemize}\n\n"
	case SnippetTOC:
		return "% Table of contents\n\\tableofcontents\n\\newpage\n\n"
	case SnippetTheorem:
		return "% Add to preamble: \\usepackage{amsthm}\n" +
			"\\begin{theorem}[Sample]\n" +
			"Let $a, b \\in \\mathbb{R}$. Then $a + b = b + a$.\n" +
			"\\end{theorem}\n\n"
	case SnippetCode:
		return "% Add to preamble: \\usepackage{listings}\n" +
			"\\begin{lstlisting}[language=Python, caption={Example code}]\n" +
			"def hello():\n" +
			"    print(\"Hello!\")\n" +
			"\\end{lstlisting}\n\n"
	}
	return ""
}

// FigureSnippet builds the figure environment inserted after a figure import,
// pointing at the project-relative image path.
func FigureSnippet(relPath, label string) string {
	return fmt.Sprintf("\\begin{figure}[h]\n"+
		"  \\centering\n"+
		"  \\includegraphics[width=0.8\\linewidth]{%s}\n"+
		"  \\caption{Caption text}\n"+
		"  \\label{fig:%s}\n"+
		"\\end{figure}\n", relPath, label)
}

// DocTemplate is a starting point for a fresh document tab.
type DocTemplate struct {
	Name string
	Text string
}

// DocTemplates lists the built-in document scaffolds.
var DocTemplates = []DocTemplate{
	{"Article", "\\documentclass{article}\n" +
		"\\usepackage[utf8]{inputenc}\n" +
		"\\usepackage{amsmath,amssymb}\n" +
		"\\title{Your Title}\n" +
		"\\author{Your Name}\n" +
		"\\begin{document}\n" +
		"\\maketitle\n\n" +
		"\\section{Introduction}\n" +
		"Start writing here.\n\n" +
		"\\end{document}\n"},
	{"Report", "\\documentclass{report}\n" +
		"\\usepackage[utf8]{inputenc}\n" +
		"\\usepackage{graphicx}\n" +
		"\\title{Project Report}\n" +
		"\\author{Your Name}\n" +
		"\\begin{document}\n" +
		"\\maketitle\n\n" +
		"\\chapter{Overview}\n" +
		"Content goes here.\n\n" +
		"\\end{document}\n"},
	{"Beamer", "\\documentclass{beamer}\n" +
		"\\usetheme{Madrid}\n" +
		"\\title{Your Talk}\n" +
		"\\author{Your Name}\n" +
		"\\begin{document}\n" +
		"\\begin{frame}\\titlepage\\end{frame}\n" +
		"\\begin{frame}{Agenda}\n" +
		"  \\begin{itemize}\n" +
		"    \\item Point 1\n" +
		"    \\item Point 2\n" +
		"  \\end{itemize}\n" +
		"\\end{frame}\n" +
		"\\end{document}\n"},
}
