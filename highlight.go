package main

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss/v2"
)

// Chroma's TeX lexer handles commands, comments, math and group braces;
// coalescing merges runs of same-typed tokens so we emit fewer ANSI sequences.
var latexLexer = newLatexLexer()

func newLatexLexer() chroma.Lexer {
	lx := lexers.Get("latex")
	if lx == nil {
		lx = lexers.Fallback
	}
	return chroma.Coalesce(lx)
}

var (
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	mathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	groupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// HighlightLine returns one line of LaTeX source with terminal styling. The
// visible width equals the input width; only color sequences are added.
func HighlightLine(text string) string {
	if text == "" {
		return ""
	}
	it, err := latexLexer.Tokenise(nil, text+"\n")
	if err != nil {
		return text
	}

	var sb strings.Builder
	for _, tok := range it.Tokens() {
		val := strings.TrimSuffix(tok.Value, "\n")
		if val == "" {
			continue
		}
		switch {
		case tok.Type.InCategory(chroma.Comment):
			sb.WriteString(commentStyle.Render(val))
		case tok.Type.InCategory(chroma.Keyword):
			sb.WriteString(commandStyle.Render(val))
		case tok.Type.InCategory(chroma.Literal):
			// Math mode lands here in the TeX lexer.
			sb.WriteString(mathStyle.Render(val))
		case tok.Type.InCategory(chroma.Name):
			sb.WriteString(groupStyle.Render(val))
		default:
			sb.WriteString(val)
		}
	}
	return sb.String()
}
