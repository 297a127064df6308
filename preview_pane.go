package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PreviewPane shows a text rendering of the compiled PDF, one page at a time.
// Terminals can't rasterise pages, so we extract the text layer; "open
// externally" exists for the real thing.
type PreviewPane struct {
	viewport viewport.Model
	path     string
	pages    []string
	page     int
	stale    bool
	loadErr  error
	dirty    bool
}

// NewPreviewPane creates an empty preview pane
func NewPreviewPane() *PreviewPane {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return &PreviewPane{viewport: vp}
}

// Load reads the PDF at path and extracts per-page text. stale marks the
// artifact as left over from an earlier successful compile.
func (p *PreviewPane) Load(path string, stale bool) {
	p.path = path
	p.stale = stale
	p.page = 0
	p.dirty = true
	p.pages, p.loadErr = extractPDFPages(path)
}

// Path returns the artifact currently shown, empty if none
func (p *PreviewPane) Path() string {
	return p.path
}

func (p *PreviewPane) Title() string {
	if p.path == "" {
		return "PDF Preview"
	}
	title := fmt.Sprintf("%s — page %d/%d", filepath.Base(p.path), p.page+1, max(len(p.pages), 1))
	if p.stale {
		title += " (stale)"
	}
	return title
}

var previewHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

func (p *PreviewPane) Render(w, h int) string {
	p.viewport.Width = w
	p.viewport.Height = max(h-1, 1)

	if p.dirty {
		p.viewport.SetContent(p.currentPage(w))
		p.viewport.GotoTop()
		p.dirty = false
	}

	hint := "←/→ pages · scroll to read"
	if p.loadErr != nil {
		hint = "preview unavailable"
	}
	return p.viewport.View() + "\n" + previewHintStyle.Render(truncateRunes(hint, w))
}

func (p *PreviewPane) currentPage(w int) string {
	if p.path == "" {
		return "No PDF yet. Compile the document first."
	}
	if p.loadErr != nil {
		return "Unable to render a preview of this PDF.\n\nOpen the file externally to view it:\n  " + p.path
	}
	if len(p.pages) == 0 {
		return "This PDF has no extractable text."
	}
	return wrapText(p.pages[p.page], w)
}

func (p *PreviewPane) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyLeft:
		if p.page > 0 {
			p.page--
			p.dirty = true
		}
		return true
	case tea.KeyRight:
		if p.page < len(p.pages)-1 {
			p.page++
			p.dirty = true
		}
		return true
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd != nil
}

func (p *PreviewPane) HandleMouse(x, y int, msg tea.MouseMsg) bool {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd != nil
}

// extractPDFPages returns the text layer of each page in order
func extractPDFPages(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pages = append(pages, extractPageText(ctx, pageNr))
	}
	return pages, nil
}

func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return textFromContentStream(data)
}

var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// textFromContentStream pulls string literals out of text-showing operators
// (Tj, TJ, ') and turns positioning operators into whitespace.
func textFromContentStream(data []byte) string {
	var sb strings.Builder
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}
	return normalizeExtractedText(sb.String())
}

// decodePDFString handles the escape sequences of PDF literal strings
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

func normalizeExtractedText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case r == '\n':
			sb.WriteRune(r)
			prevSpace = true
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

// wrapText hard-wraps at word boundaries to the given width
func wrapText(text string, w int) string {
	if w < 1 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for len([]rune(line)) > w {
			cut := w
			runes := []rune(line)
			for i := w; i > 0; i-- {
				if runes[i-1] == ' ' {
					cut = i
					break
				}
			}
			out = append(out, strings.TrimRight(string(runes[:cut]), " "))
			line = string(runes[cut:])
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
