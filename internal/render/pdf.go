// Package render turns composed documents into PDF files with go-pdf/fpdf.
//
// The renderer only executes instructions. Every position, size and page
// break was decided by the composer; the renderer never reflows text.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"albaranes/internal/compose"
	"albaranes/internal/logger"
)

// PDFRenderer renders compose.Documents and provides the text metrics the
// composer lays out with. Core fonts are used, so text is translated to
// cp1252 before it is measured or written.
type PDFRenderer struct {
	mu      sync.Mutex
	metrics *fpdf.Fpdf // measurement only, never output
	tr      func(string) string
	author  string
	log     zerolog.Logger
}

// Option configures a PDFRenderer.
type Option func(*PDFRenderer)

// WithAuthor sets the PDF author metadata.
func WithAuthor(author string) Option {
	return func(r *PDFRenderer) { r.author = author }
}

// NewPDFRenderer returns a renderer ready to measure and render.
func NewPDFRenderer(opts ...Option) *PDFRenderer {
	metrics := fpdf.New("P", "mm", "A4", "")
	r := &PDFRenderer{
		metrics: metrics,
		tr:      metrics.UnicodeTranslatorFromDescriptor(""),
		log:     logger.WithComponent("renderer"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StringWidth implements compose.TextMeasurer.
func (r *PDFRenderer) StringWidth(text string, font compose.Font) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.SetFont(font.Family, font.Style, font.Size)
	return r.metrics.GetStringWidth(r.tr(text))
}

// SplitText implements compose.TextMeasurer. Lines break at spaces; a
// word wider than maxWidth is broken between characters.
func (r *PDFRenderer) SplitText(text string, font compose.Font, maxWidth float64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.SetFont(font.Family, font.Style, font.Size)

	width := func(s string) float64 { return r.metrics.GetStringWidth(r.tr(s)) }

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrap(paragraph, maxWidth, width)...)
	}
	return lines
}

func wrap(paragraph string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		if current != "" && width(current+" "+word) <= maxWidth {
			current += " " + word
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		for width(word) > maxWidth {
			head, tail := breakWord(word, maxWidth, width)
			lines = append(lines, head)
			word = tail
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakWord returns the longest prefix of word that fits, at least one rune.
func breakWord(word string, maxWidth float64, width func(string) float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && width(string(runes[:n+1])) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Render executes doc and returns the PDF bytes. Images that cannot be
// embedded are skipped and logged; any other backend failure is an error.
func (r *PDFRenderer) Render(doc *compose.Document) ([]byte, error) {
	const op = "Render"

	if doc == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNilDocument)
	}

	size := doc.Size
	if size.Width == 0 || size.Height == 0 {
		size = compose.A4
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("albaranes", true)
	if r.author != "" {
		pdf.SetAuthor(r.author, true)
	}

	p := &pageWriter{pdf: pdf, tr: tr, log: r.log}
	for _, page := range doc.Pages {
		pdf.AddPage()
		for i, ins := range page.Instructions {
			p.draw(page.Number, i, ins)
		}
	}
	if len(doc.Pages) == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrRenderFailed, err)
	}

	r.log.Debug().
		Str("filename", doc.Filename).
		Int("pages", len(doc.Pages)).
		Int("bytes", buf.Len()).
		Int("skipped_images", p.skipped).
		Msg("Document rendered")

	return buf.Bytes(), nil
}

// WriteFile stores rendered bytes as dir/filename and returns the path.
func WriteFile(dir, filename string, data []byte) (string, error) {
	const op = "WriteFile"

	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("%s: invalid filename %q", op, filename)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: failed to create output directory: %w", op, err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%s: failed to write %s: %w", op, path, err)
	}
	return path, nil
}
