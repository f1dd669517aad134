package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"albaranes/internal/compose"
)

// pageWriter executes instructions on one fpdf document.
type pageWriter struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	log     zerolog.Logger
	skipped int
}

func (p *pageWriter) draw(page, index int, ins compose.Instruction) {
	switch ins.Kind {
	case compose.KindText:
		p.text(ins.X, ins.Y, ins.Text, ins.Font, ins.TextColor, ins.Align)
	case compose.KindRect:
		p.rect(ins)
	case compose.KindCell:
		p.rect(ins)
		for _, line := range ins.Lines {
			p.text(line.X, line.Y, line.Text, ins.Font, ins.TextColor, ins.Align)
		}
	case compose.KindImage:
		p.image(fmt.Sprintf("img-%d-%d", page, index), ins)
	default:
		p.log.Warn().Str("kind", string(ins.Kind)).Msg("Unknown instruction kind ignored")
	}
}

func (p *pageWriter) text(x, y float64, text string, font compose.Font, color compose.Color, align compose.Align) {
	if text == "" {
		return
	}
	p.pdf.SetFont(font.Family, font.Style, font.Size)
	p.pdf.SetTextColor(color.R, color.G, color.B)

	s := p.tr(text)
	switch align {
	case compose.AlignRight:
		x -= p.pdf.GetStringWidth(s)
	case compose.AlignCenter:
		x -= p.pdf.GetStringWidth(s) / 2
	}
	p.pdf.Text(x, y, s)
}

func (p *pageWriter) rect(ins compose.Instruction) {
	if ins.W <= 0 || ins.H <= 0 {
		return
	}
	p.pdf.SetFillColor(ins.FillColor.R, ins.FillColor.G, ins.FillColor.B)
	p.pdf.SetDrawColor(ins.DrawColor.R, ins.DrawColor.G, ins.DrawColor.B)
	if ins.LineWidth > 0 {
		p.pdf.SetLineWidth(ins.LineWidth)
	}

	style := ins.Style
	if style == "" {
		style = compose.StyleDraw
	}
	if ins.Radius > 0 {
		p.pdf.RoundedRect(ins.X, ins.Y, ins.W, ins.H, ins.Radius, "1234", style)
		return
	}
	p.pdf.Rect(ins.X, ins.Y, ins.W, ins.H, style)
}

// image embeds the picture. fpdf keeps the first error it sees and refuses
// any further work, so a failed image clears that state before continuing.
func (p *pageWriter) image(name string, ins compose.Instruction) {
	if ins.Image == nil || len(ins.Image.Data) == 0 {
		return
	}

	opt := fpdf.ImageOptions{ImageType: strings.ToLower(ins.Image.Format)}
	p.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(ins.Image.Data))
	if err := p.pdf.Error(); err != nil {
		p.pdf.ClearError()
		p.skipped++
		p.log.Warn().Err(err).Str("format", ins.Image.Format).Msg("Image could not be embedded, skipping")
		return
	}
	p.pdf.ImageOptions(name, ins.X, ins.Y, ins.W, ins.H, false, opt, 0, "")
}
