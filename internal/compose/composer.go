// Package compose lays a delivery note out on fixed-size pages.
//
// Composition is a pure transformation: the same note always produces the
// same Document. The Document is a list of pages holding absolute draw
// instructions (text runs, rectangles, table cells and an optional image)
// that a rendering backend turns into a PDF. Text metrics come from a
// TextMeasurer so that the layout matches the backend fonts.
//
// Blocks are laid out in this order:
//   - logo (optional) and issuer block, top left
//   - title, number and date, top right
//   - recipient box
//   - line-item table, paginated, header repeated on every page
//   - totals, unless prices are hidden
//   - notes, wrapped, spanning pages as needed
package compose

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"albaranes/internal/logger"
	"albaranes/pkg/models"
)

// DefaultTitle is printed at the top right of every note.
const DefaultTitle = "ALBARÁN"

// Composer turns delivery notes into paginated documents.
type Composer struct {
	geometry Geometry
	measurer TextMeasurer
	title    string
	log      zerolog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithGeometry replaces the default A4 layout.
func WithGeometry(g Geometry) Option {
	return func(c *Composer) { c.geometry = g }
}

// WithTitle replaces the document title.
func WithTitle(title string) Option {
	return func(c *Composer) { c.title = title }
}

// New creates a Composer measuring text with m. A nil measurer falls back to
// FixedWidthMeasurer.
func New(m TextMeasurer, opts ...Option) *Composer {
	if m == nil {
		m = FixedWidthMeasurer{}
	}
	c := &Composer{
		geometry: DefaultGeometry(),
		measurer: m,
		title:    DefaultTitle,
		log:      logger.WithComponent("composer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geometry returns the layout in use.
func (c *Composer) Geometry() Geometry {
	return c.geometry
}

// Compose lays out note. The note is only read.
func (c *Composer) Compose(note *models.DeliveryNote) (*Document, error) {
	if note == nil {
		return nil, ErrNilNote
	}
	g := c.geometry

	doc := &Document{
		Size:     g.Page,
		Title:    c.title,
		Filename: note.Filename(),
	}
	l := newLayout(g.Page)

	cur := c.headerBand(l, doc, note.Header, Cursor{Y: g.Top})
	issuerEnd := c.issuer(l, note.Header, cur)
	c.titleBlock(l, note)
	boxEnd := c.recipient(l, note.Customer, issuerEnd)

	tableEnd := buildTable(g, c.measurer, note).place(l, g, boxEnd.Advance(g.TableGap))

	anchor := tableEnd.Advance(g.BlockGap)
	if note.HidePrices {
		anchor = anchor.Advance(g.NoTotalsGap)
	} else {
		anchor = c.totals(l, note, anchor)
	}

	if strings.TrimSpace(note.Notes) != "" {
		c.notes(l, note.Notes, anchor)
	}

	doc.Pages = l.pages

	c.log.Debug().
		Str("number", note.Number).
		Int("items", len(note.Items)).
		Int("pages", len(doc.Pages)).
		Int("warnings", len(doc.Warnings)).
		Msg("Delivery note composed")

	return doc, nil
}

// headerBand places the logo, if any, and returns where the issuer block
// starts. A logo that cannot be decoded is skipped with a warning.
func (c *Composer) headerBand(l *layout, doc *Document, header models.CompanyHeader, cur Cursor) Cursor {
	if !header.HasLogo() {
		return cur
	}
	g := c.geometry

	logo, err := models.ParseLogo(header.Logo)
	if err != nil {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("logo omitted: %v", err))
		c.log.Warn().Err(err).Msg("Could not decode logo, composing without it")
		return cur
	}

	l.emit(cur, Instruction{
		Kind:  KindImage,
		Role:  RoleLogo,
		X:     g.LogoX,
		Y:     g.LogoY,
		W:     g.LogoW,
		H:     g.LogoH,
		Image: &Image{Format: logo.Format, Data: logo.Data},
		Item:  NoItem,
	})
	return Cursor{Page: cur.Page, Y: g.AfterLogo}
}

// issuer prints the company block and returns the cursor on its last
// baseline.
func (c *Composer) issuer(l *layout, h models.CompanyHeader, cur Cursor) Cursor {
	g := c.geometry
	l.text(cur, RoleIssuer, g.Left, h.Name, bold(14), ColorPrimary, AlignLeft)

	details := append(splitLines(h.Address),
		"NIF: "+h.TaxID,
		fmt.Sprintf("Tel: %s | %s", h.Phone, h.Email),
	)
	return l.lines(cur.Advance(g.IssuerGap), RoleIssuer, g.Left, details, regular(9), ColorMuted)
}

// titleBlock is anchored to the top right of the first page regardless of
// the issuer block height.
func (c *Composer) titleBlock(l *layout, note *models.DeliveryNote) {
	g := c.geometry
	l.text(Cursor{Y: g.TitleY}, RoleTitle, g.Right, c.title, bold(22), ColorHeading, AlignRight)
	l.text(Cursor{Y: g.NumberY}, RoleTitle, g.Right, "Nº: "+note.Number, regular(11), ColorHeading, AlignRight)
	l.text(Cursor{Y: g.DateY}, RoleTitle, g.Right, "Fecha: "+FormatDate(note.Date), regular(11), ColorHeading, AlignRight)
}

// recipient draws the customer box below the issuer block, never above
// BoxMinY, and returns the cursor at its bottom edge.
func (c *Composer) recipient(l *layout, customer models.Customer, issuerEnd Cursor) Cursor {
	g := c.geometry
	top := max(issuerEnd.Y+g.IssuerSpace, g.BoxMinY)
	box := Cursor{Page: issuerEnd.Page, Y: top}

	details := append(splitLines(customer.Address),
		"NIF: "+customer.TaxID,
		fmt.Sprintf("Tel: %s | %s", customer.Phone, customer.Email),
	)
	detailFont := regular(10)
	lastBaseline := top + 19 + float64(len(details)-1)*LineHeight(detailFont.Size)
	height := max(g.BoxH, lastBaseline+g.BoxInset-top)

	l.emit(box, Instruction{
		Kind:      KindRect,
		Role:      RoleRecipient,
		X:         g.Left,
		Y:         top,
		W:         g.BoxW,
		H:         height,
		FillColor: ColorBoxFill,
		DrawColor: ColorBoxBorder,
		LineWidth: 0.2,
		Style:     StyleFillDraw,
		Radius:    g.BoxRadius,
		Item:      NoItem,
	})

	x := g.Left + g.BoxInset
	l.text(box.Advance(7), RoleRecipient, x, "DESTINATARIO", bold(10), ColorPrimary, AlignLeft)
	l.text(box.Advance(14), RoleRecipient, x, customer.Name, bold(10), ColorHeading, AlignLeft)
	l.lines(box.Advance(19), RoleRecipient, x, details, detailFont, ColorBody)

	return box.Advance(height)
}

// totals prints subtotal, tax and total right-aligned, on a new page when
// the anchor is already past TotalsBreakY. It returns the cursor below the
// block.
func (c *Composer) totals(l *layout, note *models.DeliveryNote, anchor Cursor) Cursor {
	g := c.geometry
	cur := anchor.BreakAfter(g.TotalsBreakY, g.Top)

	rows := []struct {
		dy    float64
		label string
		value float64
		font  Font
		color Color
	}{
		{0, "Subtotal:", note.Subtotal, regular(10), ColorBody},
		{7, fmt.Sprintf("IVA (%s):", FormatPercent(note.TaxRate)), note.TaxAmount, regular(10), ColorBody},
		{16, "TOTAL:", note.Total, bold(14), ColorPrimary},
	}
	for _, r := range rows {
		at := cur.Advance(r.dy)
		l.text(at, RoleTotals, g.TotalsLabelX, r.label, r.font, r.color, AlignLeft)
		l.text(at, RoleTotals, g.TotalsValueX, FormatMoney(r.value), r.font, r.color, AlignRight)
	}
	return cur.Advance(g.TotalsHeight)
}

// notes prints the wrapped observations, continuing on as many pages as
// the text needs.
func (c *Composer) notes(l *layout, text string, anchor Cursor) Cursor {
	g := c.geometry
	cur := anchor.BreakAfter(g.NotesBreakY, g.Top)

	l.text(cur, RoleNotes, g.Left, "OBSERVACIONES:", bold(9), ColorMuted, AlignLeft)

	font := regular(9)
	step := LineHeight(font.Size)
	cur = cur.Advance(g.NotesGap)
	for _, line := range c.measurer.SplitText(text, font, g.NotesWidth) {
		if cur.Y > g.Bottom() {
			cur = cur.NextPage(g.Top)
		}
		l.text(cur, RoleNotes, g.Left, line, font, ColorMuted, AlignLeft)
		cur = cur.Advance(step)
	}
	return cur
}

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
