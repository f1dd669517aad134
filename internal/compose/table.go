package compose

import "albaranes/pkg/models"

var (
	headFont = bold(10)
	bodyFont = regular(9)
)

// minTextWidth is the narrowest text area a column is given.
const minTextWidth = 4.0

// tableRow is a laid-out row: the wrapped text of every cell and the row
// height.
type tableRow struct {
	item   int
	texts  []string
	cells  [][]string
	height float64
}

// table is a measured line-item table ready to be paginated.
type table struct {
	columns []Column
	widths  []float64
	head    tableRow
	rows    []tableRow
}

// columnWidths gives each column at least the padding plus minTextWidth and
// shares the remaining table width in proportion to each column's natural
// (unwrapped) width.
func columnWidths(g Geometry, m TextMeasurer, cols []Column, items []models.LineItem) []float64 {
	n := len(cols)
	total := g.TableWidth()
	floor := 2*g.CellPadding + minTextWidth

	widths := make([]float64, n)
	if float64(n)*floor >= total {
		for i := range widths {
			widths[i] = total / float64(n)
		}
		return widths
	}

	natural := make([]float64, n)
	var extra float64
	for i, col := range cols {
		w := m.StringWidth(col.Header, headFont)
		for _, item := range items {
			if cw := m.StringWidth(col.Value(item), bodyFont); cw > w {
				w = cw
			}
		}
		natural[i] = w + 2*g.CellPadding - floor
		if natural[i] < 0 {
			natural[i] = 0
		}
		extra += natural[i]
	}

	spare := total - float64(n)*floor
	for i := range widths {
		widths[i] = floor
		if extra > 0 {
			widths[i] += spare * natural[i] / extra
		} else {
			widths[i] += spare / float64(n)
		}
	}
	return widths
}

func measureRow(g Geometry, m TextMeasurer, widths []float64, texts []string, font Font) ([][]string, float64) {
	cells := make([][]string, len(texts))
	maxLines := 1
	for i, text := range texts {
		cells[i] = m.SplitText(text, font, widths[i]-2*g.CellPadding)
		if len(cells[i]) == 0 {
			cells[i] = []string{""}
		}
		if len(cells[i]) > maxLines {
			maxLines = len(cells[i])
		}
	}
	return cells, float64(maxLines)*LineHeight(font.Size) + 2*g.CellPadding
}

func buildTable(g Geometry, m TextMeasurer, note *models.DeliveryNote) *table {
	cols := Columns(note)
	t := &table{
		columns: cols,
		widths:  columnWidths(g, m, cols, note.Items),
	}

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
	}
	t.head.item = NoItem
	t.head.texts = headers
	t.head.cells, t.head.height = measureRow(g, m, t.widths, headers, headFont)

	for idx, item := range note.Items {
		texts := make([]string, len(cols))
		for i, col := range cols {
			texts[i] = col.Value(item)
		}
		row := tableRow{item: idx, texts: texts}
		row.cells, row.height = measureRow(g, m, t.widths, texts, bodyFont)
		t.rows = append(t.rows, row)
	}
	return t
}

// place paginates the table starting at c. The header row is repeated on
// every page and a row is never split. It returns the cursor just below
// the last row.
func (t *table) place(l *layout, g Geometry, c Cursor) Cursor {
	bottom := g.Bottom()
	top := g.TableMargin

	first := t.head.height
	if len(t.rows) > 0 {
		first += t.rows[0].height
	}
	c = c.Fit(first, bottom, top)
	c = t.emitRow(l, g, c, t.head, RoleTableHead)

	// The first row under a header is always placed there, even when it is
	// taller than the page; moving it would only leave a header on its own.
	underHead := true
	for _, row := range t.rows {
		if !underHead {
			if next := c.Fit(row.height, bottom, top); next.Page != c.Page {
				c = t.emitRow(l, g, next, t.head, RoleTableHead)
			}
		}
		c = t.emitRow(l, g, c, row, RoleTableRow)
		underHead = false
	}
	return c
}

func (t *table) emitRow(l *layout, g Geometry, c Cursor, row tableRow, role Role) Cursor {
	font, fill, color, style := bodyFont, ColorWhite, ColorCellText, StyleDraw
	if role == RoleTableHead {
		font, fill, color, style = headFont, ColorPrimary, ColorWhite, StyleFillDraw
	}
	step := LineHeight(font.Size)
	fontMM := font.Size * PtToMM

	x := g.TableMargin
	for i, col := range t.columns {
		w := t.widths[i]
		align := col.Align
		if role == RoleTableHead {
			align = AlignCenter
		}

		anchor := x + g.CellPadding
		switch align {
		case AlignCenter:
			anchor = x + w/2
		case AlignRight:
			anchor = x + w - g.CellPadding
		}

		lines := make([]TextLine, len(row.cells[i]))
		for j, text := range row.cells[i] {
			// Baseline sits at ~80% of the glyph box, centred in the line.
			baseline := c.Y + g.CellPadding + float64(j)*step + (step-fontMM)/2 + 0.8*fontMM
			lines[j] = TextLine{Text: text, X: anchor, Y: baseline}
		}

		l.emit(c, Instruction{
			Kind:      KindCell,
			Role:      role,
			X:         x,
			Y:         c.Y,
			W:         w,
			H:         row.height,
			Text:      row.texts[i],
			Lines:     lines,
			Align:     align,
			Font:      font,
			TextColor: color,
			FillColor: fill,
			DrawColor: ColorGrid,
			LineWidth: GridLineWidth,
			Style:     style,
			Column:    col.Key,
			Item:      row.item,
		})
		x += w
	}
	return c.Advance(row.height)
}
