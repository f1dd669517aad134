package compose

// layout accumulates pages while blocks are emitted. Instructions are
// always appended to the page the cursor points at.
type layout struct {
	size  PageSize
	pages []Page
}

func newLayout(size PageSize) *layout {
	return &layout{size: size, pages: []Page{{Number: 1}}}
}

// ensure makes sure page index exists.
func (l *layout) ensure(index int) {
	for len(l.pages) <= index {
		l.pages = append(l.pages, Page{Number: len(l.pages) + 1})
	}
}

func (l *layout) emit(c Cursor, ins Instruction) {
	l.ensure(c.Page)
	l.pages[c.Page].Instructions = append(l.pages[c.Page].Instructions, ins)
}

func (l *layout) text(c Cursor, role Role, x float64, text string, font Font, color Color, align Align) {
	l.emit(c, Instruction{
		Kind:      KindText,
		Role:      role,
		X:         x,
		Y:         c.Y,
		Text:      text,
		Align:     align,
		Font:      font,
		TextColor: color,
		Item:      NoItem,
	})
}

// lines emits one text instruction per line, the first baseline at c.Y.
// It returns the cursor on the last baseline.
func (l *layout) lines(c Cursor, role Role, x float64, lines []string, font Font, color Color) Cursor {
	step := LineHeight(font.Size)
	for i, line := range lines {
		if i > 0 {
			c = c.Advance(step)
		}
		l.text(c, role, x, line, font, color, AlignLeft)
	}
	return c
}
