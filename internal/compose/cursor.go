package compose

// Cursor is the layout position: a page index and a vertical offset on it.
// It is a plain value; every method returns a new cursor.
type Cursor struct {
	Page int
	Y    float64
}

// Advance moves the cursor down by dy on the same page.
func (c Cursor) Advance(dy float64) Cursor {
	return Cursor{Page: c.Page, Y: c.Y + dy}
}

// NextPage returns a cursor at y on the following page.
func (c Cursor) NextPage(y float64) Cursor {
	return Cursor{Page: c.Page + 1, Y: y}
}

// Fit returns where a block of the given height starts: here when it ends
// at or above limit, otherwise at top on the next page. A block taller than
// a whole page still starts on a fresh page and overflows it.
func (c Cursor) Fit(height, limit, top float64) Cursor {
	if c.Y+height <= limit {
		return c
	}
	return c.NextPage(top)
}

// BreakAfter starts a new page at top when the cursor is already below
// threshold. Totals and notes use it instead of measuring their height.
func (c Cursor) BreakAfter(threshold, top float64) Cursor {
	if c.Y > threshold {
		return c.NextPage(top)
	}
	return c
}
