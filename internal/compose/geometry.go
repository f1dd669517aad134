package compose

// PtToMM converts a font size in points to millimetres.
const PtToMM = 25.4 / 72

// LineHeightFactor is the line spacing applied to every text run.
const LineHeightFactor = 1.15

// PageSize is a page format in millimetres.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// A4 portrait.
var A4 = PageSize{Name: "A4", Width: 210, Height: 297}

// Geometry holds every fixed position used by the composer. All values are
// millimetres on a portrait page with the origin at the top-left corner.
type Geometry struct {
	Page PageSize

	// Left is the x of the issuer block, the recipient box and the notes.
	Left float64
	// Right is the right edge the title block is aligned to.
	Right float64
	// Top is the first baseline without a logo, and where blocks restart
	// after a forced page break.
	Top float64

	LogoX, LogoY, LogoW, LogoH float64
	// AfterLogo is the issuer baseline when a logo was placed.
	AfterLogo float64

	// TitleY is the baseline of the document title; number and date follow.
	TitleY      float64
	NumberY     float64
	DateY       float64
	IssuerGap   float64 // issuer name baseline to first detail line
	IssuerSpace float64 // last issuer line to recipient box

	BoxMinY   float64
	BoxW      float64
	BoxH      float64
	BoxRadius float64
	BoxInset  float64

	// TableGap separates the recipient box from the table.
	TableGap    float64
	TableMargin float64
	CellPadding float64

	// BlockGap separates the table from the totals or notes.
	BlockGap     float64
	TotalsHeight float64 // space reserved for the totals block
	NoTotalsGap  float64 // extra space when prices are hidden
	TotalsBreakY float64
	NotesBreakY  float64
	TotalsLabelX float64
	TotalsValueX float64
	NotesWidth   float64
	NotesGap     float64 // notes heading to first notes line
}

// DefaultGeometry is the A4 layout of a delivery note.
func DefaultGeometry() Geometry {
	return Geometry{
		Page:         A4,
		Left:         20,
		Right:        200,
		Top:          20,
		LogoX:        20,
		LogoY:        15,
		LogoW:        45,
		LogoH:        20,
		AfterLogo:    40,
		TitleY:       25,
		NumberY:      32,
		DateY:        38,
		IssuerGap:    6,
		IssuerSpace:  12,
		BoxMinY:      50,
		BoxW:         170,
		BoxH:         35,
		BoxRadius:    3,
		BoxInset:     5,
		TableGap:     10,
		TableMargin:  14,
		CellPadding:  4,
		BlockGap:     10,
		TotalsHeight: 30,
		NoTotalsGap:  5,
		TotalsBreakY: 250,
		NotesBreakY:  260,
		TotalsLabelX: 140,
		TotalsValueX: 190,
		NotesWidth:   170,
		NotesGap:     6,
	}
}

// Bottom is the lowest y any table row or notes line may reach.
func (g Geometry) Bottom() float64 {
	return g.Page.Height - g.TableMargin
}

// TableWidth is the usable width between the table margins.
func (g Geometry) TableWidth() float64 {
	return g.Page.Width - 2*g.TableMargin
}

// LineHeight is the baseline-to-baseline distance for a font size in points.
func LineHeight(sizePt float64) float64 {
	return sizePt * LineHeightFactor * PtToMM
}
