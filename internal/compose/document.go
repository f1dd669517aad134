package compose

// Kind is the type of a draw instruction.
type Kind string

const (
	KindText  Kind = "text"
	KindRect  Kind = "rect"
	KindCell  Kind = "cell"
	KindImage Kind = "image"
)

// Role tags an instruction with the document block it belongs to.
type Role string

const (
	RoleLogo      Role = "logo"
	RoleIssuer    Role = "issuer"
	RoleTitle     Role = "title"
	RoleRecipient Role = "recipient"
	RoleTableHead Role = "table-head"
	RoleTableRow  Role = "table-row"
	RoleTotals    Role = "totals"
	RoleNotes     Role = "notes"
)

// Align anchors text horizontally at its X coordinate.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Rect paint styles, same letters as most PDF backends use.
const (
	StyleFill     = "F"
	StyleDraw     = "D"
	StyleFillDraw = "FD"
)

// GridLineWidth is the stroke width of table cell borders.
const GridLineWidth = 0.1

// NoItem marks instructions that do not belong to a line item.
const NoItem = -1

// Color is an RGB colour.
type Color struct {
	R, G, B int
}

var (
	ColorPrimary   = Color{79, 70, 229}   // indigo-600
	ColorHeading   = Color{30, 41, 59}    // slate-800
	ColorMuted     = Color{100, 116, 139} // slate-500
	ColorBody      = Color{71, 85, 105}   // slate-600
	ColorBoxBorder = Color{226, 232, 240} // slate-200
	ColorBoxFill   = Color{248, 250, 252} // slate-50
	ColorGrid      = Color{200, 200, 200}
	ColorCellText  = Color{20, 20, 20}
	ColorWhite     = Color{255, 255, 255}
)

// Font selects a face and a size in points.
type Font struct {
	Family string
	Style  string // "", "B", "I", "BI"
	Size   float64
}

// DefaultFamily is one of the standard PDF fonts.
const DefaultFamily = "Helvetica"

func regular(size float64) Font { return Font{Family: DefaultFamily, Size: size} }
func bold(size float64) Font    { return Font{Family: DefaultFamily, Style: "B", Size: size} }

// TextLine is one positioned line of a cell. Y is the baseline.
type TextLine struct {
	Text string
	X    float64
	Y    float64
}

// Image is an embedded raster image.
type Image struct {
	Format string
	Data   []byte
}

// Instruction is one drawing operation with absolute page coordinates.
//
// Text: X/Y is the anchor and baseline, Align tells how X anchors the run.
// Rect: X/Y/W/H box painted with Style; Radius > 0 rounds the corners.
// Cell: a table cell, a Rect plus Lines drawn with Font/TextColor.
// Image: placed in the X/Y/W/H box.
type Instruction struct {
	Kind Kind
	Role Role

	X, Y, W, H float64

	Text  string
	Lines []TextLine
	Align Align
	Font  Font

	TextColor Color
	FillColor Color
	DrawColor Color
	LineWidth float64
	Style     string
	Radius    float64

	Image *Image

	// Column and Item locate table cells: the column key and the index of
	// the line item (NoItem for header cells and non-table blocks).
	Column string
	Item   int
}

// Page is the ordered instruction list of one page.
type Page struct {
	Number       int // 1-based
	Instructions []Instruction
}

// Document is the composed, paginated description of a delivery note.
type Document struct {
	Size     PageSize
	Title    string
	Filename string
	Pages    []Page
	// Warnings lists degraded parts, such as a logo that could not be placed.
	Warnings []string
}

// Instructions returns all instructions of all pages in order.
func (d *Document) Instructions() []Instruction {
	var all []Instruction
	for _, p := range d.Pages {
		all = append(all, p.Instructions...)
	}
	return all
}
