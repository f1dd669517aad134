package compose_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albaranes/internal/compose"
	"albaranes/internal/pricing"
	"albaranes/pkg/models"
)

func sampleNote(n int) *models.DeliveryNote {
	note := &models.DeliveryNote{
		ID:     "n1",
		Number: "ALB-2024-0001",
		Date:   "2024-03-10",
		Header: models.CompanyHeader{
			Name:    "Mi Empresa SL",
			Address: "Polígono Industrial Las Mercedes, Nave 4",
			TaxID:   "A87654321",
			Phone:   "912344556",
			Email:   "facturacion@miempresa.com",
		},
		Customer: models.Customer{
			ID:      "1",
			Name:    "Cliente de Prueba SL",
			Address: "Calle Mayor 1, Madrid",
			TaxID:   "B12345678",
			Email:   "info@cliente.com",
			Phone:   "912345678",
		},
	}
	for i := 0; i < n; i++ {
		item := models.NewLineItem(fmt.Sprintf("p%d", i), nil)
		item.Product = fmt.Sprintf("Producto %02d", i)
		item.NetWeight = "50kg"
		item.Lot = "L24-01"
		item.Quantity = 2
		item.Price = 1.5
		note.Items = append(note.Items, item)
	}
	pricing.Apply(note)
	return note
}

func composeNote(t *testing.T, note *models.DeliveryNote) *compose.Document {
	t.Helper()
	doc, err := compose.New(compose.FixedWidthMeasurer{}).Compose(note)
	require.NoError(t, err)
	return doc
}

func byRole(doc *compose.Document, role compose.Role) []compose.Instruction {
	var out []compose.Instruction
	for _, ins := range doc.Instructions() {
		if ins.Role == role {
			out = append(out, ins)
		}
	}
	return out
}

func pageOf(doc *compose.Document, match func(compose.Instruction) bool) int {
	for i, p := range doc.Pages {
		for _, ins := range p.Instructions {
			if match(ins) {
				return i
			}
		}
	}
	return -1
}

func headers(doc *compose.Document) []string {
	var out []string
	for _, ins := range doc.Pages[0].Instructions {
		if ins.Role == compose.RoleTableHead {
			out = append(out, ins.Text)
		}
	}
	return out
}

func texts(ins []compose.Instruction) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.Text
	}
	return out
}

func TestComposeSingleItemScenario(t *testing.T) {
	doc := composeNote(t, sampleNote(1))

	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "ALB-2024-0001.pdf", doc.Filename)
	assert.Equal(t, []string{"Producto", "Peso Neto", "Lote", "Cant.", "Precio Unit.", "Total"}, headers(doc))

	totals := texts(byRole(doc, compose.RoleTotals))
	assert.Equal(t, []string{"Subtotal:", "3,00 €", "IVA (21%):", "0,63 €", "TOTAL:", "3,63 €"}, totals)

	title := texts(byRole(doc, compose.RoleTitle))
	assert.Equal(t, []string{"ALBARÁN", "Nº: ALB-2024-0001", "Fecha: 10/03/2024"}, title)

	issuer := texts(byRole(doc, compose.RoleIssuer))
	assert.Equal(t, "Mi Empresa SL", issuer[0])
	assert.Contains(t, issuer, "NIF: A87654321")
	assert.Contains(t, issuer, "Tel: 912344556 | facturacion@miempresa.com")
}

func TestComposeHidePricesOmitsPriceColumnsAndTotals(t *testing.T) {
	note := sampleNote(30)
	note.HidePrices = true
	doc := composeNote(t, note)

	assert.Equal(t, []string{"Producto", "Peso Neto", "Lote", "Cant."}, headers(doc))
	assert.Empty(t, byRole(doc, compose.RoleTotals))
	for _, ins := range doc.Instructions() {
		assert.NotEqual(t, compose.ColumnPrice, ins.Column)
		assert.NotEqual(t, compose.ColumnTotal, ins.Column)
		assert.NotContains(t, ins.Text, "€")
	}
}

func TestComposeExtraColumns(t *testing.T) {
	note := sampleNote(2)
	note.ExtraColumnNames = []string{"Pallet", "Origen"}
	note.Items[0].CustomFields["Pallet"] = "EUR-1"
	doc := composeNote(t, note)

	assert.Equal(t,
		[]string{"Producto", "Peso Neto", "Lote", "Pallet", "Origen", "Cant.", "Precio Unit.", "Total"},
		headers(doc))

	cells := map[string]string{}
	for _, ins := range byRole(doc, compose.RoleTableRow) {
		cells[fmt.Sprintf("%d/%s", ins.Item, ins.Column)] = ins.Text
	}
	assert.Equal(t, "EUR-1", cells["0/"+compose.ExtraColumnKey("Pallet")])
	assert.Equal(t, compose.Placeholder, cells["0/"+compose.ExtraColumnKey("Origen")])
	assert.Equal(t, compose.Placeholder, cells["1/"+compose.ExtraColumnKey("Pallet")])
}

func TestComposePaginatesItemsInOrder(t *testing.T) {
	note := sampleNote(60)
	doc := composeNote(t, note)
	g := compose.DefaultGeometry()

	require.Greater(t, len(doc.Pages), 1)

	var seen []int
	for _, page := range doc.Pages {
		var rows, heads int
		for _, ins := range page.Instructions {
			if ins.Kind == compose.KindCell {
				assert.LessOrEqual(t, ins.Y+ins.H, g.Bottom()+1e-9, "cell overflows page %d", page.Number)
			}
			switch {
			case ins.Role == compose.RoleTableRow && ins.Column == compose.ColumnProduct:
				seen = append(seen, ins.Item)
				rows++
			case ins.Role == compose.RoleTableHead && ins.Column == compose.ColumnProduct:
				heads++
			}
		}
		if rows > 0 {
			assert.Equal(t, 1, heads, "header repeated once on page %d", page.Number)
		}
	}

	want := make([]int, len(note.Items))
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, seen)
}

func TestComposeTallRowStaysUnderItsHeader(t *testing.T) {
	note := sampleNote(2)
	note.Items[0].Product = strings.TrimSuffix(strings.Repeat("línea\n", 80), "\n")
	doc := composeNote(t, note)

	for _, page := range doc.Pages {
		var rows, heads int
		for _, ins := range page.Instructions {
			switch {
			case ins.Role == compose.RoleTableRow && ins.Column == compose.ColumnProduct:
				rows++
			case ins.Role == compose.RoleTableHead && ins.Column == compose.ColumnProduct:
				heads++
			}
		}
		if heads > 0 {
			assert.Positive(t, rows, "header without rows on page %d", page.Number)
		}
	}
	// Too tall for the space left on the first page, so it starts the second.
	assert.Equal(t, 1, pageOf(doc, func(i compose.Instruction) bool {
		return i.Role == compose.RoleTableRow && i.Item == 0
	}))
}

func TestComposeZeroItems(t *testing.T) {
	note := sampleNote(0)
	doc := composeNote(t, note)

	assert.Len(t, headers(doc), 6)
	assert.Empty(t, byRole(doc, compose.RoleTableRow))
	assert.Contains(t, texts(byRole(doc, compose.RoleTotals)), "0,00 €")
}

func TestComposeTotalsMoveToNextPage(t *testing.T) {
	note := sampleNote(12)
	doc := composeNote(t, note)
	g := compose.DefaultGeometry()

	var tableEnd float64
	for _, ins := range doc.Pages[0].Instructions {
		if ins.Role == compose.RoleTableRow {
			tableEnd = max(tableEnd, ins.Y+ins.H)
		}
	}
	require.Greater(t, tableEnd+g.BlockGap, g.TotalsBreakY)
	require.Equal(t, 0, pageOf(doc, func(i compose.Instruction) bool { return i.Role == compose.RoleTableRow && i.Item == 11 }))

	assert.Equal(t, 1, pageOf(doc, func(i compose.Instruction) bool { return i.Role == compose.RoleTotals }))
	first := byRole(doc, compose.RoleTotals)[0]
	assert.Equal(t, g.Top, first.Y)
}

func TestComposeLongNotesSpanPages(t *testing.T) {
	note := sampleNote(1)
	note.Notes = strings.Repeat("palabra ", 3000)
	doc := composeNote(t, note)
	g := compose.DefaultGeometry()

	require.Greater(t, len(doc.Pages), 2)

	notes := byRole(doc, compose.RoleNotes)
	require.NotEmpty(t, notes)
	assert.Equal(t, "OBSERVACIONES:", notes[0].Text)

	want := compose.FixedWidthMeasurer{}.SplitText(note.Notes, compose.Font{Family: compose.DefaultFamily, Size: 9}, g.NotesWidth)
	assert.Equal(t, want, texts(notes[1:]))
	for _, ins := range notes {
		assert.LessOrEqual(t, ins.Y, g.Bottom()+compose.LineHeight(9))
	}
}

func TestComposeNotesWithoutPrices(t *testing.T) {
	note := sampleNote(1)
	note.HidePrices = true
	note.Notes = "Entregar antes de las 9:00"
	doc := composeNote(t, note)

	notes := byRole(doc, compose.RoleNotes)
	require.Len(t, notes, 2)
	assert.Equal(t, "Entregar antes de las 9:00", notes[1].Text)
}

func TestComposeRecipientBox(t *testing.T) {
	g := compose.DefaultGeometry()

	t.Run("minimum offset", func(t *testing.T) {
		doc := composeNote(t, sampleNote(1))
		box := byRole(doc, compose.RoleRecipient)[0]
		assert.Equal(t, compose.KindRect, box.Kind)
		assert.Equal(t, g.BoxMinY, box.Y)
		assert.Equal(t, g.BoxH, box.H)
	})

	t.Run("pushed down by tall issuer block", func(t *testing.T) {
		note := sampleNote(1)
		note.Header.Address = "Línea 1\nLínea 2\nLínea 3\nLínea 4\nLínea 5"
		note.Header.Logo = models.EncodeLogo("png", []byte{0x89, 'P', 'N', 'G'})
		doc := composeNote(t, note)

		box := byRole(doc, compose.RoleRecipient)[0]
		assert.Greater(t, box.Y, g.BoxMinY)

		issuer := byRole(doc, compose.RoleIssuer)
		last := issuer[len(issuer)-1]
		assert.Equal(t, last.Y+g.IssuerSpace, box.Y)
	})
}

func TestComposeLogo(t *testing.T) {
	g := compose.DefaultGeometry()

	t.Run("placed", func(t *testing.T) {
		note := sampleNote(1)
		note.Header.Logo = models.EncodeLogo("jpeg", []byte{0xff, 0xd8})
		doc := composeNote(t, note)

		logos := byRole(doc, compose.RoleLogo)
		require.Len(t, logos, 1)
		assert.Equal(t, "JPEG", logos[0].Image.Format)
		assert.Equal(t, g.AfterLogo, byRole(doc, compose.RoleIssuer)[0].Y)
		assert.Empty(t, doc.Warnings)
	})

	t.Run("unknown format tag falls back", func(t *testing.T) {
		note := sampleNote(1)
		note.Header.Logo = "data:image/x-unknown-1;base64,AQID"
		doc := composeNote(t, note)

		logos := byRole(doc, compose.RoleLogo)
		require.Len(t, logos, 1)
		assert.Equal(t, models.DefaultLogoFormat, logos[0].Image.Format)
	})

	t.Run("undecodable logo is skipped", func(t *testing.T) {
		note := sampleNote(3)
		note.Header.Logo = "data:image/png;base64,%%%"
		doc := composeNote(t, note)

		assert.Empty(t, byRole(doc, compose.RoleLogo))
		require.Len(t, doc.Warnings, 1)
		assert.Equal(t, g.Top, byRole(doc, compose.RoleIssuer)[0].Y)
		assert.NotEmpty(t, byRole(doc, compose.RoleTableRow))
		assert.NotEmpty(t, byRole(doc, compose.RoleTotals))
	})
}

func TestComposeIsDeterministic(t *testing.T) {
	note := sampleNote(45)
	note.ExtraColumnNames = []string{"Pallet"}
	note.Notes = strings.Repeat("Observación larga. ", 80)

	a := composeNote(t, note)
	b := composeNote(t, note)
	assert.Equal(t, a, b)
}

func TestComposeDoesNotModifyNote(t *testing.T) {
	note := sampleNote(5)
	note.ExtraColumnNames = []string{"Pallet"}
	before := note.Clone()

	composeNote(t, note)
	assert.Equal(t, before, *note)
}

func TestComposeNilNote(t *testing.T) {
	_, err := compose.New(nil).Compose(nil)
	assert.ErrorIs(t, err, compose.ErrNilNote)
}
