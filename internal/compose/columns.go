package compose

import "albaranes/pkg/models"

// Column keys of the fixed table columns. Extra columns use their name.
const (
	ColumnProduct   = "product"
	ColumnNetWeight = "netWeight"
	ColumnLot       = "lot"
	ColumnQuantity  = "quantity"
	ColumnPrice     = "price"
	ColumnTotal     = "total"
)

// ExtraColumnKey is the column key of a user-defined column. The prefix
// keeps it apart from the fixed keys whatever the column is called.
func ExtraColumnKey(name string) string {
	return "extra:" + name
}

// Placeholder is shown for an extra column a line item has no value for.
const Placeholder = "-"

// Column is one table column: its header label, how a cell is read from a
// line item and how its text is aligned.
type Column struct {
	Key    string
	Header string
	Align  Align
	Extra  bool
	value  func(models.LineItem) string
}

// Value returns the cell text of item for this column.
func (c Column) Value(item models.LineItem) string {
	return c.value(item)
}

// Columns builds the table columns of note: Product, Net Weight, Lot, the
// extra columns in order, Quantity and, unless prices are hidden, Unit Price
// and Total.
func Columns(note *models.DeliveryNote) []Column {
	cols := []Column{
		{Key: ColumnProduct, Header: "Producto", Align: AlignLeft, value: func(i models.LineItem) string { return i.Product }},
		{Key: ColumnNetWeight, Header: "Peso Neto", Align: AlignLeft, value: func(i models.LineItem) string { return i.NetWeight }},
		{Key: ColumnLot, Header: "Lote", Align: AlignLeft, value: func(i models.LineItem) string { return i.Lot }},
	}

	for _, name := range note.ExtraColumnNames {
		cols = append(cols, Column{
			Key:    ExtraColumnKey(name),
			Header: name,
			Align:  AlignLeft,
			Extra:  true,
			value: func(i models.LineItem) string {
				if v := i.Field(name); v != "" {
					return v
				}
				return Placeholder
			},
		})
	}

	cols = append(cols, Column{
		Key: ColumnQuantity, Header: "Cant.", Align: AlignRight,
		value: func(i models.LineItem) string { return FormatQuantity(i.Quantity) },
	})

	if !note.HidePrices {
		cols = append(cols,
			Column{
				Key: ColumnPrice, Header: "Precio Unit.", Align: AlignRight,
				value: func(i models.LineItem) string { return FormatMoney(i.Price) },
			},
			Column{
				Key: ColumnTotal, Header: "Total", Align: AlignRight,
				value: func(i models.LineItem) string { return FormatMoney(i.Total()) },
			},
		)
	}

	return cols
}
