package models

import "encoding/json"

// LineItem is one row of a delivery note.
type LineItem struct {
	ID        string  // Row identifier, unique within a note
	Product   string  // Product name, required to save a note
	NetWeight string  // Free text, e.g. "50kg"
	Lot       string  // Lot / batch code
	Quantity  float64 // Non-negative
	Price     float64 // Unit price, non-negative

	// CustomFields holds values for the note's extra columns, keyed by column
	// name. A nil map reads the same as an empty one; it is written as {} and
	// decoded as an empty map, so build rows with NewLineItem or Clone to keep
	// them equal across a store round trip.
	CustomFields map[string]string
}

// NewLineItem returns an empty row with quantity 1 and an empty value for
// every given extra column.
func NewLineItem(id string, columns []string) LineItem {
	item := LineItem{
		ID:           id,
		Quantity:     1,
		CustomFields: make(map[string]string, len(columns)),
	}
	for _, col := range columns {
		item.CustomFields[col] = ""
	}
	return item
}

// Total is quantity times unit price. It is never stored independently.
func (i LineItem) Total() float64 {
	return i.Quantity * i.Price
}

// Field returns the value for an extra column, or "" when the row has none.
func (i LineItem) Field(column string) string {
	return i.CustomFields[column]
}

// Clone returns a copy that shares no map with the receiver.
func (i LineItem) Clone() LineItem {
	c := i
	c.CustomFields = make(map[string]string, len(i.CustomFields))
	for k, v := range i.CustomFields {
		c.CustomFields[k] = v
	}
	return c
}

type lineItemJSON struct {
	ID           string            `json:"id"`
	Product      string            `json:"product"`
	NetWeight    string            `json:"netWeight"`
	Lot          string            `json:"lot"`
	Quantity     float64           `json:"quantity"`
	Price        float64           `json:"price"`
	Total        float64           `json:"total"`
	CustomFields map[string]string `json:"customFields"`
}

// MarshalJSON writes the derived total next to quantity and price.
func (i LineItem) MarshalJSON() ([]byte, error) {
	fields := i.CustomFields
	if fields == nil {
		fields = map[string]string{}
	}
	return json.Marshal(lineItemJSON{
		ID:           i.ID,
		Product:      i.Product,
		NetWeight:    i.NetWeight,
		Lot:          i.Lot,
		Quantity:     i.Quantity,
		Price:        i.Price,
		Total:        i.Total(),
		CustomFields: fields,
	})
}

// UnmarshalJSON ignores any stored total; it is recomputed on read.
func (i *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = LineItem{
		ID:           raw.ID,
		Product:      raw.Product,
		NetWeight:    raw.NetWeight,
		Lot:          raw.Lot,
		Quantity:     raw.Quantity,
		Price:        raw.Price,
		CustomFields: raw.CustomFields,
	}
	if i.CustomFields == nil {
		i.CustomFields = map[string]string{}
	}
	return nil
}
