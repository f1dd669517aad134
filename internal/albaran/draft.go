package albaran

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"albaranes/internal/pricing"
	"albaranes/pkg/models"
)

// Draft is a delivery note being edited. It becomes a models.DeliveryNote
// only through Issue.
type Draft struct {
	CustomerID       string            `json:"customerId"`
	Items            []models.LineItem `json:"items"`
	Notes            string            `json:"notes"`
	HidePrices       bool              `json:"hidePrices"`
	ExtraColumnNames []string          `json:"extraColumnNames"`
}

// NewDraft returns a draft with one empty line item.
func NewDraft() *Draft {
	return &Draft{
		Items:            []models.LineItem{models.NewLineItem("1", nil)},
		ExtraColumnNames: []string{},
	}
}

func (d *Draft) clone() *Draft {
	c := *d
	c.Items = make([]models.LineItem, len(d.Items))
	for i, item := range d.Items {
		c.Items[i] = item.Clone()
	}
	c.ExtraColumnNames = slices.Clone(d.ExtraColumnNames)
	return &c
}

// Normalize repairs a draft built elsewhere, e.g. decoded from JSON: blank
// and repeated columns are dropped, items get unique ids and exactly one
// value per column, and an empty draft gets its first item.
func (d *Draft) Normalize() {
	columns := make([]string, 0, len(d.ExtraColumnNames))
	for _, name := range d.ExtraColumnNames {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(columns, name) {
			columns = append(columns, name)
		}
	}
	d.ExtraColumnNames = columns

	if len(d.Items) == 0 {
		d.Items = []models.LineItem{models.NewLineItem("1", columns)}
		return
	}

	seen := make(map[string]bool, len(d.Items))
	for i := range d.Items {
		item := &d.Items[i]
		if item.ID == "" || seen[item.ID] {
			item.ID = d.nextItemID()
		}
		seen[item.ID] = true

		fields := make(map[string]string, len(columns))
		for _, col := range columns {
			fields[col] = item.CustomFields[col]
		}
		item.CustomFields = fields
	}
}

// nextItemID returns one more than the largest numeric item id.
func (d *Draft) nextItemID() string {
	next := 1
	for _, item := range d.Items {
		if n, err := strconv.Atoi(item.ID); err == nil && n >= next {
			next = n + 1
		}
	}
	return strconv.Itoa(next)
}

// AddItem appends an empty line item with quantity 1 and returns it.
func (d *Draft) AddItem() models.LineItem {
	item := models.NewLineItem(d.nextItemID(), d.ExtraColumnNames)
	d.Items = append(d.Items, item)
	return item
}

// RemoveItem deletes a line item. The last remaining item cannot be removed.
func (d *Draft) RemoveItem(id string) error {
	idx, err := d.index(id)
	if err != nil {
		return err
	}
	if len(d.Items) <= 1 {
		return ErrLastItem
	}
	d.Items = slices.Delete(d.Items, idx, idx+1)
	return nil
}

func (d *Draft) index(id string) (int, error) {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrItemNotFound, id)
}

func (d *Draft) update(id string, fn func(*models.LineItem)) error {
	idx, err := d.index(id)
	if err != nil {
		return err
	}
	fn(&d.Items[idx])
	return nil
}

func (d *Draft) SetProduct(id, product string) error {
	return d.update(id, func(i *models.LineItem) { i.Product = product })
}

func (d *Draft) SetNetWeight(id, netWeight string) error {
	return d.update(id, func(i *models.LineItem) { i.NetWeight = netWeight })
}

func (d *Draft) SetLot(id, lot string) error {
	return d.update(id, func(i *models.LineItem) { i.Lot = lot })
}

// SetQuantity rejects negative quantities.
func (d *Draft) SetQuantity(id string, quantity float64) error {
	if quantity < 0 {
		return NewValidationError("quantity", "must not be negative")
	}
	return d.update(id, func(i *models.LineItem) { i.Quantity = quantity })
}

// SetPrice rejects negative prices.
func (d *Draft) SetPrice(id string, price float64) error {
	if price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	return d.update(id, func(i *models.LineItem) { i.Price = price })
}

// SetField sets the value of an extra column on one item.
func (d *Draft) SetField(id, column, value string) error {
	if !slices.Contains(d.ExtraColumnNames, column) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return d.update(id, func(i *models.LineItem) {
		if i.CustomFields == nil {
			i.CustomFields = make(map[string]string)
		}
		i.CustomFields[column] = value
	})
}

// AddColumn defines a new extra column. Every item starts with an empty
// value for it, even if the column existed before and was removed.
func (d *Draft) AddColumn(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyColumn
	}
	if slices.Contains(d.ExtraColumnNames, name) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}

	d.ExtraColumnNames = append(d.ExtraColumnNames, name)
	for i := range d.Items {
		if d.Items[i].CustomFields == nil {
			d.Items[i].CustomFields = make(map[string]string)
		}
		d.Items[i].CustomFields[name] = ""
	}
	return nil
}

// RemoveColumn drops an extra column and its value from every item.
func (d *Draft) RemoveColumn(name string) error {
	idx := slices.Index(d.ExtraColumnNames, name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}

	d.ExtraColumnNames = slices.Delete(d.ExtraColumnNames, idx, idx+1)
	for i := range d.Items {
		delete(d.Items[i].CustomFields, name)
	}
	return nil
}

// Totals computes the amounts of the current items.
func (d *Draft) Totals() pricing.Totals {
	return pricing.Calculate(d.Items)
}
