// Package pricing derives line and document amounts for delivery notes.
//
// Amounts are plain float64 values and are never rounded here; rounding to
// two decimals happens only when a value is displayed.
package pricing

import "albaranes/pkg/models"

// TaxRate is the VAT (IVA) rate applied to every delivery note.
const TaxRate = 0.21

// Totals holds the document-level amounts.
type Totals struct {
	Subtotal  float64
	TaxRate   float64
	TaxAmount float64
	Total     float64
}

// Calculate computes the totals of items at the fixed TaxRate.
func Calculate(items []models.LineItem) Totals {
	return CalculateWithRate(items, TaxRate)
}

// CalculateWithRate computes the totals of items at the given rate.
// No items yield zero totals.
func CalculateWithRate(items []models.LineItem, rate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total()
	}

	taxAmount := subtotal * rate
	return Totals{
		Subtotal:  subtotal,
		TaxRate:   rate,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

// Apply recomputes the totals of note from its items.
func Apply(note *models.DeliveryNote) Totals {
	totals := Calculate(note.Items)
	note.Subtotal = totals.Subtotal
	note.TaxRate = totals.TaxRate
	note.TaxAmount = totals.TaxAmount
	note.Total = totals.Total
	return totals
}
