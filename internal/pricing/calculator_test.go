package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"albaranes/internal/pricing"
	"albaranes/pkg/models"
)

func item(qty, price float64) models.LineItem {
	i := models.NewLineItem("", nil)
	i.Quantity = qty
	i.Price = price
	return i
}

func TestCalculateSingleItem(t *testing.T) {
	totals := pricing.Calculate([]models.LineItem{item(2, 1.5)})

	assert.InDelta(t, 3.00, totals.Subtotal, 1e-9)
	assert.InDelta(t, 0.63, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 3.63, totals.Total, 1e-9)
	assert.Equal(t, pricing.TaxRate, totals.TaxRate)
}

func TestCalculateKeepsFullPrecision(t *testing.T) {
	totals := pricing.Calculate([]models.LineItem{item(4, 0.8), item(2, 1.2)})

	assert.InDelta(t, 5.60, totals.Subtotal, 1e-9)
	assert.InDelta(t, 1.176, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 6.776, totals.Total, 1e-9)
}

func TestCalculateRelations(t *testing.T) {
	items := []models.LineItem{item(3, 2.75), item(1, 10), item(0.5, 4.2)}
	totals := pricing.Calculate(items)

	var sum float64
	for _, i := range items {
		sum += i.Total()
	}
	assert.Equal(t, sum, totals.Subtotal)
	assert.Equal(t, totals.Subtotal*0.21, totals.TaxAmount)
	assert.Equal(t, totals.Subtotal+totals.TaxAmount, totals.Total)
}

func TestCalculateOrderIndependent(t *testing.T) {
	a := pricing.Calculate([]models.LineItem{item(1, 1), item(2, 2), item(3, 3)})
	b := pricing.Calculate([]models.LineItem{item(3, 3), item(1, 1), item(2, 2)})
	assert.Equal(t, a, b)
}

func TestCalculateEmpty(t *testing.T) {
	totals := pricing.Calculate(nil)
	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.TaxAmount)
	assert.Zero(t, totals.Total)
}

func TestApply(t *testing.T) {
	note := models.DeliveryNote{Items: []models.LineItem{item(2, 1.5)}}
	pricing.Apply(&note)

	assert.InDelta(t, 3.0, note.Subtotal, 1e-9)
	assert.Equal(t, pricing.TaxRate, note.TaxRate)
	assert.InDelta(t, 3.63, note.Total, 1e-9)
}
