package albaran

import (
	"albaranes/internal/pricing"
	"albaranes/pkg/models"
)

// SampleCustomers is the demo customer directory.
func SampleCustomers() []models.Customer {
	return []models.Customer{
		{ID: "1", Name: "Fruterías García SL", Address: "Mercamadrid, Nave 12, Madrid", TaxID: "B12345678", Email: "pedidos@garcia.com", Phone: "912345678"},
		{ID: "2", Name: "Restaurante El Gourmet", Address: "Calle Gran Vía 45, Madrid", TaxID: "A87654321", Email: "cocina@elgourmet.es", Phone: "918765432"},
		{ID: "3", Name: "Supermercados Express", Address: "Av. de la Constitución 12, Getafe", TaxID: "B44556677", Email: "recepcion@superexpress.com", Phone: "913334455"},
	}
}

// SampleHistory is a demo history, newest first, issued under header.
func SampleHistory(header models.CompanyHeader) []models.DeliveryNote {
	customers := SampleCustomers()
	item := func(id, product, weight, lot string, qty, price float64) models.LineItem {
		i := models.NewLineItem(id, nil)
		i.Product, i.NetWeight, i.Lot, i.Quantity, i.Price = product, weight, lot, qty, price
		return i
	}

	notes := []models.DeliveryNote{
		{
			ID:       "h2",
			Number:   "ALB-2024-0002",
			Date:     "2024-03-12",
			Header:   header,
			Customer: customers[1],
			Items: []models.LineItem{
				item("p2", "Patatas Kennebec", "100kg", "L24-05", 4, 0.8),
				item("p3", "Cebollas Dulces", "20kg", "L24-09", 2, 1.2),
			},
			HidePrices:       true,
			ExtraColumnNames: []string{},
		},
		{
			ID:               "h1",
			Number:           "ALB-2024-0001",
			Date:             "2024-03-10",
			Header:           header,
			Customer:         customers[0],
			Items:            []models.LineItem{item("p1", "Manzanas Golden", "50kg", "L24-01", 2, 1.5)},
			ExtraColumnNames: []string{},
		},
	}
	for i := range notes {
		pricing.Apply(&notes[i])
	}
	return notes
}
