package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albaranes/pkg/models"
)

func TestLineItemTotalFollowsQuantityAndPrice(t *testing.T) {
	item := models.NewLineItem("1", nil)
	assert.Equal(t, 0.0, item.Total())

	item.Quantity = 4
	item.Price = 0.8
	assert.Equal(t, 4*0.8, item.Total())

	item.Price = 2.5
	assert.Equal(t, 10.0, item.Total())
}

func TestLineItemJSONIgnoresStoredTotal(t *testing.T) {
	var item models.LineItem
	err := json.Unmarshal([]byte(`{"id":"p1","product":"Manzanas","quantity":2,"price":1.5,"total":99}`), &item)
	require.NoError(t, err)

	assert.Equal(t, 3.0, item.Total())
	assert.NotNil(t, item.CustomFields)

	out, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"total":3`)
}

func TestLineItemFieldMissingIsEmpty(t *testing.T) {
	item := models.NewLineItem("1", nil)
	assert.Equal(t, "", item.Field("Pallet"))
}

func TestDeliveryNoteJSONRoundTrip(t *testing.T) {
	item := models.NewLineItem("p1", []string{"Pallet"})
	item.Product = "Manzanas"
	item.NetWeight = "50kg"
	item.Lot = "L24-01"
	item.Quantity = 2
	item.Price = 1.5
	item.CustomFields["Pallet"] = "EUR-1"

	note := models.DeliveryNote{
		ID:     "n1",
		Number: "ALB-2024-0001",
		Date:   "2024-03-10",
		Header: models.CompanyHeader{
			Name:  "Mi Empresa SL",
			TaxID: "A87654321",
			Logo:  models.EncodeLogo("png", []byte{1, 2, 3}),
		},
		Customer:         models.Customer{ID: "1", Name: "Cliente de Prueba SL"},
		Items:            []models.LineItem{item},
		Subtotal:         3,
		TaxRate:          0.21,
		TaxAmount:        0.63,
		Total:            3.63,
		Notes:            "Gracias",
		HidePrices:       true,
		ExtraColumnNames: []string{"Pallet"},
	}

	data, err := json.Marshal(note)
	require.NoError(t, err)

	var decoded models.DeliveryNote
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, note, decoded)
}

func TestLineItemNilFieldsDecodeEmpty(t *testing.T) {
	data, err := json.Marshal(models.LineItem{ID: "1", Product: "Manzanas"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"customFields":{}`)

	var decoded models.LineItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotNil(t, decoded.CustomFields)
	assert.Empty(t, decoded.CustomFields)
	assert.Equal(t, models.LineItem{ID: "1", Product: "Manzanas"}.Clone(), decoded)
}

func TestDeliveryNoteCloneIsDeep(t *testing.T) {
	item := models.NewLineItem("p1", []string{"Pallet"})
	note := models.DeliveryNote{
		Items:            []models.LineItem{item},
		ExtraColumnNames: []string{"Pallet"},
	}

	clone := note.Clone()
	clone.Items[0].CustomFields["Pallet"] = "changed"
	clone.Items[0].Product = "changed"
	clone.ExtraColumnNames[0] = "changed"

	assert.Equal(t, "", note.Items[0].Field("Pallet"))
	assert.Equal(t, "", note.Items[0].Product)
	assert.Equal(t, "Pallet", note.ExtraColumnNames[0])
}

func TestParseLogo(t *testing.T) {
	t.Run("declared format", func(t *testing.T) {
		logo, err := models.ParseLogo(models.EncodeLogo("jpg", []byte("jpegdata")))
		require.NoError(t, err)
		assert.Equal(t, "JPEG", logo.Format)
		assert.Equal(t, []byte("jpegdata"), logo.Data)
	})

	t.Run("unrecognized tag falls back", func(t *testing.T) {
		logo, err := models.ParseLogo("data:application/octet-stream;base64,AQID")
		require.NoError(t, err)
		assert.Equal(t, models.DefaultLogoFormat, logo.Format)
	})

	t.Run("bare base64", func(t *testing.T) {
		logo, err := models.ParseLogo("AQID")
		require.NoError(t, err)
		assert.Equal(t, models.DefaultLogoFormat, logo.Format)
		assert.Equal(t, []byte{1, 2, 3}, logo.Data)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		_, err := models.ParseLogo("data:image/png;base64,@@@")
		assert.ErrorIs(t, err, models.ErrInvalidLogo)
	})
}

func TestNumberFormatting(t *testing.T) {
	number := models.FormatNumber(2024, 7)
	assert.Equal(t, "ALB-2024-0007", number)

	year, seq, err := models.ParseNumber(number)
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 7, seq)

	_, _, err = models.ParseNumber("FAC-2024-0001")
	assert.Error(t, err)
}
