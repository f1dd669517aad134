package albaran

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albaranes/pkg/models"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft()
	require.Len(t, d.Items, 1)
	assert.Equal(t, 1.0, d.Items[0].Quantity)
	assert.Zero(t, d.Items[0].Price)
	assert.Empty(t, d.ExtraColumnNames)
}

func TestDraftItems(t *testing.T) {
	d := NewDraft()
	second := d.AddItem()
	assert.NotEqual(t, d.Items[0].ID, second.ID)
	require.Len(t, d.Items, 2)

	require.NoError(t, d.RemoveItem(d.Items[0].ID))
	assert.Equal(t, second.ID, d.Items[0].ID)

	assert.ErrorIs(t, d.RemoveItem(second.ID), ErrLastItem)
	assert.Len(t, d.Items, 1)

	assert.ErrorIs(t, d.RemoveItem("nope"), ErrItemNotFound)
}

func TestDraftTotalsFollowEdits(t *testing.T) {
	d := NewDraft()
	id := d.Items[0].ID
	require.NoError(t, d.SetQuantity(id, 2))
	require.NoError(t, d.SetPrice(id, 1.5))
	assert.Equal(t, 3.0, d.Items[0].Total())

	require.NoError(t, d.SetQuantity(id, 4))
	assert.Equal(t, 6.0, d.Items[0].Total())
	assert.Equal(t, 6.0, d.Totals().Subtotal)

	err := d.SetPrice(id, -1)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1.5, d.Items[0].Price)

	err = d.SetQuantity(id, -0.5)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
}

func TestDraftColumns(t *testing.T) {
	d := NewDraft()
	d.AddItem()

	require.NoError(t, d.AddColumn("Pallet"))
	for _, item := range d.Items {
		value, ok := item.CustomFields["Pallet"]
		assert.True(t, ok)
		assert.Empty(t, value)
	}

	require.NoError(t, d.SetField(d.Items[0].ID, "Pallet", "EUR-1"))
	assert.Equal(t, "EUR-1", d.Items[0].Field("Pallet"))

	assert.ErrorIs(t, d.AddColumn("Pallet"), ErrDuplicateColumn)
	assert.ErrorIs(t, d.AddColumn("   "), ErrEmptyColumn)
	assert.ErrorIs(t, d.SetField(d.Items[0].ID, "Origen", "x"), ErrUnknownColumn)

	require.NoError(t, d.RemoveColumn("Pallet"))
	assert.Empty(t, d.ExtraColumnNames)
	for _, item := range d.Items {
		assert.NotContains(t, item.CustomFields, "Pallet")
	}

	// Re-adding never brings back the old value.
	require.NoError(t, d.AddColumn("Pallet"))
	assert.Equal(t, "", d.Items[0].Field("Pallet"))

	assert.ErrorIs(t, d.RemoveColumn("Origen"), ErrUnknownColumn)
}

func TestDraftNormalize(t *testing.T) {
	d := &Draft{
		ExtraColumnNames: []string{"Pallet", " ", "Pallet", "Origen"},
		Items: []models.LineItem{
			{ID: "7", Product: "A", CustomFields: map[string]string{"Pallet": "1", "Stale": "x"}},
			{ID: "7", Product: "B"},
			{Product: "C"},
		},
	}
	d.Normalize()

	assert.Equal(t, []string{"Pallet", "Origen"}, d.ExtraColumnNames)
	assert.Equal(t, "7", d.Items[0].ID)
	assert.Equal(t, "8", d.Items[1].ID)
	assert.Equal(t, "9", d.Items[2].ID)
	assert.Equal(t, map[string]string{"Pallet": "1", "Origen": ""}, d.Items[0].CustomFields)
	assert.Equal(t, map[string]string{"Pallet": "", "Origen": ""}, d.Items[2].CustomFields)

	empty := &Draft{}
	empty.Normalize()
	assert.Len(t, empty.Items, 1)
}

func TestValidateDraft(t *testing.T) {
	d := NewDraft()
	d.Items[0].Product = "Manzanas"

	var ve *ValidationError
	require.ErrorAs(t, ValidateDraft(d), &ve)
	assert.Equal(t, "customerId", ve.Field)
	assert.Equal(t, "no customer selected", ve.Message)

	d.CustomerID = "1"
	require.NoError(t, ValidateDraft(d))

	d.AddItem()
	err := ValidateDraft(d)
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "items[1].product", ve.Field)

	d.Items[1].Product = "   "
	assert.Error(t, ValidateDraft(d), "blank product names do not count")
}

func TestValidateCustomer(t *testing.T) {
	assert.NoError(t, ValidateCustomer(models.Customer{Name: "Fruterías García SL"}))
	assert.ErrorIs(t, ValidateCustomer(models.Customer{}), ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, ValidateCustomer(models.Customer{Name: "X", Email: "not-an-email"}), &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestNextNumber(t *testing.T) {
	history := []models.DeliveryNote{
		{Number: "ALB-2024-0003"},
		{Number: "ALB-2023-0010"},
		{Number: "ALB-2024-0001"},
		{Number: "garbage"},
	}
	assert.Equal(t, "ALB-2024-0004", NextNumber(history, 2024))
	assert.Equal(t, "ALB-2025-0001", NextNumber(history, 2025))
	assert.Equal(t, "ALB-2024-0001", NextNumber(nil, 2024))
}

func TestIssue(t *testing.T) {
	customer := models.Customer{ID: "1", Name: "Cliente de Prueba SL", TaxID: "B12345678"}
	header := models.CompanyHeader{Name: "Mi Empresa SL", TaxID: "A87654321"}
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	d := NewDraft()
	d.CustomerID = "1"
	require.NoError(t, d.AddColumn("Pallet"))
	require.NoError(t, d.SetProduct(d.Items[0].ID, "Manzanas"))
	require.NoError(t, d.SetQuantity(d.Items[0].ID, 2))
	require.NoError(t, d.SetPrice(d.Items[0].ID, 1.5))
	d.Notes = "Frágil"

	note, err := Issue(d, customer, header, []models.DeliveryNote{{Number: "ALB-2024-0041"}}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "ALB-2024-0042", note.Number)
	assert.Equal(t, "2024-03-05", note.Date)
	assert.Equal(t, customer, note.Customer)
	assert.Equal(t, header, note.Header)
	assert.Equal(t, "Frágil", note.Notes)
	assert.Equal(t, []string{"Pallet"}, note.ExtraColumnNames)
	assert.InDelta(t, 3.0, note.Subtotal, 1e-9)
	assert.InDelta(t, 0.63, note.TaxAmount, 1e-9)
	assert.InDelta(t, 3.63, note.Total, 1e-9)

	// Later draft edits must not reach the issued note.
	require.NoError(t, d.SetField(d.Items[0].ID, "Pallet", "EUR-1"))
	require.NoError(t, d.SetProduct(d.Items[0].ID, "Peras"))
	d.ExtraColumnNames[0] = "Changed"
	assert.Equal(t, "Manzanas", note.Items[0].Product)
	assert.Equal(t, "", note.Items[0].Field("Pallet"))
	assert.Equal(t, []string{"Pallet"}, note.ExtraColumnNames)
}

func TestIssueRejectsInvalidDraft(t *testing.T) {
	_, err := Issue(NewDraft(), models.Customer{}, models.CompanyHeader{}, nil, time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIssueNormalizesColumns(t *testing.T) {
	d := &Draft{
		CustomerID:       "1",
		ExtraColumnNames: []string{"Pallet", " ", "Pallet", "Caja"},
		Items: []models.LineItem{{
			ID:           "1",
			Product:      "Manzanas",
			Quantity:     1,
			CustomFields: map[string]string{"Pallet": "EUR-1", "Removed": "old"},
		}},
	}

	note, err := Issue(d, models.Customer{ID: "1"}, models.CompanyHeader{}, nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"Pallet", "Caja"}, note.ExtraColumnNames)
	assert.Equal(t, map[string]string{"Pallet": "EUR-1", "Caja": ""}, note.Items[0].CustomFields)

	// The draft itself is left as it was.
	assert.Equal(t, []string{"Pallet", " ", "Pallet", "Caja"}, d.ExtraColumnNames)
	assert.Equal(t, "old", d.Items[0].CustomFields["Removed"])
}
