package albaran

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"albaranes/internal/pricing"
	"albaranes/pkg/models"
)

// NextNumber returns the next delivery note number for year: one more than
// the highest sequence already used that year. Numbers that do not parse
// are ignored.
func NextNumber(history []models.DeliveryNote, year int) string {
	last := 0
	for _, note := range history {
		y, seq, err := models.ParseNumber(note.Number)
		if err != nil || y != year {
			continue
		}
		last = max(last, seq)
	}
	return models.FormatNumber(year, last+1)
}

// Issue validates d and turns it into an immutable delivery note. Customer
// and header are copied so later directory edits never reach the note. The
// note gets a normalized copy of the columns: blank and repeated names are
// dropped and every item holds exactly one value per remaining column. d
// itself is left untouched.
func Issue(d *Draft, customer models.Customer, header models.CompanyHeader, history []models.DeliveryNote, now time.Time) (models.DeliveryNote, error) {
	if err := ValidateDraft(d); err != nil {
		return models.DeliveryNote{}, err
	}
	if customer.ID != d.CustomerID {
		return models.DeliveryNote{}, fmt.Errorf("Issue: %w: %q", ErrCustomerNotFound, d.CustomerID)
	}

	issued := d.clone()
	issued.Normalize()

	note := models.DeliveryNote{
		ID:               uuid.NewString(),
		Number:           NextNumber(history, now.Year()),
		Date:             now.Format(models.DateLayout),
		Header:           header,
		Customer:         customer,
		Items:            issued.Items,
		Notes:            d.Notes,
		HidePrices:       d.HidePrices,
		ExtraColumnNames: issued.ExtraColumnNames,
	}
	pricing.Apply(&note)

	return note, nil
}
