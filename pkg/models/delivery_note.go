package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format stored in DeliveryNote.Date.
const DateLayout = "2006-01-02"

// NumberPrefix starts every delivery note number.
const NumberPrefix = "ALB"

// DeliveryNote (albarán) is the document of record. Once issued it is never
// modified, only deleted.
type DeliveryNote struct {
	// Core identifiers
	ID     string `json:"id"`
	Number string `json:"number"` // ALB-<year>-<4-digit sequence>
	Date   string `json:"date"`   // Issue date, DateLayout

	// Snapshots taken at issue time
	Header   CompanyHeader `json:"header"`
	Customer Customer      `json:"customer"`

	Items []LineItem `json:"items"`

	// Derived amounts, see internal/pricing
	Subtotal  float64 `json:"subtotal"`
	TaxRate   float64 `json:"taxRate"`
	TaxAmount float64 `json:"taxAmount"`
	Total     float64 `json:"total"`

	Notes            string   `json:"notes,omitempty"`
	HidePrices       bool     `json:"hidePrices"`
	ExtraColumnNames []string `json:"extraColumnNames"`
}

// Clone returns a deep copy of the note.
func (n DeliveryNote) Clone() DeliveryNote {
	c := n
	if n.Items != nil {
		c.Items = make([]LineItem, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = item.Clone()
		}
	}
	if n.ExtraColumnNames != nil {
		c.ExtraColumnNames = append([]string{}, n.ExtraColumnNames...)
	}
	return c
}

// Filename is the suggested file name of the rendered document.
func (n DeliveryNote) Filename() string {
	return n.Number + ".pdf"
}

// IssuedAt parses Date. The zero time is returned for malformed dates.
func (n DeliveryNote) IssuedAt() time.Time {
	t, err := time.Parse(DateLayout, n.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatNumber renders a delivery note number.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", NumberPrefix, year, seq)
}

// ParseNumber splits a delivery note number into year and sequence.
func ParseNumber(number string) (year, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != NumberPrefix {
		return 0, 0, fmt.Errorf("malformed delivery note number %q", number)
	}
	if year, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("malformed year in %q: %w", number, err)
	}
	if seq, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, fmt.Errorf("malformed sequence in %q: %w", number, err)
	}
	return year, seq, nil
}
