package models

// Customer is an entry of the customer directory. Delivery notes keep a copy
// of it, so editing the directory never changes an issued note.
type Customer struct {
	ID      string `json:"id"`      // Stable opaque identifier
	Name    string `json:"name"`    // Legal or trade name
	Address string `json:"address"` // Postal address, single line
	TaxID   string `json:"taxId"`   // NIF/CIF
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}
