package types

import "strings"

// ShippingAddress is the address block attached to order submissions.
type ShippingAddress struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zipcode string `json:"zipcode" validate:"required"`
}

// IsZero reports whether no address fields were supplied.
func (a ShippingAddress) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Zipcode) == ""
}
