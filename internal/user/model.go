package user

import (
	"time"

	"bakery-be/internal/checkout"
)

// Profile holds what the storefront remembers about a customer between
// checkouts.
type Profile struct {
	CustomerID  string
	FullName    string
	Phone       string
	Email       *string
	AddressLine string
	City        string
	PostalCode  string
	UpdatedAt   time.Time
}

// Shipping returns the profile as checkout form defaults. The fee and method
// are left for the shipping step to choose.
func (p *Profile) Shipping() checkout.ShippingInfo {
	return checkout.ShippingInfo{
		Name:       p.FullName,
		Phone:      p.Phone,
		Address:    p.AddressLine,
		City:       p.City,
		PostalCode: p.PostalCode,
	}
}
