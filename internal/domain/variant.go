package domain

import "github.com/shopspring/decimal"

// Variant is a sellable SKU of a product as reported by the clinic backend.
// Price and stock are the backend's last-known readings at search time; the
// backend remains the authority on both at sale commit time.
type Variant struct {
	ID          string
	ProductID   string
	ProductName string
	VariantName string
	SellPrice   decimal.Decimal
	Stock       int
	Barcode     string
}
