package domain

import "time"

// CarType represents the body-type category of a car.
type CarType string

const (
	CarTypeSedan     CarType = "SEDAN"
	CarTypeSUV       CarType = "SUV"
	CarTypeHatchback CarType = "HATCHBACK"
	CarTypeUniversal CarType = "UNIVERSAL"
)

// ValidCarType reports whether t is one of the known body types.
func ValidCarType(t CarType) bool {
	switch t {
	case CarTypeSedan, CarTypeSUV, CarTypeHatchback, CarTypeUniversal:
		return true
	default:
		return false
	}
}

// Car represents a rentable car model in the fleet.
// Inventory is the number of units currently available for rental;
// it is mutated only through the inventory ledger's reserve/release path.
type Car struct {
	ID            string
	Brand         string
	Model         string
	Type          CarType
	Inventory     int
	DailyFeeCents int64
	IsDeleted     bool
	CreatedAt     time.Time
}
