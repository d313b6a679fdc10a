package model

import "time"

// ProductCategory enumerates the seven product categories understood by
// the scanner and the planner.
type ProductCategory string

const (
	CategoryCleanser    ProductCategory = "cleanser"
	CategoryToner       ProductCategory = "toner"
	CategorySerum       ProductCategory = "serum"
	CategoryMoisturizer ProductCategory = "moisturizer"
	CategorySunscreen   ProductCategory = "sunscreen"
	CategoryTreatment   ProductCategory = "treatment"
	CategoryOther       ProductCategory = "other"
)

// ValidProductCategory reports whether c is a known category.
func ValidProductCategory(c ProductCategory) bool {
	switch c {
	case CategoryCleanser, CategoryToner, CategorySerum, CategoryMoisturizer,
		CategorySunscreen, CategoryTreatment, CategoryOther:
		return true
	}
	return false
}

// Suitability is the three-level compatibility verdict assigned by the
// scanner.  "avoid" suppresses promotion into a routine.
type Suitability string

const (
	SuitabilityGood    Suitability = "good"
	SuitabilityNeutral Suitability = "neutral"
	SuitabilityAvoid   Suitability = "avoid"
)

// ValidSuitability reports whether s is a known verdict.
func ValidSuitability(s Suitability) bool {
	switch s {
	case SuitabilityGood, SuitabilityNeutral, SuitabilityAvoid:
		return true
	}
	return false
}

// Product is a skincare product owned by one user.  Rows are created
// either manually or as a side effect of accepting a scanner result.
type Product struct {
	ID          uint64          // products.id
	UserID      uint64          // products.user_id
	Name        string          // products.name
	Brand       *string         // products.brand (nullable)
	Category    ProductCategory // products.category
	KeyActives  []string        // products.key_actives (JSON array)
	Notes       *string         // products.notes (nullable)
	Suitability *Suitability    // products.suitability (nullable)
	Price       *float64        // products.price (nullable)
	CreatedAt   time.Time       // products.created_at
}
