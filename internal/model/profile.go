package model

import "time"

// SkinType enumerates the four supported skin classifications.
type SkinType string

const (
	SkinOily        SkinType = "oily"
	SkinDry         SkinType = "dry"
	SkinCombination SkinType = "combination"
	SkinSensitive   SkinType = "sensitive"
)

// ValidSkinType reports whether s is one of the supported skin types.
func ValidSkinType(s SkinType) bool {
	switch s {
	case SkinOily, SkinDry, SkinCombination, SkinSensitive:
		return true
	}
	return false
}

// SkinProfile holds the answers collected during onboarding.  There is
// at most one profile per user (enforced by a unique index on user_id).
// Age and BudgetMonthly are pointers because an empty answer means
// "unspecified" end to end: it is omitted from AI prompts and stored as
// NULL, never coerced to zero.
type SkinProfile struct {
	ID            uint64    // skin_profiles.id
	UserID        uint64    // skin_profiles.user_id
	SkinType      SkinType  // skin_profiles.skin_type
	Age           *int      // skin_profiles.age (nullable)
	Concerns      []string  // skin_profiles.concerns (JSON array)
	BudgetMonthly *float64  // skin_profiles.budget_monthly (nullable)
	CreatedAt     time.Time // skin_profiles.created_at
	UpdatedAt     time.Time // skin_profiles.updated_at
}
