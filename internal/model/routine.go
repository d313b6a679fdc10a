package model

import "time"

// Period is one of the two routine time slots per day.
type Period string

const (
	PeriodMorning Period = "morning"
	PeriodNight   Period = "night"
)

// ValidPeriod reports whether p is morning or night.
func ValidPeriod(p Period) bool { return p == PeriodMorning || p == PeriodNight }

// StepType classifies one action within a routine.
type StepType string

const (
	StepCleanse StepType = "cleanse"
	StepTreat   StepType = "treat"
	StepHydrate StepType = "hydrate"
	StepSPF     StepType = "spf"
	StepOther   StepType = "other"
)

// ValidStepType reports whether s is a known step type.
func ValidStepType(s StepType) bool {
	switch s {
	case StepCleanse, StepTreat, StepHydrate, StepSPF, StepOther:
		return true
	}
	return false
}

// Routine identifies the ordered set of steps a user performs for one
// (day_of_week, period) combination.  DayOfWeek is 0..6 with Sunday=0.
// There is at most one routine per (user, day, period) tuple; rows are
// created lazily, either in bulk when a weekly plan is persisted or
// on demand when the scanner adds the first item for a slot.
type Routine struct {
	ID        uint64    // routines.id
	UserID    uint64    // routines.user_id
	DayOfWeek int       // routines.day_of_week (0=Sunday .. 6=Saturday)
	Period    Period    // routines.period
	CreatedAt time.Time // routines.created_at
	UpdatedAt time.Time // routines.updated_at
}

// RoutineItem is one ordered action within a routine, optionally tied
// to a specific product.  Ordering within a routine is by StepOrder
// ascending; the sequence is not required to be contiguous.  AINotes
// carries the free text authored by the model.
type RoutineItem struct {
	ID        uint64    // routine_items.id
	RoutineID uint64    // routine_items.routine_id
	ProductID *uint64   // routine_items.product_id (nullable)
	StepOrder int       // routine_items.step_order
	StepType  StepType  // routine_items.step_type
	AINotes   string    // routine_items.ai_notes
	CreatedAt time.Time // routine_items.created_at
}
