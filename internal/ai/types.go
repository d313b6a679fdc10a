package ai

import "github.com/rbarbosa/glowroutine/internal/model"

// WeeklyPlan is the validated shape of a routine-generation reply: up
// to seven day plans plus free-text tips and warnings for the week.
type WeeklyPlan struct {
	Routines   []DayPlan `json:"routines"`
	WeeklyTips []string  `json:"weekly_tips"`
	Warnings   []string  `json:"warnings"`
}

// DayPlan holds the step lists for one day of the week (Sunday=0).
// Either period may be absent; an absent period produces no routine row.
type DayPlan struct {
	Day     int        `json:"day"`
	Morning []PlanStep `json:"morning"`
	Night   []PlanStep `json:"night"`
}

// PlanStep is one model-authored routine step.  The three free-text
// fields are flattened into a single notes column on persistence.
type PlanStep struct {
	StepType          model.StepType `json:"step_type"`
	ProductSuggestion string         `json:"product_suggestion"`
	Instructions      string         `json:"instructions"`
	Notes             string         `json:"notes"`
}

// ProductAnalysis is the validated shape of a scanner reply.
type ProductAnalysis struct {
	ProductName            string                `json:"product_name"`
	ProductType            model.ProductCategory `json:"product_type"`
	KeyActives             []string              `json:"key_actives"`
	Purpose                string                `json:"purpose"`
	WhenToUse              string                `json:"when_to_use"` // morning|night|both
	Instructions           string                `json:"instructions"`
	Compatibility          model.Suitability     `json:"compatibility"`
	Reason                 string                `json:"reason"`
	RecommendedAlternative *Alternative          `json:"recommended_alternative,omitempty"`
	RoutineStepType        model.StepType        `json:"routine_step_type"`
}

// Alternative is the optional replacement suggestion attached to an
// unfavourable analysis.
type Alternative struct {
	Type      string `json:"type"`
	Why       string `json:"why"`
	PriceHint string `json:"price_hint"`
}

// TipList is the shape of a personalized-tips reply.
type TipList struct {
	Tips []string `json:"tips"`
}
