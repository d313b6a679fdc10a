package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// DecodeError is returned when a model reply does not decode into the
// documented shape or fails validation.  The raw payload travels with
// the error so callers can still write it to the audit trail.
type DecodeError struct {
	Reason string
	Raw    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid model response: %s", e.Reason)
}

// ParseWeeklyPlan strictly decodes a routine-generation reply.  It
// rejects anything the planner cannot safely persist: more than seven
// day plans, out-of-range or duplicate days, unknown step types, steps
// without a product suggestion, and morning lists that do not end with
// an SPF step.
func ParseWeeklyPlan(raw string) (*WeeklyPlan, error) {
	var plan WeeklyPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &plan); err != nil {
		return nil, &DecodeError{Reason: "not a JSON object: " + err.Error(), Raw: raw}
	}
	if len(plan.Routines) == 0 {
		return nil, &DecodeError{Reason: "no day plans", Raw: raw}
	}
	if len(plan.Routines) > 7 {
		return nil, &DecodeError{Reason: fmt.Sprintf("%d day plans, want at most 7", len(plan.Routines)), Raw: raw}
	}
	seen := map[int]bool{}
	for _, day := range plan.Routines {
		if day.Day < 0 || day.Day > 6 {
			return nil, &DecodeError{Reason: fmt.Sprintf("day %d out of range [0,6]", day.Day), Raw: raw}
		}
		if seen[day.Day] {
			return nil, &DecodeError{Reason: fmt.Sprintf("duplicate plan for day %d", day.Day), Raw: raw}
		}
		seen[day.Day] = true

		if err := validateSteps(day.Morning, day.Day, "morning"); err != nil {
			return nil, &DecodeError{Reason: err.Error(), Raw: raw}
		}
		if err := validateSteps(day.Night, day.Day, "night"); err != nil {
			return nil, &DecodeError{Reason: err.Error(), Raw: raw}
		}
		if n := len(day.Morning); n > 0 && day.Morning[n-1].StepType != model.StepSPF {
			return nil, &DecodeError{
				Reason: fmt.Sprintf("day %d morning does not end with an spf step", day.Day),
				Raw:    raw,
			}
		}
	}
	return &plan, nil
}

func validateSteps(steps []PlanStep, day int, period string) error {
	for i, s := range steps {
		if !model.ValidStepType(s.StepType) {
			return fmt.Errorf("day %d %s step %d: unknown step_type %q", day, period, i, s.StepType)
		}
		if strings.TrimSpace(s.ProductSuggestion) == "" {
			return fmt.Errorf("day %d %s step %d: empty product_suggestion", day, period, i)
		}
	}
	return nil
}

// ParseProductAnalysis strictly decodes a scanner reply, checking all
// enum fields against their documented value sets.
func ParseProductAnalysis(raw string) (*ProductAnalysis, error) {
	var a ProductAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &a); err != nil {
		return nil, &DecodeError{Reason: "not a JSON object: " + err.Error(), Raw: raw}
	}
	if strings.TrimSpace(a.ProductName) == "" {
		return nil, &DecodeError{Reason: "empty product_name", Raw: raw}
	}
	if !model.ValidProductCategory(a.ProductType) {
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown product_type %q", a.ProductType), Raw: raw}
	}
	switch a.WhenToUse {
	case "morning", "night", "both":
	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown when_to_use %q", a.WhenToUse), Raw: raw}
	}
	if !model.ValidSuitability(a.Compatibility) {
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown compatibility %q", a.Compatibility), Raw: raw}
	}
	if !model.ValidStepType(a.RoutineStepType) {
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown routine_step_type %q", a.RoutineStepType), Raw: raw}
	}
	return &a, nil
}

// ParseTips decodes a personalized-tips reply.  An empty list is legal;
// the overview simply renders nothing.
func ParseTips(raw string) ([]string, error) {
	var t TipList
	if err := json.Unmarshal([]byte(stripFences(raw)), &t); err != nil {
		return nil, &DecodeError{Reason: "not a JSON object: " + err.Error(), Raw: raw}
	}
	return t.Tips, nil
}

// stripFences removes a surrounding markdown code fence, which some
// models emit despite the JSON response format constraint.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
