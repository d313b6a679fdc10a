package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/glowroutine/internal/model"
)

const validDay = `{
  "day": %d,
  "morning": [
    {"step_type": "cleanse", "product_suggestion": "Gentle gel cleanser", "instructions": "Massage, rinse", "notes": ""},
    {"step_type": "hydrate", "product_suggestion": "Light moisturizer", "instructions": "Apply", "notes": ""},
    {"step_type": "spf", "product_suggestion": "SPF 50", "instructions": "Last step", "notes": "Reapply at noon"}
  ],
  "night": [
    {"step_type": "cleanse", "product_suggestion": "Oil cleanser", "instructions": "Double cleanse", "notes": ""},
    {"step_type": "treat", "product_suggestion": "Retinol 0.3%%", "instructions": "Pea sized", "notes": "2x per week"}
  ]
}`

func weekJSON(days ...int) string {
	out := `{"routines":[`
	for i, d := range days {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(validDay, d)
	}
	return out + `],"weekly_tips":["drink water"],"warnings":[]}`
}

func TestParseWeeklyPlanValid(t *testing.T) {
	plan, err := ParseWeeklyPlan(weekJSON(0, 1, 2, 3, 4, 5, 6))
	require.NoError(t, err)
	assert.Len(t, plan.Routines, 7)
	assert.Equal(t, model.StepSPF, plan.Routines[0].Morning[2].StepType)
	assert.Equal(t, []string{"drink water"}, plan.WeeklyTips)
}

func TestParseWeeklyPlanFenced(t *testing.T) {
	plan, err := ParseWeeklyPlan("```json\n" + weekJSON(0) + "\n```")
	require.NoError(t, err)
	assert.Len(t, plan.Routines, 1)
}

func TestParseWeeklyPlanRejectsTooManyDays(t *testing.T) {
	// Eight plans cannot map onto a week even with distinct day values.
	raw := `{"routines":[` +
		fmt.Sprintf(validDay, 0) + "," + fmt.Sprintf(validDay, 1) + "," +
		fmt.Sprintf(validDay, 2) + "," + fmt.Sprintf(validDay, 3) + "," +
		fmt.Sprintf(validDay, 4) + "," + fmt.Sprintf(validDay, 5) + "," +
		fmt.Sprintf(validDay, 6) + "," + fmt.Sprintf(validDay, 6) + `]}`
	_, err := ParseWeeklyPlan(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "at most 7")
	assert.Equal(t, raw, de.Raw)
}

func TestParseWeeklyPlanRejectsDayOutOfRange(t *testing.T) {
	_, err := ParseWeeklyPlan(weekJSON(7))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "out of range")
}

func TestParseWeeklyPlanRejectsDuplicateDay(t *testing.T) {
	_, err := ParseWeeklyPlan(weekJSON(3, 3))
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "duplicate")
}

func TestParseWeeklyPlanRejectsMorningWithoutFinalSPF(t *testing.T) {
	raw := `{"routines":[{
      "day": 0,
      "morning": [
        {"step_type": "spf", "product_suggestion": "SPF 30", "instructions": "", "notes": ""},
        {"step_type": "hydrate", "product_suggestion": "Moisturizer", "instructions": "", "notes": ""}
      ],
      "night": []
    }]}`
	_, err := ParseWeeklyPlan(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "spf")
}

func TestParseWeeklyPlanRejectsUnknownStepType(t *testing.T) {
	raw := `{"routines":[{
      "day": 0,
      "morning": [{"step_type": "exfoliate", "product_suggestion": "AHA", "instructions": "", "notes": ""}],
      "night": []
    }]}`
	_, err := ParseWeeklyPlan(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "step_type")
}

func TestParseWeeklyPlanRejectsEmptySuggestion(t *testing.T) {
	raw := `{"routines":[{
      "day": 0,
      "morning": [],
      "night": [{"step_type": "treat", "product_suggestion": "  ", "instructions": "", "notes": ""}]
    }]}`
	_, err := ParseWeeklyPlan(raw)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "product_suggestion")
}

func TestParseWeeklyPlanRejectsNonJSON(t *testing.T) {
	_, err := ParseWeeklyPlan("Sorry, I cannot create a routine.")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestParseWeeklyPlanRejectsEmptyWeek(t *testing.T) {
	_, err := ParseWeeklyPlan(`{"routines":[]}`)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "no day plans")
}

const validAnalysis = `{
  "product_name": "CeraVe Foaming Cleanser",
  "product_type": "cleanser",
  "key_actives": ["niacinamide", "ceramides"],
  "purpose": "Removes oil without stripping",
  "when_to_use": "both",
  "instructions": "Use morning and night on wet skin",
  "compatibility": "good",
  "reason": "Suits oily skin",
  "routine_step_type": "cleanse"
}`

func TestParseProductAnalysisValid(t *testing.T) {
	a, err := ParseProductAnalysis(validAnalysis)
	require.NoError(t, err)
	assert.Equal(t, "CeraVe Foaming Cleanser", a.ProductName)
	assert.Equal(t, model.CategoryCleanser, a.ProductType)
	assert.Equal(t, model.SuitabilityGood, a.Compatibility)
	assert.Equal(t, model.StepCleanse, a.RoutineStepType)
	assert.Nil(t, a.RecommendedAlternative)
}

func TestParseProductAnalysisWithAlternative(t *testing.T) {
	raw := `{
      "product_name": "Strong Retinoid",
      "product_type": "treatment",
      "key_actives": ["tretinoin"],
      "purpose": "Anti-aging",
      "when_to_use": "night",
      "instructions": "Pea sized amount",
      "compatibility": "avoid",
      "reason": "Too harsh for sensitive skin",
      "recommended_alternative": {"type": "bakuchiol serum", "why": "Gentler", "price_hint": "$15-25"},
      "routine_step_type": "treat"
    }`
	a, err := ParseProductAnalysis(raw)
	require.NoError(t, err)
	require.NotNil(t, a.RecommendedAlternative)
	assert.Equal(t, "bakuchiol serum", a.RecommendedAlternative.Type)
	assert.Equal(t, model.SuitabilityAvoid, a.Compatibility)
}

func TestParseProductAnalysisRejectsBadEnums(t *testing.T) {
	cases := map[string]string{
		"product_type":  `{"product_name":"X","product_type":"shampoo","purpose":"p","when_to_use":"both","compatibility":"good","routine_step_type":"other"}`,
		"when_to_use":   `{"product_name":"X","product_type":"other","purpose":"p","when_to_use":"noon","compatibility":"good","routine_step_type":"other"}`,
		"compatibility": `{"product_name":"X","product_type":"other","purpose":"p","when_to_use":"both","compatibility":"great","routine_step_type":"other"}`,
		"step_type":     `{"product_name":"X","product_type":"other","purpose":"p","when_to_use":"both","compatibility":"good","routine_step_type":"rinse"}`,
		"empty_name":    `{"product_name":" ","product_type":"other","purpose":"p","when_to_use":"both","compatibility":"good","routine_step_type":"other"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProductAnalysis(raw)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
		})
	}
}

func TestParseTips(t *testing.T) {
	tips, err := ParseTips(`{"tips":["Wear SPF daily","Patch test new actives"]}`)
	require.NoError(t, err)
	assert.Len(t, tips, 2)

	tips, err = ParseTips(`{"tips":[]}`)
	require.NoError(t, err)
	assert.Empty(t, tips)

	_, err = ParseTips("not json")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}
