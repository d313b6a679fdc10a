package ai

import (
	"fmt"
	"strings"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// profileSummary renders the shared profile block embedded in every
// system prompt.  Absent age/budget are rendered as "unknown" rather
// than a zero value, so the model does not plan around a fabricated
// number.
func profileSummary(p *model.SkinProfile) string {
	age := "unknown"
	if p.Age != nil {
		age = fmt.Sprintf("%d", *p.Age)
	}
	budget := "unknown"
	if p.BudgetMonthly != nil {
		budget = fmt.Sprintf("$%.2f/month", *p.BudgetMonthly)
	}
	concerns := "None"
	if len(p.Concerns) > 0 {
		concerns = strings.Join(p.Concerns, ", ")
	}
	return fmt.Sprintf(`User Profile:
- Skin Type: %s
- Age: %s
- Concerns: %s
- Budget: %s`, p.SkinType, age, concerns, budget)
}

// RoutinePrompt builds the system instruction for weekly routine
// generation.  The sequencing policy (SPF last in the morning, no
// strong acids with retinoids, limited exfoliation, gradual retinoid
// ramp) is expressed as instructions to the model; the reply is still
// validated structurally on the way back in.
func RoutinePrompt(p *model.SkinProfile, owned []*model.Product) string {
	existing := "None"
	if len(owned) > 0 {
		parts := make([]string, 0, len(owned))
		for _, pr := range owned {
			parts = append(parts, fmt.Sprintf("%s (%s)", pr.Name, pr.Category))
		}
		existing = strings.Join(parts, ", ")
	}
	return fmt.Sprintf(`You are a skincare expert creating personalized weekly routines.

%s
- Existing Products: %s

Rules:
1. Morning: cleanse -> treat -> hydrate -> SPF (always last)
2. Night: cleanse -> treat -> hydrate
3. Avoid mixing strong acids with retinoids in same session
4. Limit chemical exfoliants to 2-3x/week
5. Retinoids: gradual tolerance building
6. Consider user's skin type and concerns

Return ONLY valid JSON with this structure:
{
  "routines": [
    {
      "day": 0-6 (Sunday=0),
      "morning": [
        {
          "step_type": "cleanse|treat|hydrate|spf",
          "product_suggestion": "Product name or type",
          "instructions": "How to use",
          "notes": "Important info"
        }
      ],
      "night": [...]
    }
  ],
  "weekly_tips": ["tip1", "tip2"],
  "warnings": ["warning1", "warning2"]
}`, profileSummary(p), existing)
}

// RoutineUserMessage is the user turn paired with RoutinePrompt.
const RoutineUserMessage = "Create a complete weekly skincare routine for this user."

// ScanPrompt builds the system instruction for product image analysis.
func ScanPrompt(p *model.SkinProfile) string {
	return fmt.Sprintf(`You are a skincare expert AI. Analyze product images and provide detailed information in JSON format.

%s

Return ONLY valid JSON with this exact structure:
{
  "product_name": "Full product name",
  "product_type": "cleanser|toner|serum|moisturizer|sunscreen|treatment|other",
  "key_actives": ["active1", "active2"],
  "purpose": "What it does and benefits",
  "when_to_use": "morning|night|both",
  "instructions": "How to apply and use",
  "compatibility": "good|neutral|avoid",
  "reason": "Why it's compatible or not with user profile",
  "recommended_alternative": {
    "type": "Alternative product type",
    "why": "Reason for alternative",
    "price_hint": "Price range"
  },
  "routine_step_type": "cleanse|treat|hydrate|spf|other"
}`, profileSummary(p))
}

// ScanUserMessage is the text part paired with the product image.
const ScanUserMessage = "Analyze this skincare product and provide detailed information based on the user profile."

// TipsPrompt builds the system instruction for personalized tips shown
// on the overview page.
func TipsPrompt(p *model.SkinProfile, recent []*model.Product) string {
	products := "None"
	if len(recent) > 0 {
		names := make([]string, 0, len(recent))
		for _, pr := range recent {
			names = append(names, pr.Name)
		}
		products = strings.Join(names, ", ")
	}
	return fmt.Sprintf(`Generate 3-4 personalized skincare tips based on user profile and recent products.

%s
- Recent Products: %s

Return JSON: { "tips": ["tip1", "tip2", "tip3"] }`, profileSummary(p), products)
}

// TipsUserMessage is the user turn paired with TipsPrompt.
const TipsUserMessage = "Generate personalized tips."
