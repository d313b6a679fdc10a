package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/queue"
	"github.com/rbarbosa/glowroutine/internal/repository"
)

// ChatClient is the slice of the AI client the services depend on.
// Tests substitute a canned implementation.
type ChatClient interface {
	CompleteJSON(ctx context.Context, system string, user []ai.Part, maxTokens int) (string, error)
}

// PlannerService turns a user's profile and owned products into a
// persisted weekly routine, and produces the personalized tips shown
// on the overview page.
type PlannerService struct {
	Profiles *repository.ProfileRepo
	Products *repository.ProductRepo
	Routines *repository.RoutineRepo
	Chat     ChatClient
}

func NewPlannerService(profiles *repository.ProfileRepo, products *repository.ProductRepo, routines *repository.RoutineRepo, chat ChatClient) *PlannerService {
	return &PlannerService{Profiles: profiles, Products: products, Routines: routines, Chat: chat}
}

// GenerateWeeklyRoutine asks the model for a full weekly plan and
// atomically replaces the user's stored routines with it.  The
// previous plan survives untouched if the model call, the decode, or
// the write fails.  Event publishing is best effort: a dead broker
// never fails a generation.
func (s *PlannerService) GenerateWeeklyRoutine(ctx context.Context, userID uint64) (*ai.WeeklyPlan, error) {
	profile, err := s.Profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.Products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := s.Chat.CompleteJSON(ctx,
		ai.RoutinePrompt(profile, owned),
		[]ai.Part{ai.TextPart(ai.RoutineUserMessage)},
		4000)
	if err != nil {
		return nil, err
	}
	plan, err := ai.ParseWeeklyPlan(raw)
	if err != nil {
		return nil, err
	}

	slots, items := planToSlots(plan)
	if err := s.Routines.ReplaceWeeklyPlan(ctx, userID, slots); err != nil {
		return nil, err
	}

	_ = queue.PublishRoutineGenerated(ctx, queue.RoutineGeneratedEvent{
		UserID:      userID,
		Days:        len(plan.Routines),
		Items:       items,
		SkinType:    string(profile.SkinType),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
	slog.Info("weekly routine generated", "user_id", userID, "days", len(plan.Routines), "items", items)
	return plan, nil
}

// PersonalizedTips asks the model for a short tip list based on the
// profile and the user's most recent products.
func (s *PlannerService) PersonalizedTips(ctx context.Context, userID uint64) ([]string, error) {
	profile, err := s.Profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.Products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	raw, err := s.Chat.CompleteJSON(ctx,
		ai.TipsPrompt(profile, recent),
		[]ai.Part{ai.TextPart(ai.TipsUserMessage)},
		500)
	if err != nil {
		return nil, err
	}
	return ai.ParseTips(raw)
}

// planToSlots flattens a validated plan into repository slots.  Step
// order equals position in the model's list, and the three free-text
// fields collapse into one notes blob.  Returns the slots plus the
// total item count for event reporting.
func planToSlots(plan *ai.WeeklyPlan) ([]repository.PlanSlot, int) {
	var (
		slots []repository.PlanSlot
		items int
	)
	for _, day := range plan.Routines {
		for _, ps := range []struct {
			period model.Period
			steps  []ai.PlanStep
		}{
			{model.PeriodMorning, day.Morning},
			{model.PeriodNight, day.Night},
		} {
			if len(ps.steps) == 0 {
				continue
			}
			slot := repository.PlanSlot{Day: day.Day, Period: ps.period}
			for _, step := range ps.steps {
				slot.Items = append(slot.Items, repository.PlanItem{
					StepType: step.StepType,
					Notes:    flattenStep(step),
				})
			}
			slots = append(slots, slot)
			items += len(slot.Items)
		}
	}
	return slots, items
}

func flattenStep(step ai.PlanStep) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{step.ProductSuggestion, step.Instructions, step.Notes} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, "\n")
}
