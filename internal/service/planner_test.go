package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
)

const planReply = `{
  "routines": [
    {
      "day": 0,
      "morning": [
        {"step_type": "cleanse", "product_suggestion": "Gel cleanser", "instructions": "Massage, rinse", "notes": "Lukewarm water"},
        {"step_type": "spf", "product_suggestion": "SPF 50", "instructions": "Apply last", "notes": ""}
      ],
      "night": [
        {"step_type": "cleanse", "product_suggestion": "Oil cleanser", "instructions": "Double cleanse", "notes": ""}
      ]
    },
    {
      "day": 1,
      "morning": [
        {"step_type": "cleanse", "product_suggestion": "Gel cleanser", "instructions": "", "notes": ""},
        {"step_type": "spf", "product_suggestion": "SPF 50", "instructions": "", "notes": ""}
      ],
      "night": []
    }
  ],
  "weekly_tips": ["Stay hydrated"],
  "warnings": ["Introduce actives slowly"]
}`

func TestGenerateWeeklyRoutinePersistsPlan(t *testing.T) {
	d := openTestDB(t)
	uid := seedProfile(t, d, "planner@example.com")
	chat := &stubChat{reply: planReply}
	routines := repository.NewRoutineRepo(d)
	svc := NewPlannerService(repository.NewProfileRepo(d), repository.NewProductRepo(d), routines, chat)

	plan, err := svc.GenerateWeeklyRoutine(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, plan.Routines, 2)
	assert.Equal(t, 1, chat.calls)
	assert.Contains(t, chat.lastSystem, "Skin Type: oily")

	got, err := routines.ListByUser(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, got, 3) // day1 night was empty, no row

	items, err := routines.ItemsByRoutine(context.Background(), got[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// The three free-text fields flatten into one notes blob.
	assert.Equal(t, "Gel cleanser\nMassage, rinse\nLukewarm water", items[0].AINotes)
	assert.Equal(t, model.StepSPF, items[1].StepType)
}

func TestGenerateWeeklyRoutineRegenerationReplaces(t *testing.T) {
	d := openTestDB(t)
	uid := seedProfile(t, d, "regen@example.com")
	chat := &stubChat{reply: planReply}
	routines := repository.NewRoutineRepo(d)
	svc := NewPlannerService(repository.NewProfileRepo(d), repository.NewProductRepo(d), routines, chat)

	_, err := svc.GenerateWeeklyRoutine(context.Background(), uid)
	require.NoError(t, err)
	_, err = svc.GenerateWeeklyRoutine(context.Background(), uid)
	require.NoError(t, err)

	got, err := routines.ListByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, got, 3) // replaced, not accumulated
}

func TestGenerateWeeklyRoutineMalformedReplyKeepsOldPlan(t *testing.T) {
	d := openTestDB(t)
	uid := seedProfile(t, d, "malformed@example.com")
	routines := repository.NewRoutineRepo(d)
	profiles := repository.NewProfileRepo(d)
	products := repository.NewProductRepo(d)

	good := NewPlannerService(profiles, products, routines, &stubChat{reply: planReply})
	_, err := good.GenerateWeeklyRoutine(context.Background(), uid)
	require.NoError(t, err)

	bad := NewPlannerService(profiles, products, routines, &stubChat{reply: `{"routines":[]}`})
	_, err = bad.GenerateWeeklyRoutine(context.Background(), uid)
	var de *ai.DecodeError
	require.ErrorAs(t, err, &de)

	got, err := routines.ListByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, got, 3) // previous plan untouched
}

func TestGenerateWeeklyRoutineModelFailure(t *testing.T) {
	d := openTestDB(t)
	uid := seedProfile(t, d, "failure@example.com")
	routines := repository.NewRoutineRepo(d)
	svc := NewPlannerService(repository.NewProfileRepo(d), repository.NewProductRepo(d), routines, &stubChat{err: errors.New("upstream 500")})

	_, err := svc.GenerateWeeklyRoutine(context.Background(), uid)
	require.Error(t, err)

	got, err := routines.ListByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateWeeklyRoutineRequiresProfile(t *testing.T) {
	d := openTestDB(t)
	uid, err := repository.NewUserRepo(d).Create(context.Background(), "noprofile@example.com", "hunter2hunter2", 4)
	require.NoError(t, err)
	svc := NewPlannerService(repository.NewProfileRepo(d), repository.NewProductRepo(d), repository.NewRoutineRepo(d), &stubChat{reply: planReply})

	_, err = svc.GenerateWeeklyRoutine(context.Background(), uid)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPersonalizedTips(t *testing.T) {
	d := openTestDB(t)
	uid := seedProfile(t, d, "tips@example.com")
	chat := &stubChat{reply: `{"tips":["Wear SPF daily","Patch test new products","Sleep more"]}`}
	svc := NewPlannerService(repository.NewProfileRepo(d), repository.NewProductRepo(d), repository.NewRoutineRepo(d), chat)

	tips, err := svc.PersonalizedTips(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, tips, 3)
	assert.Contains(t, chat.lastSystem, "personalized skincare tips")
}
