package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/service"
)

// RoutineHandler serves routine generation and the day/week read views.
type RoutineHandler struct {
	Cfg      config.Config
	Routines *repository.RoutineRepo
	Planner  *service.PlannerService
}

func NewRoutineHandler(cfg config.Config, routines *repository.RoutineRepo, planner *service.PlannerService) *RoutineHandler {
	return &RoutineHandler{Cfg: cfg, Routines: routines, Planner: planner}
}

// Generate handles POST /v1/routines/generate.  The existing plan is
// replaced atomically; on failure it survives untouched.
func (h *RoutineHandler) Generate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.AITimeout+dbTimeout)
	defer cancel()

	plan, err := h.Planner.GenerateWeeklyRoutine(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile_required"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "plan_generation_failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"days":        len(plan.Routines),
		"weekly_tips": plan.WeeklyTips,
		"warnings":    plan.Warnings,
	})
}

// routineView is a routine plus its ordered items.
type routineView struct {
	ID        uint64     `json:"id"`
	DayOfWeek int        `json:"day_of_week"`
	Period    string     `json:"period"`
	Items     []itemView `json:"items"`
}

type itemView struct {
	ID        uint64  `json:"id"`
	ProductID *uint64 `json:"product_id,omitempty"`
	StepOrder int     `json:"step_order"`
	StepType  string  `json:"step_type"`
	Notes     string  `json:"notes"`
}

// Day handles GET /v1/routines?day=N.  Omitting day selects today
// (UTC, Sunday=0).
func (h *RoutineHandler) Day(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	day := int(time.Now().UTC().Weekday())
	if v := c.QueryParam("day"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be 0..6"})
		}
		day = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	routines, err := h.Routines.ListByUserDay(ctx, uid, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views, err := h.expand(ctx, routines)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"day": day, "routines": views})
}

// Week handles GET /v1/routines/week.
func (h *RoutineHandler) Week(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	routines, err := h.Routines.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views, err := h.expand(ctx, routines)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"routines": views})
}

func (h *RoutineHandler) expand(ctx context.Context, routines []*model.Routine) ([]routineView, error) {
	views := make([]routineView, 0, len(routines))
	for _, rt := range routines {
		items, err := h.Routines.ItemsByRoutine(ctx, rt.ID)
		if err != nil {
			return nil, err
		}
		v := routineView{ID: rt.ID, DayOfWeek: rt.DayOfWeek, Period: string(rt.Period), Items: make([]itemView, 0, len(items))}
		for _, it := range items {
			v.Items = append(v.Items, itemView{
				ID:        it.ID,
				ProductID: it.ProductID,
				StepOrder: it.StepOrder,
				StepType:  string(it.StepType),
				Notes:     it.AINotes,
			})
		}
		views = append(views, v)
	}
	return views, nil
}
