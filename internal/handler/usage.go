package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/repository"
)

// UsageHandler serves the completion log.  Logs are append-only:
// unchecking a step in a client does not delete anything, it simply
// stops adding rows, so each check-uncheck-check cycle leaves a row
// per check.
type UsageHandler struct {
	Logs     *repository.UsageLogRepo
	Routines *repository.RoutineRepo
}

func NewUsageHandler(logs *repository.UsageLogRepo, routines *repository.RoutineRepo) *UsageHandler {
	return &UsageHandler{Logs: logs, Routines: routines}
}

type appendLogReq struct {
	RoutineItemID uint64 `json:"routine_item_id"`
}

// Append handles POST /v1/usage-logs.  The item must belong to the
// caller; items of other users read as not found.
func (h *UsageHandler) Append(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}
	var req appendLogReq
	if err := c.Bind(&req); err != nil || req.RoutineItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "routine_item_id required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	owner, err := h.Routines.ItemOwner(ctx, req.RoutineItemID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "routine item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if owner != uid {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "routine item not found"})
	}

	log, err := h.Logs.Append(ctx, uid, req.RoutineItemID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "append failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":              log.ID,
		"routine_item_id": log.RoutineItemID,
		"used_at":         log.UsedAt,
	})
}

// ListByDay handles GET /v1/usage-logs?on=YYYY-MM-DD (defaults to
// today, UTC).  Clients rebuild the "completed today" set from it.
func (h *UsageHandler) ListByDay(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	day := time.Now().UTC()
	if v := c.QueryParam("on"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "on must be YYYY-MM-DD"})
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	ctx, cancel := reqCtx(c)
	defer cancel()

	logs, err := h.Logs.ListByUserBetween(ctx, uid, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(logs))
	for _, l := range logs {
		out = append(out, echo.Map{
			"id":              l.ID,
			"routine_item_id": l.RoutineItemID,
			"used_at":         l.UsedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"on": from.Format("2006-01-02"), "logs": out})
}
