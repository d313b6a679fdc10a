package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/service"
)

// OverviewHandler serves the home view: profile, latest before/after
// photos and AI-generated tips.
type OverviewHandler struct {
	Cfg      config.Config
	Profiles *repository.ProfileRepo
	Photos   *repository.PhotoRepo
	Planner  *service.PlannerService
}

func NewOverviewHandler(cfg config.Config, profiles *repository.ProfileRepo, photos *repository.PhotoRepo, planner *service.PlannerService) *OverviewHandler {
	return &OverviewHandler{Cfg: cfg, Profiles: profiles, Photos: photos, Planner: planner}
}

// Overview handles GET /v1/overview.  Tips are decorative: when the
// model call fails the page still renders, with an empty tips list and
// a logged warning, rather than failing the whole view.
func (h *OverviewHandler) Overview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, err := h.Profiles.GetByUser(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile_required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	before, err := h.Photos.LatestByKind(ctx, uid, model.PhotoBefore)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	after, err := h.Photos.LatestByKind(ctx, uid, model.PhotoAfter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	aiCtx, aiCancel := context.WithTimeout(c.Request().Context(), h.Cfg.AITimeout)
	defer aiCancel()
	tips, err := h.Planner.PersonalizedTips(aiCtx, uid)
	if err != nil {
		slog.Warn("overview tips unavailable", "user_id", uid, "error", err)
		tips = nil
	}

	return c.JSON(http.StatusOK, echo.Map{
		"profile":      profileView(profile),
		"before_photo": photoURL(before),
		"after_photo":  photoURL(after),
		"tips":         tips,
	})
}

func photoURL(p *model.Photo) *string {
	if p == nil {
		return nil
	}
	return &p.ImageURL
}
