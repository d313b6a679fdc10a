package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/service"
	"github.com/rbarbosa/glowroutine/internal/storage"
)

// OnboardingHandler runs the questionnaire flow: create the skin
// profile, store an optional before photo and owned products, then
// generate and persist the first weekly routine.
type OnboardingHandler struct {
	Cfg      config.Config
	Profiles *repository.ProfileRepo
	Products *repository.ProductRepo
	Photos   *repository.PhotoRepo
	Blobs    storage.BlobStore
	Planner  *service.PlannerService
}

func NewOnboardingHandler(cfg config.Config, profiles *repository.ProfileRepo, products *repository.ProductRepo, photos *repository.PhotoRepo, blobs storage.BlobStore, planner *service.PlannerService) *OnboardingHandler {
	return &OnboardingHandler{Cfg: cfg, Profiles: profiles, Products: products, Photos: photos, Blobs: blobs, Planner: planner}
}

// Onboard handles POST /v1/onboarding (multipart form).
//
// Fields: skin_type (required), age, concerns (comma separated),
// budget_monthly, products (comma separated names), photo (file,
// optional before photo).
//
// The profile insert is the commitment point: if plan generation fails
// afterwards the profile is kept and a 502 tells the client to retry
// via POST /v1/routines/generate.  A second onboarding returns 409.
func (h *OnboardingHandler) Onboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	skinType := model.SkinType(strings.ToLower(strings.TrimSpace(c.FormValue("skin_type"))))
	if !model.ValidSkinType(skinType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "skin_type must be one of oily, dry, combination, sensitive"})
	}

	profile := &model.SkinProfile{
		UserID:   uid,
		SkinType: skinType,
		Concerns: splitList(c.FormValue("concerns")),
	}
	if v := strings.TrimSpace(c.FormValue("age")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil || age < 1 || age > 120 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid age"})
		}
		profile.Age = &age
	}
	if v := strings.TrimSpace(c.FormValue("budget_monthly")); v != "" {
		budget, err := strconv.ParseFloat(v, 64)
		if err != nil || budget < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid budget_monthly"})
		}
		profile.BudgetMonthly = &budget
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Profiles.Create(ctx, profile); err != nil {
		if err == repository.ErrProfileExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create profile failed"})
	}

	var photoURL string
	if file, err := c.FormFile("photo"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable photo"})
		}
		defer src.Close()
		key, err := h.Blobs.Save(ctx, "photos", file.Header.Get("Content-Type"), src)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store photo failed"})
		}
		photoURL = h.Cfg.PublicBaseURL + "/public/photos/" + key
		if err := h.Photos.Create(ctx, &model.Photo{UserID: uid, Kind: model.PhotoBefore, ImageURL: photoURL}); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save photo failed"})
		}
	}

	for _, name := range splitList(c.FormValue("products")) {
		p := &model.Product{UserID: uid, Name: name, Category: model.CategoryOther}
		if _, err := h.Products.Create(ctx, p); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save products failed"})
		}
	}

	aiCtx, aiCancel := context.WithTimeout(c.Request().Context(), h.Cfg.AITimeout+dbTimeout)
	defer aiCancel()
	plan, err := h.Planner.GenerateWeeklyRoutine(aiCtx, uid)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":   "plan_generation_failed",
			"message": "profile saved; retry with POST /v1/routines/generate",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"profile":  profileView(profile),
		"photo":    photoURL,
		"plan":     planSummary(plan),
		"warnings": plan.Warnings,
	})
}

// splitList splits a comma separated form value into trimmed non-empty
// entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func profileView(p *model.SkinProfile) echo.Map {
	return echo.Map{
		"id":             p.ID,
		"skin_type":      p.SkinType,
		"age":            p.Age,
		"concerns":       p.Concerns,
		"budget_monthly": p.BudgetMonthly,
		"created_at":     p.CreatedAt,
	}
}

// planSummary collapses a generated plan into the per-day counts the
// onboarding response reports.
func planSummary(plan *ai.WeeklyPlan) []echo.Map {
	out := make([]echo.Map, 0, len(plan.Routines))
	for _, day := range plan.Routines {
		out = append(out, echo.Map{
			"day":           day.Day,
			"morning_steps": len(day.Morning),
			"night_steps":   len(day.Night),
		})
	}
	return out
}
