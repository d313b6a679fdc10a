package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/service"
)

// ScannerHandler serves the product scan flow.
type ScannerHandler struct {
	Cfg     config.Config
	Scanner *service.ScannerService
}

func NewScannerHandler(cfg config.Config, scanner *service.ScannerService) *ScannerHandler {
	return &ScannerHandler{Cfg: cfg, Scanner: scanner}
}

// Scan handles POST /v1/scans (multipart field "image").  Every model
// invocation leaves an ai_analyses audit row, so even a malformed reply
// returns the analysis_id alongside the 502.
func (h *ScannerHandler) Scan(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable image"})
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.AITimeout+dbTimeout)
	defer cancel()

	audit, analysis, err := h.Scanner.Scan(ctx, uid, file.Header.Get("Content-Type"), src)
	if err != nil {
		var de *ai.DecodeError
		if errors.As(err, &de) {
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":       "invalid_model_response",
				"analysis_id": audit.ID,
			})
		}
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusConflict, echo.Map{"error": "profile_required"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "scan_failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"analysis_id": audit.ID,
		"image_url":   audit.ImageURL,
		"analysis":    analysis,
	})
}

// AddToRoutine handles POST /v1/scans/:id/routine, promoting an
// analysis into a product plus a routine item.  Products the model
// said to avoid cannot be promoted.
func (h *ScannerHandler) AddToRoutine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}
	analysisID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || analysisID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid analysis id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Scanner.AddToRoutine(ctx, uid, analysisID)
	if err != nil {
		switch {
		case err == repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "analysis not found"})
		case errors.Is(err, service.ErrAvoidProduct):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "product marked avoid"})
		case errors.Is(err, service.ErrAnalysisUnusable):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "analysis not usable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to routine failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"routine_item_id": item.ID,
		"routine_id":      item.RoutineID,
		"product_id":      item.ProductID,
		"step_order":      item.StepOrder,
		"step_type":       item.StepType,
	})
}
