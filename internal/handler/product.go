package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
)

// ProductHandler serves the user's product shelf.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(products *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: products}
}

type createProductReq struct {
	Name       string   `json:"name"`
	Brand      *string  `json:"brand"`
	Category   string   `json:"category"`
	KeyActives []string `json:"key_actives"`
	Notes      *string  `json:"notes"`
	Price      *float64 `json:"price"`
}

// Create handles POST /v1/products (manual entry, no scan).
func (h *ProductHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	category := model.ProductCategory(strings.ToLower(strings.TrimSpace(req.Category)))
	if category == "" {
		category = model.CategoryOther
	}
	if !model.ValidProductCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown category"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := &model.Product{
		UserID:     uid,
		Name:       req.Name,
		Brand:      req.Brand,
		Category:   category,
		KeyActives: req.KeyActives,
		Notes:      req.Notes,
		Price:      req.Price,
	}
	if _, err := h.Products.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	return c.JSON(http.StatusCreated, productView(p))
}

// List handles GET /v1/products.
func (h *ProductHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	products, err := h.Products.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(products))
	for _, p := range products {
		out = append(out, productView(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"products": out})
}

func productView(p *model.Product) echo.Map {
	return echo.Map{
		"id":          p.ID,
		"name":        p.Name,
		"brand":       p.Brand,
		"category":    p.Category,
		"key_actives": p.KeyActives,
		"notes":       p.Notes,
		"suitability": p.Suitability,
		"price":       p.Price,
		"created_at":  p.CreatedAt,
	}
}
