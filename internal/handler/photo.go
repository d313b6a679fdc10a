package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/storage"
)

// PhotoHandler stores progress photos and serves stored blobs.  Blob
// retrieval is public because the photo URLs are handed to the AI
// service, which fetches them without credentials.
type PhotoHandler struct {
	Cfg    config.Config
	Photos *repository.PhotoRepo
	Blobs  storage.BlobStore
}

func NewPhotoHandler(cfg config.Config, photos *repository.PhotoRepo, blobs storage.BlobStore) *PhotoHandler {
	return &PhotoHandler{Cfg: cfg, Photos: photos, Blobs: blobs}
}

// Upload handles POST /v1/photos (multipart: kind + photo).
func (h *PhotoHandler) Upload(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	kind := model.PhotoKind(strings.ToLower(strings.TrimSpace(c.FormValue("kind"))))
	if !model.ValidPhotoKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be one of before, after, progress"})
	}
	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo file required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable photo"})
	}
	defer src.Close()

	ctx, cancel := reqCtx(c)
	defer cancel()

	key, err := h.Blobs.Save(ctx, "photos", file.Header.Get("Content-Type"), src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store photo failed"})
	}
	photo := &model.Photo{
		UserID:   uid,
		Kind:     kind,
		ImageURL: h.Cfg.PublicBaseURL + "/public/photos/" + key,
	}
	if err := h.Photos.Create(ctx, photo); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save photo failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":        photo.ID,
		"kind":      photo.Kind,
		"image_url": photo.ImageURL,
	})
}

// List handles GET /v1/photos.
func (h *PhotoHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	photos, err := h.Photos.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(photos))
	for _, p := range photos {
		out = append(out, echo.Map{
			"id":         p.ID,
			"kind":       p.Kind,
			"image_url":  p.ImageURL,
			"created_at": p.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"photos": out})
}

// Serve handles GET /public/photos/:key, streaming the stored blob.
func (h *PhotoHandler) Serve(c echo.Context) error {
	key := c.Param("key")
	rc, mimeType, err := h.Blobs.Open(c.Request().Context(), key)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "photo not found"})
	}
	defer rc.Close()
	return c.Stream(http.StatusOK, mimeType, rc)
}
