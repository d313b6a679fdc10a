package model

import "time"

// PhotoKind classifies a progress photo.
type PhotoKind string

const (
	PhotoBefore   PhotoKind = "before"
	PhotoAfter    PhotoKind = "after"
	PhotoProgress PhotoKind = "progress"
)

// ValidPhotoKind reports whether k is a known kind.
func ValidPhotoKind(k PhotoKind) bool {
	switch k {
	case PhotoBefore, PhotoAfter, PhotoProgress:
		return true
	}
	return false
}

// Photo records an uploaded user photo and its public URL.  Multiple
// rows per kind may be stored; the overview surfaces only the latest
// "before" and "after".
type Photo struct {
	ID        uint64    // photos.id
	UserID    uint64    // photos.user_id
	Kind      PhotoKind // photos.kind
	ImageURL  string    // photos.image_url
	CreatedAt time.Time // photos.created_at
}
