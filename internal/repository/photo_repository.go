package repository

import (
	"context"
	"database/sql"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// PhotoRepo provides access to the photos table.
type PhotoRepo struct{ DB *sql.DB }

func NewPhotoRepo(db *sql.DB) *PhotoRepo { return &PhotoRepo{DB: db} }

// Create inserts a photo row and fills in its generated ID.
func (r *PhotoRepo) Create(ctx context.Context, p *model.Photo) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO photos (user_id, kind, image_url) VALUES (?,?,?)",
		p.UserID, p.Kind, p.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// LatestByKind returns the user's most recent photo of one kind, or
// nil when none was ever uploaded.  Multiple rows per kind may exist;
// only the newest is surfaced.
func (r *PhotoRepo) LatestByKind(ctx context.Context, userID uint64, kind model.PhotoKind) (*model.Photo, error) {
	var p model.Photo
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,kind,image_url,created_at FROM photos WHERE user_id=? AND kind=? ORDER BY created_at DESC, id DESC LIMIT 1",
		userID, kind).Scan(&p.ID, &p.UserID, &p.Kind, &p.ImageURL, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns all of the user's photos, newest first.
func (r *PhotoRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Photo, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,kind,image_url,created_at FROM photos WHERE user_id=? ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Photo
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.UserID, &p.Kind, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
