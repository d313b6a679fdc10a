package repository

import (
	"context"
	"database/sql"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// AnalysisRepo persists scanner audit rows.  Rows are append-only:
// every scan is recorded before the user decides what to do with the
// result, and nothing ever updates or deletes them.
type AnalysisRepo struct{ DB *sql.DB }

func NewAnalysisRepo(db *sql.DB) *AnalysisRepo { return &AnalysisRepo{DB: db} }

// Create inserts an audit row and fills in its generated ID.
func (r *AnalysisRepo) Create(ctx context.Context, a *model.AIAnalysis) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ai_analyses (user_id, image_url, parsed_product, purpose, when_to_use, compatibility, alt_suggestion, full_response) VALUES (?,?,?,?,?,?,?,?)",
		a.UserID, a.ImageURL, a.ParsedProduct, a.Purpose, a.WhenToUse, a.Compatibility, a.AltSuggestion, a.FullResponse)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches an audit row, scoped to its owner.
func (r *AnalysisRepo) GetByID(ctx context.Context, userID, id uint64) (*model.AIAnalysis, error) {
	var (
		a      model.AIAnalysis
		parsed sql.NullString
		purp   sql.NullString
		when   sql.NullString
		comp   sql.NullString
		alt    sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,image_url,parsed_product,purpose,when_to_use,compatibility,alt_suggestion,full_response,created_at FROM ai_analyses WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&a.ID, &a.UserID, &a.ImageURL, &parsed, &purp, &when, &comp, &alt, &a.FullResponse, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.ParsedProduct = nullableString(parsed)
	a.Purpose = nullableString(purp)
	a.WhenToUse = nullableString(when)
	a.Compatibility = nullableString(comp)
	a.AltSuggestion = nullableString(alt)
	return &a, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
