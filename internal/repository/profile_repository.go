package repository

import (
	"context"
	"database/sql"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// ProfileRepo provides access to the skin_profiles table.  The table
// carries a unique index on user_id, so the "at most one profile per
// user" invariant is enforced by the database rather than by callers.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Create inserts a profile and returns it with generated fields filled
// in.  A second insert for the same user returns ErrProfileExists.
func (r *ProfileRepo) Create(ctx context.Context, p *model.SkinProfile) error {
	concerns, err := marshalList(p.Concerns)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO skin_profiles (user_id, skin_type, age, concerns, budget_monthly) VALUES (?,?,?,?,?)",
		p.UserID, p.SkinType, p.Age, concerns, p.BudgetMonthly)
	if err != nil {
		if isDuplicate(err) {
			return ErrProfileExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	got, err := r.GetByUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

// GetByUser fetches the profile owned by userID.  ErrNotFound is
// returned when the user has not completed onboarding.
func (r *ProfileRepo) GetByUser(ctx context.Context, userID uint64) (*model.SkinProfile, error) {
	var (
		p        model.SkinProfile
		age      sql.NullInt64
		budget   sql.NullFloat64
		concerns string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,skin_type,age,concerns,budget_monthly,created_at,updated_at FROM skin_profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.SkinType, &age, &concerns, &budget, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	if budget.Valid {
		b := budget.Float64
		p.BudgetMonthly = &b
	}
	if p.Concerns, err = unmarshalList(concerns); err != nil {
		return nil, err
	}
	return &p, nil
}

// Exists reports whether userID has a profile.  Used by the session
// gate, which must not pay for a full row decode on every request.
func (r *ProfileRepo) Exists(ctx context.Context, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM skin_profiles WHERE user_id=? LIMIT 1", userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
