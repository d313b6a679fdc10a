package repository

import (
	"context"
	"database/sql"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// RoutineRepo provides access to the routines and routine_items tables.
// Routines are created lazily: in bulk when a weekly plan is persisted,
// or one at a time when the scanner promotes a product into a slot that
// has no routine yet.
type RoutineRepo struct{ DB *sql.DB }

func NewRoutineRepo(db *sql.DB) *RoutineRepo { return &RoutineRepo{DB: db} }

// PlanSlot is one (day, period) routine of a weekly plan, as handed to
// ReplaceWeeklyPlan.  Items are stored in list order with step_order
// equal to the list index.
type PlanSlot struct {
	Day    int
	Period model.Period
	Items  []PlanItem
}

// PlanItem is one step of a PlanSlot.
type PlanItem struct {
	StepType model.StepType
	Notes    string
}

// ReplaceWeeklyPlan atomically replaces the user's routines with the
// given plan.  The delete and the per-slot fan-out run in a single
// transaction, so a failure leaves the previous state untouched and a
// partially applied week is impossible.  Slots with no items are
// skipped entirely; no empty routine rows are created.
func (r *RoutineRepo) ReplaceWeeklyPlan(ctx context.Context, userID uint64, slots []PlanSlot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM routines WHERE user_id=?", userID); err != nil {
		return err
	}
	for _, slot := range slots {
		if len(slot.Items) == 0 {
			continue
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO routines (user_id, day_of_week, period) VALUES (?,?,?)",
			userID, slot.Day, slot.Period)
		if err != nil {
			return err
		}
		routineID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for i, item := range slot.Items {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO routine_items (routine_id, step_order, step_type, ai_notes) VALUES (?,?,?,?)",
				routineID, i, item.StepType, item.Notes); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// GetOrCreate resolves the routine for (userID, day, period), creating
// it when absent.  A concurrent insert losing the unique-index race
// falls back to re-reading the winner's row.
func (r *RoutineRepo) GetOrCreate(ctx context.Context, userID uint64, day int, period model.Period) (*model.Routine, error) {
	rt, err := r.get(ctx, userID, day, period)
	if err == nil {
		return rt, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO routines (user_id, day_of_week, period) VALUES (?,?,?)",
		userID, day, period)
	if err != nil {
		if isDuplicate(err) {
			return r.get(ctx, userID, day, period)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var rt2 model.Routine
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,day_of_week,period,created_at,updated_at FROM routines WHERE id=?",
		id).Scan(&rt2.ID, &rt2.UserID, &rt2.DayOfWeek, &rt2.Period, &rt2.CreatedAt, &rt2.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rt2, nil
}

func (r *RoutineRepo) get(ctx context.Context, userID uint64, day int, period model.Period) (*model.Routine, error) {
	var rt model.Routine
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,day_of_week,period,created_at,updated_at FROM routines WHERE user_id=? AND day_of_week=? AND period=? LIMIT 1",
		userID, day, period).Scan(&rt.ID, &rt.UserID, &rt.DayOfWeek, &rt.Period, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// ListByUserDay returns the user's routines for one day of the week.
func (r *RoutineRepo) ListByUserDay(ctx context.Context, userID uint64, day int) ([]*model.Routine, error) {
	return r.list(ctx,
		"SELECT id,user_id,day_of_week,period,created_at,updated_at FROM routines WHERE user_id=? AND day_of_week=? ORDER BY period",
		userID, day)
}

// ListByUser returns all of the user's routines ordered by day then period.
func (r *RoutineRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Routine, error) {
	return r.list(ctx,
		"SELECT id,user_id,day_of_week,period,created_at,updated_at FROM routines WHERE user_id=? ORDER BY day_of_week, period",
		userID)
}

func (r *RoutineRepo) list(ctx context.Context, query string, args ...any) ([]*model.Routine, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Routine
	for rows.Next() {
		var rt model.Routine
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.DayOfWeek, &rt.Period, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rt)
	}
	return out, rows.Err()
}

// ItemsByRoutine returns a routine's items ordered by step_order
// ascending.  The sequence is not required to be contiguous.
func (r *RoutineRepo) ItemsByRoutine(ctx context.Context, routineID uint64) ([]*model.RoutineItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,routine_id,product_id,step_order,step_type,ai_notes,created_at FROM routine_items WHERE routine_id=? ORDER BY step_order ASC, id ASC",
		routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RoutineItem
	for rows.Next() {
		var (
			it        model.RoutineItem
			productID sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.RoutineID, &productID, &it.StepOrder, &it.StepType, &it.AINotes, &it.CreatedAt); err != nil {
			return nil, err
		}
		if productID.Valid {
			pid := uint64(productID.Int64)
			it.ProductID = &pid
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// NextStepOrder returns one past the routine's current maximum
// step_order, or 0 when the routine has no items yet.
func (r *RoutineRepo) NextStepOrder(ctx context.Context, routineID uint64) (int, error) {
	var next int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(step_order)+1, 0) FROM routine_items WHERE routine_id=?",
		routineID).Scan(&next)
	return next, err
}

// AppendItem inserts a routine item at the next free step_order and
// returns the stored row.  Appends never renumber existing items, so
// repeated promotions into the same routine produce strictly
// increasing, non-colliding orders.
func (r *RoutineRepo) AppendItem(ctx context.Context, routineID uint64, productID *uint64, stepType model.StepType, notes string) (*model.RoutineItem, error) {
	next, err := r.NextStepOrder(ctx, routineID)
	if err != nil {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO routine_items (routine_id, product_id, step_order, step_type, ai_notes) VALUES (?,?,?,?,?)",
		routineID, productID, next, stepType, notes)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	it := &model.RoutineItem{
		ID:        uint64(id),
		RoutineID: routineID,
		ProductID: productID,
		StepOrder: next,
		StepType:  stepType,
		AINotes:   notes,
	}
	return it, nil
}

// ItemOwner returns the user owning a routine item, for ownership
// checks before usage logging.  ErrNotFound when the item is missing.
func (r *RoutineRepo) ItemOwner(ctx context.Context, itemID uint64) (uint64, error) {
	var owner uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT r.user_id FROM routine_items ri
		 JOIN routines r ON r.id = ri.routine_id
		 WHERE ri.id=? LIMIT 1`, itemID).Scan(&owner)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return owner, err
}
