package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rbarbosa/glowroutine/internal/model"
)

// UsageLogRepo provides append and read access to the usage_logs
// table.  The table is append-only by design: completions are never
// deleted, and there is no uniqueness constraint, so repeated
// completions of the same step accumulate.
type UsageLogRepo struct{ DB *sql.DB }

func NewUsageLogRepo(db *sql.DB) *UsageLogRepo { return &UsageLogRepo{DB: db} }

// Append records one completion of a routine item.
func (r *UsageLogRepo) Append(ctx context.Context, userID, routineItemID uint64) (*model.UsageLog, error) {
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO usage_logs (user_id, routine_item_id, used_at) VALUES (?,?,?)",
		userID, routineItemID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.UsageLog{ID: uint64(id), UserID: userID, RoutineItemID: routineItemID, UsedAt: now}, nil
}

// ListByUserBetween returns the user's logs with from <= used_at < to,
// oldest first.  Callers pass a single day's bounds to rebuild the
// "completed today" set.
func (r *UsageLogRepo) ListByUserBetween(ctx context.Context, userID uint64, from, to time.Time) ([]*model.UsageLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,routine_item_id,used_at FROM usage_logs WHERE user_id=? AND used_at>=? AND used_at<? ORDER BY used_at ASC, id ASC",
		userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.UsageLog
	for rows.Next() {
		var l model.UsageLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.RoutineItemID, &l.UsedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CountByItem returns how many times an item was ever completed.
func (r *UsageLogRepo) CountByItem(ctx context.Context, routineItemID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM usage_logs WHERE routine_item_id=?", routineItemID).Scan(&n)
	return n, err
}
