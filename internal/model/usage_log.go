package model

import "time"

// UsageLog is an append-only record of a routine step being performed.
// There is deliberately no uniqueness constraint: multiple completions
// of the same step on the same day accumulate, and unchecking a step in
// the client never deletes a previously written row.  Logs are at
// least-once evidence, not a mirror of checkbox state.
type UsageLog struct {
	ID            uint64    // usage_logs.id
	UserID        uint64    // usage_logs.user_id
	RoutineItemID uint64    // usage_logs.routine_item_id
	UsedAt        time.Time // usage_logs.used_at
}
