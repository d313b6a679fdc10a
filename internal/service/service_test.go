package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/model"
	"github.com/rbarbosa/glowroutine/internal/repository"
)

// stubChat returns a canned completion instead of calling the model.
type stubChat struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   []ai.Part
}

func (s *stubChat) CompleteJSON(ctx context.Context, system string, user []ai.Part, maxTokens int) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// openTestDB mirrors the repository test schema; the services are
// exercised against the same portable SQL.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite", "file::memory:?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on")
	require.NoError(t, err)

	_, err = d.Exec(`
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT    NOT NULL UNIQUE,
			password_hash TEXT    NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE skin_profiles (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id        INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			skin_type      TEXT    NOT NULL,
			age            INTEGER,
			concerns       TEXT    NOT NULL DEFAULT '[]',
			budget_monthly REAL,
			created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name        TEXT    NOT NULL,
			brand       TEXT,
			category    TEXT    NOT NULL,
			key_actives TEXT    NOT NULL DEFAULT '[]',
			notes       TEXT,
			suitability TEXT,
			price       REAL,
			created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE routines (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			day_of_week INTEGER NOT NULL,
			period      TEXT    NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
			UNIQUE (user_id, day_of_week, period)
		);
		CREATE TABLE routine_items (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			routine_id INTEGER NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
			product_id INTEGER REFERENCES products(id) ON DELETE SET NULL,
			step_order INTEGER NOT NULL,
			step_type  TEXT    NOT NULL,
			ai_notes   TEXT    NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE ai_analyses (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id        INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			image_url      TEXT    NOT NULL,
			parsed_product TEXT,
			purpose        TEXT,
			when_to_use    TEXT,
			compatibility  TEXT,
			alt_suggestion TEXT,
			full_response  TEXT    NOT NULL,
			created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Close() })
	return d
}

// seedProfile inserts a user plus an oily-skin profile and returns the
// user id.
func seedProfile(t *testing.T, d *sql.DB, email string) uint64 {
	t.Helper()
	ctx := context.Background()
	uid, err := repository.NewUserRepo(d).Create(ctx, email, "hunter2hunter2", 4)
	require.NoError(t, err)
	age := 25
	budget := 50.0
	require.NoError(t, repository.NewProfileRepo(d).Create(ctx, &model.SkinProfile{
		UserID:        uid,
		SkinType:      model.SkinOily,
		Age:           &age,
		Concerns:      []string{"acne"},
		BudgetMonthly: &budget,
	}))
	return uid
}
