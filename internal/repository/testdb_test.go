package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory database with the application schema
// in SQLite dialect.  The repositories stick to portable SQL, so the
// same queries run against MySQL in production and SQLite here.
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

		CREATE TABLE refresh_tokens (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash TEXT    NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
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

		CREATE TABLE usage_logs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			routine_item_id INTEGER NOT NULL REFERENCES routine_items(id) ON DELETE CASCADE,
			used_at         DATETIME NOT NULL
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

		CREATE TABLE photos (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind       TEXT    NOT NULL,
			image_url  TEXT    NOT NULL,
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);
	`)
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Close() })
	return d
}

// createTestUser inserts a user and returns its id.
func createTestUser(t *testing.T, d *sql.DB, email string) uint64 {
	t.Helper()
	uid, err := NewUserRepo(d).Create(context.Background(), email, "hunter2hunter2", 4)
	require.NoError(t, err)
	return uid
}
