package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/rbarbosa/glowroutine/internal/ai"
	"github.com/rbarbosa/glowroutine/internal/config"
	"github.com/rbarbosa/glowroutine/internal/repository"
	"github.com/rbarbosa/glowroutine/internal/service"
	"github.com/rbarbosa/glowroutine/internal/storage/local"
)

type stubChat struct {
	reply string
	err   error
}

func (s *stubChat) CompleteJSON(ctx context.Context, system string, user []ai.Part, maxTokens int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// fullWeekReply builds a seven day plan so the assertion holds no
// matter which weekday the test runs on.
func fullWeekReply() string {
	day := `{"day":%d,"morning":[
      {"step_type":"cleanse","product_suggestion":"Gel cleanser","instructions":"Massage","notes":""},
      {"step_type":"spf","product_suggestion":"SPF 50","instructions":"Last","notes":""}],
      "night":[{"step_type":"cleanse","product_suggestion":"Oil cleanser","instructions":"","notes":""}]}`
	out := `{"routines":[`
	for d := 0; d < 7; d++ {
		if d > 0 {
			out += ","
		}
		out += fmt.Sprintf(day, d)
	}
	return out + `],"weekly_tips":[],"warnings":[]}`
}

func openHandlerTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite", "file::memory:?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on")
	require.NoError(t, err)
	_, err = d.Exec(`
		CREATE TABLE users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE skin_profiles (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id        INTEGER NOT NULL UNIQUE REFERENCES users(id),
			skin_type      TEXT NOT NULL,
			age            INTEGER,
			concerns       TEXT NOT NULL DEFAULT '[]',
			budget_monthly REAL,
			created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id),
			name        TEXT NOT NULL,
			brand       TEXT,
			category    TEXT NOT NULL,
			key_actives TEXT NOT NULL DEFAULT '[]',
			notes       TEXT,
			suitability TEXT,
			price       REAL,
			created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE routines (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id),
			day_of_week INTEGER NOT NULL,
			period      TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
			updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
			UNIQUE (user_id, day_of_week, period)
		);
		CREATE TABLE routine_items (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			routine_id INTEGER NOT NULL REFERENCES routines(id),
			product_id INTEGER REFERENCES products(id),
			step_order INTEGER NOT NULL,
			step_type  TEXT NOT NULL,
			ai_notes   TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE photos (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			kind       TEXT NOT NULL,
			image_url  TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);
	`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newOnboardingFixture(t *testing.T, chat service.ChatClient) (*OnboardingHandler, *sql.DB, uint64) {
	t.Helper()
	d := openHandlerTestDB(t)
	uid, err := repository.NewUserRepo(d).Create(context.Background(), "onboard@example.com", "hunter2hunter2", 4)
	require.NoError(t, err)

	blobs, err := local.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	profiles := repository.NewProfileRepo(d)
	products := repository.NewProductRepo(d)
	planner := service.NewPlannerService(profiles, products, repository.NewRoutineRepo(d), chat)
	cfg := config.Config{PublicBaseURL: "http://localhost:8080", AITimeout: 5 * time.Second}
	h := NewOnboardingHandler(cfg, profiles, products, repository.NewPhotoRepo(d), blobs, planner)
	return h, d, uid
}

func postOnboarding(t *testing.T, h *OnboardingHandler, uid uint64, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/onboarding", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	require.NoError(t, h.Onboard(c))
	return rec
}

func TestOnboardingEndToEnd(t *testing.T) {
	h, d, uid := newOnboardingFixture(t, &stubChat{reply: fullWeekReply()})

	rec := postOnboarding(t, h, uid, map[string]string{
		"skin_type":      "oily",
		"age":            "25",
		"concerns":       "acne",
		"budget_monthly": "50",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Plan []struct {
			Day          int `json:"day"`
			MorningSteps int `json:"morning_steps"`
		} `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Plan, 7)

	ctx := context.Background()

	// Exactly one profile row.
	var profileCount int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM skin_profiles WHERE user_id=?", uid).Scan(&profileCount))
	assert.Equal(t, 1, profileCount)

	// No photo was uploaded, so no photo rows.
	var photoCount int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM photos WHERE user_id=?", uid).Scan(&photoCount))
	assert.Zero(t, photoCount)

	// Routines for the current day are readable.
	today := int(time.Now().UTC().Weekday())
	routines, err := repository.NewRoutineRepo(d).ListByUserDay(ctx, uid, today)
	require.NoError(t, err)
	assert.NotEmpty(t, routines)
}

func TestOnboardingSecondAttemptConflicts(t *testing.T) {
	h, _, uid := newOnboardingFixture(t, &stubChat{reply: fullWeekReply()})

	rec := postOnboarding(t, h, uid, map[string]string{"skin_type": "dry"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postOnboarding(t, h, uid, map[string]string{"skin_type": "oily"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOnboardingAIFailureKeepsProfile(t *testing.T) {
	h, d, uid := newOnboardingFixture(t, &stubChat{err: errors.New("upstream down")})

	rec := postOnboarding(t, h, uid, map[string]string{"skin_type": "sensitive"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var profileCount int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM skin_profiles WHERE user_id=?", uid).Scan(&profileCount))
	assert.Equal(t, 1, profileCount)
}

func TestOnboardingRejectsUnknownSkinType(t *testing.T) {
	h, _, uid := newOnboardingFixture(t, &stubChat{reply: fullWeekReply()})

	rec := postOnboarding(t, h, uid, map[string]string{"skin_type": "normal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
