package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbarbosa/glowroutine/internal/model"
)

func TestPhotoRepoLatestByKind(t *testing.T) {
	d := openTestDB(t)
	repo := NewPhotoRepo(d)
	ctx := context.Background()
	uid := createTestUser(t, d, "photos@example.com")

	// No photo yet: nil without error.
	got, err := repo.LatestByKind(ctx, uid, model.PhotoBefore)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := &model.Photo{UserID: uid, Kind: model.PhotoBefore, ImageURL: "http://x/p/1"}
	require.NoError(t, repo.Create(ctx, first))
	second := &model.Photo{UserID: uid, Kind: model.PhotoBefore, ImageURL: "http://x/p/2"}
	require.NoError(t, repo.Create(ctx, second))
	after := &model.Photo{UserID: uid, Kind: model.PhotoAfter, ImageURL: "http://x/p/3"}
	require.NoError(t, repo.Create(ctx, after))

	got, err = repo.LatestByKind(ctx, uid, model.PhotoBefore)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)

	got, err = repo.LatestByKind(ctx, uid, model.PhotoAfter)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "http://x/p/3", got.ImageURL)

	all, err := repo.ListByUser(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAnalysisRepoCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	repo := NewAnalysisRepo(d)
	ctx := context.Background()
	uid := createTestUser(t, d, "analysis@example.com")

	parsed := "CeraVe Cleanser"
	comp := "good"
	a := &model.AIAnalysis{
		UserID:        uid,
		ImageURL:      "http://x/p/scan",
		ParsedProduct: &parsed,
		Compatibility: &comp,
		FullResponse:  `{"product_name":"CeraVe Cleanser"}`,
	}
	require.NoError(t, repo.Create(ctx, a))
	assert.NotZero(t, a.ID)

	got, err := repo.GetByID(ctx, uid, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParsedProduct)
	assert.Equal(t, "CeraVe Cleanser", *got.ParsedProduct)
	assert.Nil(t, got.Purpose)
	assert.Equal(t, `{"product_name":"CeraVe Cleanser"}`, got.FullResponse)

	// Scoped to owner.
	other := createTestUser(t, d, "analysis-other@example.com")
	_, err = repo.GetByID(ctx, other, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
