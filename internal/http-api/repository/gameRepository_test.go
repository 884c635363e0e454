package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gameinsight/database"
	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection to ":memory:" would see a different database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func floatPtr(f float64) *float64 { return &f }

func sampleRecord() *models.GameRecord {
	released := time.Date(2016, 1, 26, 0, 0, 0, 0, time.UTC)
	return &models.GameRecord{
		Slug:            "the-witness",
		Name:            "The Witness",
		Released:        &released,
		Rating:          floatPtr(4.23),
		RatingsCount:    intPtr(1500),
		Metacritic:      intPtr(87),
		Playtime:        intPtr(18),
		BackgroundImage: strPtr("https://media.example/witness.jpg"),
		Genres:          []models.LookupRef{{Slug: "puzzle", Name: "Puzzle"}},
		Platforms:       []models.LookupRef{{Slug: "pc", Name: "PC"}},
		Stores:          []models.LookupRef{{Slug: "steam", Name: "Steam"}},
		Tags:            []models.LookupRef{{Slug: "singleplayer", Name: "Singleplayer"}},
	}
}

func TestUpsert_CreatesGameWithAssociations(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)

	outcome, err := repo.Upsert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, repository.UpsertCreated, outcome)

	game, err := repo.GetBySlug(context.Background(), "the-witness")
	require.NoError(t, err)
	assert.Equal(t, "The Witness", game.Name)
	assert.Equal(t, 4.23, *game.Rating)
	require.Len(t, game.Genres, 1)
	require.Len(t, game.Platforms, 1)
	require.Len(t, game.Stores, 1)
	require.Len(t, game.Tags, 1)
}

func TestUpsert_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Upsert(ctx, sampleRecord())
		require.NoError(t, err)
	}

	var games, genres, joins int64
	require.NoError(t, db.Model(&models.Game{}).Count(&games).Error)
	require.NoError(t, db.Model(&models.Genre{}).Count(&genres).Error)
	require.NoError(t, db.Model(&models.GameGenre{}).Count(&joins).Error)
	assert.Equal(t, int64(1), games)
	assert.Equal(t, int64(1), genres)
	assert.Equal(t, int64(1), joins)
}

func TestUpsert_OverwritesScalars(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, sampleRecord())
	require.NoError(t, err)

	rec := sampleRecord()
	rec.Name = "The Witness (Definitive)"
	rec.Rating = floatPtr(4.5)
	rec.Metacritic = nil

	outcome, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, repository.UpsertUpdated, outcome)

	game, err := repo.GetBySlug(ctx, "the-witness")
	require.NoError(t, err)
	assert.Equal(t, "The Witness (Definitive)", game.Name)
	assert.Equal(t, 4.5, *game.Rating)
	// Scalars track the newest snapshot, including back to null.
	assert.Nil(t, game.Metacritic)
}

func TestUpsert_MediaIsBackfillOnly(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)
	ctx := context.Background()

	// First snapshot has no media.
	rec := sampleRecord()
	rec.BackgroundImage = nil
	_, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)

	// A later snapshot fills it in.
	rec = sampleRecord()
	rec.BackgroundImage = strPtr("https://media.example/backfilled.jpg")
	rec.ClipURL = strPtr("https://media.example/clip.mp4")
	_, err = repo.Upsert(ctx, rec)
	require.NoError(t, err)

	game, err := repo.GetBySlug(ctx, "the-witness")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example/backfilled.jpg", *game.BackgroundImage)
	assert.Equal(t, "https://media.example/clip.mp4", *game.ClipURL)

	// And a snapshot that lost the media never clears what we have.
	rec = sampleRecord()
	rec.BackgroundImage = nil
	rec.ClipURL = nil
	_, err = repo.Upsert(ctx, rec)
	require.NoError(t, err)

	game, err = repo.GetBySlug(ctx, "the-witness")
	require.NoError(t, err)
	assert.Equal(t, "https://media.example/backfilled.jpg", *game.BackgroundImage)
	assert.Equal(t, "https://media.example/clip.mp4", *game.ClipURL)
}

func TestUpsert_SharesLookupRows(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)
	ctx := context.Background()

	first := sampleRecord()
	_, err := repo.Upsert(ctx, first)
	require.NoError(t, err)

	second := sampleRecord()
	second.Slug = "the-talos-principle"
	second.Name = "The Talos Principle"
	_, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	var genres int64
	require.NoError(t, db.Model(&models.Genre{}).Count(&genres).Error)
	assert.Equal(t, int64(1), genres)

	var joins int64
	require.NoError(t, db.Model(&models.GameGenre{}).Count(&joins).Error)
	assert.Equal(t, int64(2), joins)
}

func TestGetAll_PaginatesAndFilters(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)
	ctx := context.Background()

	for _, rec := range []*models.GameRecord{
		{Slug: "a-game", Name: "A Game", Genres: []models.LookupRef{{Slug: "indie", Name: "Indie"}}},
		{Slug: "b-game", Name: "B Game", Genres: []models.LookupRef{{Slug: "indie", Name: "Indie"}}},
		{Slug: "c-game", Name: "C Game", Genres: []models.LookupRef{{Slug: "rpg", Name: "RPG"}}},
	} {
		_, err := repo.Upsert(ctx, rec)
		require.NoError(t, err)
	}

	all, total, err := repo.GetAll(ctx, repository.GameFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)

	indie, total, err := repo.GetAll(ctx, repository.GameFilter{GenreSlug: "indie"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, indie, 2)
}

func TestGetBySlug_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewGameRepo(db)

	_, err := repo.GetBySlug(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
