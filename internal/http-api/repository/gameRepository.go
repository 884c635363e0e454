package repository

import (
	"context"
	"errors"
	"fmt"

	"gameinsight/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertOutcome tells the caller whether an upsert inserted a new game row or
// refreshed an existing one. Both are success outcomes.
type UpsertOutcome string

const (
	UpsertCreated UpsertOutcome = "created"
	UpsertUpdated UpsertOutcome = "updated"
)

type GameRepo struct {
	db *gorm.DB
}

func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Upsert merges one canonical game record into storage inside a single
// transaction: the game row keyed by slug, each referenced lookup entity, and
// the association rows. Core scalar fields are always overwritten with the
// incoming values; background image and clip URL follow the backfill-only
// rule and never lose existing data to an empty incoming field. Uniqueness
// against concurrent runs rests on the unique indexes plus conflict-resolving
// writes, not on application locks.
func (r *GameRepo) Upsert(ctx context.Context, rec *models.GameRecord) (UpsertOutcome, error) {
	outcome := UpsertUpdated

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Game
		err := tx.Where("slug = ?", rec.Slug).First(&existing).Error

		var gameID int64
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			outcome = UpsertCreated
			gameID, err = r.insertGame(tx, rec)
			if err != nil {
				return err
			}

		case err != nil:
			return fmt.Errorf("find game %q: %w", rec.Slug, err)

		default:
			gameID = existing.ID
			if err := r.updateGame(tx, &existing, rec); err != nil {
				return err
			}
		}

		return linkAssociations(tx, gameID, rec)
	})
	if err != nil {
		return outcome, err
	}
	return outcome, nil
}

// insertGame writes a new game row. The insert is conflict-resolving: when a
// concurrent run created the same slug between our lookup and this write, the
// insert degrades into the equivalent update instead of failing.
func (r *GameRepo) insertGame(tx *gorm.DB, rec *models.GameRecord) (int64, error) {
	game := models.Game{
		Slug:            rec.Slug,
		Name:            rec.Name,
		Released:        rec.Released,
		Rating:          rec.Rating,
		RatingsCount:    rec.RatingsCount,
		Metacritic:      rec.Metacritic,
		Playtime:        rec.Playtime,
		BackgroundImage: rec.BackgroundImage,
		ClipURL:         rec.ClipURL,
	}

	assignments := map[string]interface{}{
		"name":          rec.Name,
		"released":      rec.Released,
		"rating":        rec.Rating,
		"ratings_count": rec.RatingsCount,
		"metacritic":    rec.Metacritic,
		"playtime":      rec.Playtime,
	}
	// Backfill-only media columns: keep the existing value unless it is empty
	assignments["background_image"] = gorm.Expr(
		"COALESCE(NULLIF(games.background_image, ''), excluded.background_image)")
	assignments["clip_url"] = gorm.Expr(
		"COALESCE(NULLIF(games.clip_url, ''), excluded.clip_url)")

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&game).Error; err != nil {
		return 0, fmt.Errorf("insert game %q: %w", rec.Slug, err)
	}

	if game.ID != 0 {
		return game.ID, nil
	}
	// Conflict path: the insert turned into an update, fetch the row id
	var row models.Game
	if err := tx.Where("slug = ?", rec.Slug).First(&row).Error; err != nil {
		return 0, fmt.Errorf("refetch game %q: %w", rec.Slug, err)
	}
	return row.ID, nil
}

// updateGame overwrites the core scalar fields with the latest values and
// applies the backfill rule to the media fields.
func (r *GameRepo) updateGame(tx *gorm.DB, existing *models.Game, rec *models.GameRecord) error {
	updates := map[string]interface{}{
		"name":          rec.Name,
		"released":      rec.Released,
		"rating":        rec.Rating,
		"ratings_count": rec.RatingsCount,
		"metacritic":    rec.Metacritic,
		"playtime":      rec.Playtime,
	}

	if rec.BackgroundImage != nil && isEmpty(existing.BackgroundImage) {
		updates["background_image"] = rec.BackgroundImage
	}
	if rec.ClipURL != nil && isEmpty(existing.ClipURL) {
		updates["clip_url"] = rec.ClipURL
	}

	if err := tx.Model(&models.Game{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update game %q: %w", rec.Slug, err)
	}
	return nil
}

// linkAssociations ensures every lookup entity referenced by the record
// exists and is linked to the game. Re-linking an existing pair is a no-op.
func linkAssociations(tx *gorm.DB, gameID int64, rec *models.GameRecord) error {
	for _, ref := range rec.Genres {
		genreID, err := FindOrCreateGenre(tx, ref)
		if err != nil {
			return err
		}
		link := models.GameGenre{GameID: gameID, GenreID: genreID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link genre %q: %w", ref.Slug, err)
		}
	}

	for _, ref := range rec.Platforms {
		platformID, err := FindOrCreatePlatform(tx, ref)
		if err != nil {
			return err
		}
		link := models.GamePlatform{GameID: gameID, PlatformID: platformID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link platform %q: %w", ref.Slug, err)
		}
	}

	for _, ref := range rec.Stores {
		storeID, err := FindOrCreateStore(tx, ref)
		if err != nil {
			return err
		}
		link := models.GameStore{GameID: gameID, StoreID: storeID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link store %q: %w", ref.Slug, err)
		}
	}

	for _, ref := range rec.Tags {
		tagID, err := FindOrCreateTag(tx, ref)
		if err != nil {
			return err
		}
		link := models.GameTag{GameID: gameID, TagID: tagID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link tag %q: %w", ref.Slug, err)
		}
	}

	return nil
}

func isEmpty(s *string) bool {
	return s == nil || *s == ""
}

// ============================================
// READ SIDE (API queries)
// ============================================

// GameFilter narrows the paginated listing.
type GameFilter struct {
	Search       string
	GenreSlug    string
	PlatformSlug string
	Year         int
}

func (r *GameRepo) GetAll(ctx context.Context, filter GameFilter, page, pageSize int) ([]models.Game, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Game{})

	if filter.Search != "" {
		db = db.Where("games.name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.GenreSlug != "" {
		db = db.Joins("JOIN game_genres gg ON gg.game_id = games.id").
			Joins("JOIN genres g ON g.id = gg.genre_id").
			Where("g.slug = ?", filter.GenreSlug)
	}
	if filter.PlatformSlug != "" {
		db = db.Joins("JOIN game_platforms gp ON gp.game_id = games.id").
			Joins("JOIN platforms p ON p.id = gp.platform_id").
			Where("p.slug = ?", filter.PlatformSlug)
	}
	if filter.Year != 0 {
		db = db.Where("EXTRACT(YEAR FROM games.released) = ?", filter.Year)
	}

	var total int64
	if err := db.Distinct("games.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	offset := (page - 1) * pageSize
	var list []models.Game
	if err := db.Distinct("games.*").
		Preload("Genres").
		Preload("Platforms").
		Order("games.released desc NULLS LAST").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}

	return list, total, nil
}

func (r *GameRepo) GetBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Platforms").
		Preload("Stores").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}
