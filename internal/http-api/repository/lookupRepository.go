package repository

import (
	"context"
	"errors"
	"fmt"

	"gameinsight/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// find-or-create helpers for the lookup tables. They run inside the caller's
// transaction so game upsert and association linking stay atomic. Creation is
// conflict-tolerant: losing a race to a concurrent ingestion run falls back
// to reading the winner's row.

func FindOrCreateGenre(tx *gorm.DB, ref models.LookupRef) (int64, error) {
	var g models.Genre
	err := tx.Where("slug = ?", ref.Slug).First(&g).Error
	if err == nil {
		return g.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("find genre %q: %w", ref.Slug, err)
	}

	g = models.Genre{Slug: ref.Slug, Name: ref.Name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&g).Error; err != nil {
		return 0, fmt.Errorf("create genre %q: %w", ref.Slug, err)
	}
	if g.ID != 0 {
		return g.ID, nil
	}
	if err := tx.Where("slug = ?", ref.Slug).First(&g).Error; err != nil {
		return 0, fmt.Errorf("refetch genre %q: %w", ref.Slug, err)
	}
	return g.ID, nil
}

func FindOrCreatePlatform(tx *gorm.DB, ref models.LookupRef) (int64, error) {
	var p models.Platform
	err := tx.Where("slug = ?", ref.Slug).First(&p).Error
	if err == nil {
		return p.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("find platform %q: %w", ref.Slug, err)
	}

	p = models.Platform{Slug: ref.Slug, Name: ref.Name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
		return 0, fmt.Errorf("create platform %q: %w", ref.Slug, err)
	}
	if p.ID != 0 {
		return p.ID, nil
	}
	if err := tx.Where("slug = ?", ref.Slug).First(&p).Error; err != nil {
		return 0, fmt.Errorf("refetch platform %q: %w", ref.Slug, err)
	}
	return p.ID, nil
}

func FindOrCreateStore(tx *gorm.DB, ref models.LookupRef) (int64, error) {
	var s models.Store
	err := tx.Where("slug = ?", ref.Slug).First(&s).Error
	if err == nil {
		return s.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("find store %q: %w", ref.Slug, err)
	}

	s = models.Store{Slug: ref.Slug, Name: ref.Name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
		return 0, fmt.Errorf("create store %q: %w", ref.Slug, err)
	}
	if s.ID != 0 {
		return s.ID, nil
	}
	if err := tx.Where("slug = ?", ref.Slug).First(&s).Error; err != nil {
		return 0, fmt.Errorf("refetch store %q: %w", ref.Slug, err)
	}
	return s.ID, nil
}

func FindOrCreateTag(tx *gorm.DB, ref models.LookupRef) (int64, error) {
	var t models.Tag
	err := tx.Where("slug = ?", ref.Slug).First(&t).Error
	if err == nil {
		return t.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("find tag %q: %w", ref.Slug, err)
	}

	t = models.Tag{Slug: ref.Slug, Name: ref.Name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error; err != nil {
		return 0, fmt.Errorf("create tag %q: %w", ref.Slug, err)
	}
	if t.ID != 0 {
		return t.ID, nil
	}
	if err := tx.Where("slug = ?", ref.Slug).First(&t).Error; err != nil {
		return 0, fmt.Errorf("refetch tag %q: %w", ref.Slug, err)
	}
	return t.ID, nil
}

// LookupRepo serves the read side of the lookup tables for the API.
type LookupRepo struct {
	db *gorm.DB
}

func NewLookupRepo(db *gorm.DB) *LookupRepo {
	return &LookupRepo{db: db}
}

func (r *LookupRepo) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return list, nil
}

func (r *LookupRepo) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	var list []models.Platform
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	return list, nil
}

func (r *LookupRepo) ListStores(ctx context.Context) ([]models.Store, error) {
	var list []models.Store
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return list, nil
}

func (r *LookupRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var list []models.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return list, nil
}
