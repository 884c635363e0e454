package service

import (
	"context"

	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/repository"
)

type LookupService interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
	ListStores(ctx context.Context) ([]models.Store, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type lookupService struct {
	repo *repository.LookupRepo
}

func NewLookupService(repo *repository.LookupRepo) LookupService {
	return &lookupService{repo: repo}
}

func (s *lookupService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.repo.ListGenres(ctx)
}

func (s *lookupService) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	return s.repo.ListPlatforms(ctx)
}

func (s *lookupService) ListStores(ctx context.Context) ([]models.Store, error) {
	return s.repo.ListStores(ctx)
}

func (s *lookupService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}
