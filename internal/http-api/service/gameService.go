package service

import (
	"context"
	"fmt"
	"log"

	"gameinsight/internal/http-api/models"
	"gameinsight/internal/http-api/repository"
)

type GameService interface {
	GetAll(ctx context.Context, filter repository.GameFilter, page, pageSize int) ([]models.Game, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Game, error)
}

type gameService struct {
	repo  *repository.GameRepo
	cache *repository.GameCache
}

func NewGameService(repo *repository.GameRepo, cache *repository.GameCache) GameService {
	return &gameService{repo: repo, cache: cache}
}

type cachedGameList struct {
	Games []models.Game `json:"games"`
	Total int64         `json:"total"`
}

func (s *gameService) GetAll(ctx context.Context, filter repository.GameFilter, page, pageSize int) ([]models.Game, int64, error) {
	key := listCacheKey(filter, page, pageSize)

	var cached cachedGameList
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Printf("[GameService] cache read failed for %s: %v", key, err)
	} else if hit {
		return cached.Games, cached.Total, nil
	}

	games, total, err := s.repo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.Set(ctx, key, cachedGameList{Games: games, Total: total}); err != nil {
		log.Printf("[GameService] cache write failed for %s: %v", key, err)
	}
	return games, total, nil
}

func (s *gameService) GetBySlug(ctx context.Context, slug string) (*models.Game, error) {
	key := fmt.Sprintf("games:detail:%s", slug)

	var cached models.Game
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		log.Printf("[GameService] cache read failed for %s: %v", key, err)
	} else if hit {
		return &cached, nil
	}

	game, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, game); err != nil {
		log.Printf("[GameService] cache write failed for %s: %v", key, err)
	}
	return game, nil
}

func listCacheKey(filter repository.GameFilter, page, pageSize int) string {
	return fmt.Sprintf("games:list:q=%s:genre=%s:platform=%s:year=%d:p=%d:ps=%d",
		filter.Search, filter.GenreSlug, filter.PlatformSlug, filter.Year, page, pageSize)
}
