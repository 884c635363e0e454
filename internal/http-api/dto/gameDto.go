package dto

import (
	"time"

	"gameinsight/internal/http-api/models"
)

// GameBasicResponse is the compact shape used in list endpoints.
type GameBasicResponse struct {
	ID              int64    `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Released        *string  `json:"released,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	Metacritic      *int     `json:"metacritic,omitempty"`
	BackgroundImage *string  `json:"background_image,omitempty"`
	Genres          []string `json:"genres,omitempty"`
}

// GameResponse is the full shape used on the detail endpoint.
type GameResponse struct {
	ID              int64            `json:"id"`
	Slug            string           `json:"slug"`
	Name            string           `json:"name"`
	Released        *string          `json:"released,omitempty"`
	Rating          *float64         `json:"rating,omitempty"`
	RatingsCount    *int             `json:"ratings_count,omitempty"`
	Metacritic      *int             `json:"metacritic,omitempty"`
	Playtime        *int             `json:"playtime,omitempty"`
	BackgroundImage *string          `json:"background_image,omitempty"`
	ClipURL         *string          `json:"clip_url,omitempty"`
	Genres          []LookupResponse `json:"genres"`
	Platforms       []LookupResponse `json:"platforms"`
	Stores          []LookupResponse `json:"stores"`
	Tags            []LookupResponse `json:"tags"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// LookupResponse is the shared shape for genres, platforms, stores, and tags.
type LookupResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func FromGameToBasicResponse(g models.Game) GameBasicResponse {
	resp := GameBasicResponse{
		ID:              g.ID,
		Slug:            g.Slug,
		Name:            g.Name,
		Released:        formatDate(g.Released),
		Rating:          g.Rating,
		Metacritic:      g.Metacritic,
		BackgroundImage: g.BackgroundImage,
	}
	for _, genre := range g.Genres {
		resp.Genres = append(resp.Genres, genre.Name)
	}
	return resp
}

func FromGameToResponse(g models.Game) GameResponse {
	return GameResponse{
		ID:              g.ID,
		Slug:            g.Slug,
		Name:            g.Name,
		Released:        formatDate(g.Released),
		Rating:          g.Rating,
		RatingsCount:    g.RatingsCount,
		Metacritic:      g.Metacritic,
		Playtime:        g.Playtime,
		BackgroundImage: g.BackgroundImage,
		ClipURL:         g.ClipURL,
		Genres:          toLookupResponses(genreRefs(g.Genres)),
		Platforms:       toLookupResponses(platformRefs(g.Platforms)),
		Stores:          toLookupResponses(storeRefs(g.Stores)),
		Tags:            toLookupResponses(tagRefs(g.Tags)),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

type lookupRef struct {
	ID   int64
	Slug string
	Name string
}

func genreRefs(in []models.Genre) []lookupRef {
	out := make([]lookupRef, 0, len(in))
	for _, v := range in {
		out = append(out, lookupRef{ID: v.ID, Slug: v.Slug, Name: v.Name})
	}
	return out
}

func platformRefs(in []models.Platform) []lookupRef {
	out := make([]lookupRef, 0, len(in))
	for _, v := range in {
		out = append(out, lookupRef{ID: v.ID, Slug: v.Slug, Name: v.Name})
	}
	return out
}

func storeRefs(in []models.Store) []lookupRef {
	out := make([]lookupRef, 0, len(in))
	for _, v := range in {
		out = append(out, lookupRef{ID: v.ID, Slug: v.Slug, Name: v.Name})
	}
	return out
}

func tagRefs(in []models.Tag) []lookupRef {
	out := make([]lookupRef, 0, len(in))
	for _, v := range in {
		out = append(out, lookupRef{ID: v.ID, Slug: v.Slug, Name: v.Name})
	}
	return out
}

func toLookupResponses(refs []lookupRef) []LookupResponse {
	out := make([]LookupResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, LookupResponse{ID: r.ID, Slug: r.Slug, Name: r.Name})
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
