package rawg

import (
	"encoding/json"
	"time"
)

// ============================================
// API RESPONSE STRUCTURES
// ============================================

// Page represents one page of the paginated /games listing. Results stay raw
// so a single malformed record fails normalization on its own instead of
// poisoning the whole page decode.
type Page struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// HasNext reports whether the API advertises another page.
func (p *Page) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}

// RawGame mirrors the fields of a /games record this pipeline consumes.
// Everything beyond slug and name is optional in practice, so the fields are
// pointers and absence maps to nil.
type RawGame struct {
	Slug            string        `json:"slug"`
	Name            string        `json:"name"`
	Released        *string       `json:"released"`
	Rating          *float64      `json:"rating"`
	RatingsCount    *int          `json:"ratings_count"`
	Metacritic      *int          `json:"metacritic"`
	Playtime        *int          `json:"playtime"`
	BackgroundImage *string       `json:"background_image"`
	Clip            *RawClip      `json:"clip"`
	Genres          []RawLookup   `json:"genres"`
	Platforms       []RawPlatform `json:"platforms"`
	Stores          []RawStore    `json:"stores"`
	Tags            []RawLookup   `json:"tags"`
}

// RawClip holds the trailer reference nested inside a game record.
type RawClip struct {
	Clip string `json:"clip"`
}

// RawLookup is the (slug, name) shape shared by genres and tags.
type RawLookup struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// RawPlatform wraps the platform entry; the API nests the lookup one level
// down.
type RawPlatform struct {
	Platform RawLookup `json:"platform"`
}

// RawStore wraps the store entry the same way.
type RawStore struct {
	Store RawLookup `json:"store"`
}

// ============================================
// QUERY PARAMETERS
// ============================================

// GameQuery describes one bounded listing query: a release-date window, an
// updated-since window, or both. Zero times are omitted from the request.
type GameQuery struct {
	DatesStart   time.Time
	DatesEnd     time.Time
	UpdatedStart time.Time
	UpdatedEnd   time.Time
}
