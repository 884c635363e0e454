package models

import "time"

// LookupRef identifies one genre, platform, store or tag by its stable slug
// plus display name.
type LookupRef struct {
	Slug string
	Name string
}

// GameRecord is the canonical, source-independent shape of one ingested game:
// required identity fields, optional scalars as pointers, and deduplicated
// lookup references. It is what the normalizer produces and the upserter
// consumes.
type GameRecord struct {
	Slug            string
	Name            string
	Released        *time.Time
	Rating          *float64
	RatingsCount    *int
	Metacritic      *int
	Playtime        *int
	BackgroundImage *string
	ClipURL         *string

	Genres    []LookupRef
	Platforms []LookupRef
	Stores    []LookupRef
	Tags      []LookupRef
}
