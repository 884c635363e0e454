package rawg

import (
	"encoding/json"
	"log"
	"time"

	"gameinsight/internal/http-api/models"
)

// Normalize maps one raw API record into the canonical GameRecord. Slug and
// name are required; every optional field maps to nil when absent or
// unusable. Lookup lists are deduplicated by slug, and entries missing a slug
// or name are dropped with a warning rather than failing the record.
func Normalize(raw json.RawMessage) (*models.GameRecord, error) {
	var rg RawGame
	if err := json.Unmarshal(raw, &rg); err != nil {
		return nil, &NormalizationError{Reason: "malformed record", Err: err}
	}

	if rg.Slug == "" {
		return nil, &NormalizationError{Field: "slug"}
	}
	if rg.Name == "" {
		return nil, &NormalizationError{Field: "name"}
	}

	rec := &models.GameRecord{
		Slug:            rg.Slug,
		Name:            rg.Name,
		Rating:          rg.Rating,
		RatingsCount:    rg.RatingsCount,
		Metacritic:      rg.Metacritic,
		Playtime:        rg.Playtime,
		BackgroundImage: emptyToNil(rg.BackgroundImage),
	}

	if rg.Released != nil && *rg.Released != "" {
		released, err := time.Parse(dateLayout, *rg.Released)
		if err != nil {
			log.Printf("[Normalize] Game %q has unparseable release date %q, keeping nil", rg.Slug, *rg.Released)
		} else {
			rec.Released = &released
		}
	}

	if rg.Clip != nil && rg.Clip.Clip != "" {
		clip := rg.Clip.Clip
		rec.ClipURL = &clip
	}

	rec.Genres = normalizeLookups(rg.Slug, "genres", rg.Genres)
	rec.Platforms = normalizeLookups(rg.Slug, "platforms", unwrapPlatforms(rg.Platforms))
	rec.Stores = normalizeLookups(rg.Slug, "stores", unwrapStores(rg.Stores))
	rec.Tags = normalizeLookups(rg.Slug, "tags", rg.Tags)

	return rec, nil
}

// normalizeLookups drops malformed entries and collapses repeats of the same
// slug within a single record to one reference.
func normalizeLookups(gameSlug, list string, entries []RawLookup) []models.LookupRef {
	if len(entries) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(entries))
	refs := make([]models.LookupRef, 0, len(entries))
	for _, e := range entries {
		if e.Slug == "" || e.Name == "" {
			log.Printf("[Normalize] Game %q: dropping %s entry with missing slug or name", gameSlug, list)
			continue
		}
		if seen[e.Slug] {
			continue
		}
		seen[e.Slug] = true
		refs = append(refs, models.LookupRef{Slug: e.Slug, Name: e.Name})
	}

	if len(refs) == 0 {
		return nil
	}
	return refs
}

func unwrapPlatforms(wrapped []RawPlatform) []RawLookup {
	out := make([]RawLookup, 0, len(wrapped))
	for _, w := range wrapped {
		out = append(out, w.Platform)
	}
	return out
}

func unwrapStores(wrapped []RawStore) []RawLookup {
	out := make([]RawLookup, 0, len(wrapped))
	for _, w := range wrapped {
		out = append(out, w.Store)
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
