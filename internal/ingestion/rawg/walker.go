package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"log"
)

// Walker drives the client across every page of a query, yielding each raw
// record to a visit callback before requesting the next page. Pages are
// fetched strictly one at a time; a walk always starts from page 1.
type Walker struct {
	client *Client
}

// NewWalker creates a walker over the given client.
func NewWalker(client *Client) *Walker {
	return &Walker{client: client}
}

// Walk iterates all pages of the query. It stops cleanly (nil error) when the
// API reports no further pages or answers with the end-of-data condition. A
// fetch failure aborts the walk and is returned as-is, carrying the page
// number it happened on; no partial page is yielded silently. A non-nil error
// from visit aborts the walk too.
func (w *Walker) Walk(ctx context.Context, query GameQuery, visit func(raw json.RawMessage) error) error {
	page := 1
	for {
		result, err := w.client.FetchGames(ctx, query, page)
		if err != nil {
			if errors.Is(err, ErrNoMoreData) {
				log.Printf("[RAWG] No more pages at page %d", page)
				return nil
			}
			return err
		}

		for _, raw := range result.Results {
			if err := visit(raw); err != nil {
				return err
			}
		}

		if !result.HasNext() {
			return nil
		}
		page++
	}
}
