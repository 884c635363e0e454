package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalker_VisitsEveryRecordAcrossPages(t *testing.T) {
	// Three pages of two records each; the third page carries no next link.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			w.Write(pageBody(t, "http://next/2", "game-1", "game-2"))
		case "2":
			w.Write(pageBody(t, "http://next/3", "game-3", "game-4"))
		case "3":
			w.Write(pageBody(t, "", "game-5", "game-6"))
		default:
			t.Errorf("unexpected page request %q", page)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	walker := NewWalker(NewClient(server.URL, "", 40))

	var slugs []string
	err := walker.Walk(context.Background(), GameQuery{}, func(raw json.RawMessage) error {
		var rg RawGame
		require.NoError(t, json.Unmarshal(raw, &rg))
		slugs = append(slugs, rg.Slug)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"game-1", "game-2", "game-3", "game-4", "game-5", "game-6"}, slugs)
}

func TestWalker_StopsCleanlyOn404(t *testing.T) {
	// The API sometimes advertises a next page that answers 404.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write(pageBody(t, "http://next/2", "only-game"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	walker := NewWalker(NewClient(server.URL, "", 40))

	visited := 0
	err := walker.Walk(context.Background(), GameQuery{}, func(raw json.RawMessage) error {
		visited++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, visited)
}

func TestWalker_FetchFailureCarriesPageNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			w.Write(pageBody(t, "http://next/2", "game-1"))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	walker := NewWalker(NewClient(server.URL, "", 40))

	visited := 0
	err := walker.Walk(context.Background(), GameQuery{}, func(raw json.RawMessage) error {
		visited++
		return nil
	})
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 2, fetchErr.Page)
	// Records from the successful first page were still delivered.
	assert.Equal(t, 1, visited)
}

func TestWalker_VisitErrorAbortsWalk(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(pageBody(t, "http://next/2", "game-1", "game-2"))
	}))
	defer server.Close()

	walker := NewWalker(NewClient(server.URL, "", 40))

	boom := errors.New("boom")
	visited := 0
	err := walker.Walk(context.Background(), GameQuery{}, func(raw json.RawMessage) error {
		visited++
		if visited == 2 {
			return fmt.Errorf("visit: %w", boom)
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, visited)
	assert.Equal(t, 1, requests)
}
