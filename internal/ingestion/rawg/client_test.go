package rawg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageBody(t *testing.T, next string, slugs ...string) []byte {
	t.Helper()
	results := make([]json.RawMessage, 0, len(slugs))
	for _, slug := range slugs {
		raw, err := json.Marshal(map[string]string{"slug": slug, "name": slug})
		require.NoError(t, err)
		results = append(results, raw)
	}
	page := map[string]interface{}{
		"count":   len(slugs),
		"results": results,
	}
	if next != "" {
		page["next"] = next
	}
	body, err := json.Marshal(page)
	require.NoError(t, err)
	return body
}

func TestFetchGames_Success(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		w.Write(pageBody(t, "", "portal-2", "half-life"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 40)
	query := GameQuery{
		DatesStart: time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC),
		DatesEnd:   time.Date(2014, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	page, err := client.FetchGames(context.Background(), query, 3)
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
	assert.False(t, page.HasNext())

	params := gotQuery.Load().(url.Values)
	assert.Equal(t, "test-key", params.Get("key"))
	assert.Equal(t, "3", params.Get("page"))
	assert.Equal(t, "40", params.Get("page_size"))
	assert.Equal(t, "2014-03-01,2014-03-31", params.Get("dates"))
}

func TestFetchGames_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write(pageBody(t, "", "celeste"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 40)
	page, err := client.FetchGames(context.Background(), GameQuery{}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchGames_ExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 40)
	_, err := client.FetchGames(context.Background(), GameQuery{}, 7)
	require.Error(t, err)

	assert.True(t, IsExhausted(err))
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 7, fetchErr.Page)
	assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&calls))
}

func TestFetchGames_NotFoundMeansNoMoreData(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 40)
	_, err := client.FetchGames(context.Background(), GameQuery{}, 9000)
	assert.ErrorIs(t, err, ErrNoMoreData)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchGames_BadRequestIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 40)
	_, err := client.FetchGames(context.Background(), GameQuery{}, 1)
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchGames_GarbledBodyIsTransient(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"count": 1, "results": [`))
			return
		}
		w.Write(pageBody(t, "", "hades"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 40)
	page, err := client.FetchGames(context.Background(), GameQuery{}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchGames_CanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	client := NewClient(server.URL, "", 40)
	start := time.Now()
	_, err := client.FetchGames(ctx, GameQuery{}, 1)
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	// The 1s backoff must be abandoned promptly on cancel.
	assert.Less(t, time.Since(start), 800*time.Millisecond)
}

func TestNewClient_ClampsPageSize(t *testing.T) {
	assert.Equal(t, 40, NewClient("", "", 0).PageSize())
	assert.Equal(t, 40, NewClient("", "", 100).PageSize())
	assert.Equal(t, 25, NewClient("", "", 25).PageSize())
}
