package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*RedditSource, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRedditSource(server.URL, "", time.Second), server
}

func baseSpec(subreddits ...string) *models.FetchSpec {
	return &models.FetchSpec{
		Subreddits: subreddits,
		Listing:    models.ListingTop,
		TimeFrame:  models.TimeWeek,
		Limit:      25,
		Scope:      models.ScopeGlobal,
		Language:   models.LanguageEnglish,
	}
}

func TestRedditSource_GetName(t *testing.T) {
	source := NewRedditSource("", "", 0)
	assert.Equal(t, "reddit", source.GetName())
	assert.Equal(t, DefaultTimeout, source.timeout)
}

func TestRedditSource_FetchListing(t *testing.T) {
	var got *http.Request
	source, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleListing))
	})

	spec := baseSpec("SaaS", "startups", "indiehackers")
	spec.After = "t3_prev"

	listing, err := source.Fetch(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, listing.Posts, 2)

	require.NotNil(t, got)
	assert.Equal(t, "/r/SaaS+startups+indiehackers/top.json", got.URL.Path)
	query := got.URL.Query()
	assert.Equal(t, "25", query.Get("limit"))
	assert.Equal(t, "week", query.Get("t"))
	assert.Equal(t, "1", query.Get("raw_json"))
	assert.Equal(t, "t3_prev", query.Get("after"))
	assert.False(t, query.Has("q"))
	assert.Equal(t, DefaultUserAgent, got.Header.Get("User-Agent"))
}

func TestRedditSource_FetchListingWithoutCursor(t *testing.T) {
	var got *http.Request
	source, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`{"data":{"children":[]}}`))
	})

	spec := baseSpec("golang")
	spec.Listing = models.ListingHot

	listing, err := source.Fetch(context.Background(), spec)
	require.NoError(t, err)
	assert.Empty(t, listing.Posts)
	assert.Equal(t, "/r/golang/hot.json", got.URL.Path)
	assert.False(t, got.URL.Query().Has("after"))
}

func TestRedditSource_SearchSingleSubreddit(t *testing.T) {
	var got *http.Request
	source, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(sampleListing))
	})

	spec := baseSpec("SaaS")
	spec.SearchQuery = "pricing page"

	_, err := source.Fetch(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "/r/SaaS/search.json", got.URL.Path)
	query := got.URL.Query()
	assert.Equal(t, "pricing page", query.Get("q"))
	assert.Equal(t, "relevance", query.Get("sort"))
	assert.Equal(t, "week", query.Get("t"))
	assert.Equal(t, "25", query.Get("limit"))
	assert.Equal(t, "1", query.Get("raw_json"))
	assert.Equal(t, "1", query.Get("restrict_sr"))
}

func TestRedditSource_SearchManySubredditsIsGlobal(t *testing.T) {
	var got *http.Request
	source, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(sampleListing))
	})

	spec := baseSpec("my_sub", "other_sub")
	spec.SearchQuery = "churn"
	spec.After = "t3_next"

	_, err := source.Fetch(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, "/search.json", got.URL.Path)
	assert.False(t, got.URL.Query().Has("restrict_sr"))
	assert.Equal(t, "t3_next", got.URL.Query().Get("after"))
}

func TestRedditSource_StatusError(t *testing.T) {
	tests := []struct {
		name     string
		spec     *models.FetchSpec
		expected string
	}{
		{
			name:     "Listing",
			spec:     baseSpec("a", "b"),
			expected: "Reddit API error for r/a+b: 403",
		},
		{
			name: "Search",
			spec: func() *models.FetchSpec {
				s := baseSpec("a")
				s.SearchQuery = "x"
				return s
			}(),
			expected: "Reddit search error: 403",
		},
	}

	source, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := source.Fetch(context.Background(), tt.spec)
			require.Error(t, err)
			assert.Equal(t, tt.expected, err.Error())

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
		})
	}
}

func TestRedditSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	source := NewRedditSource(server.URL, "", 50*time.Millisecond)

	_, err := source.Fetch(context.Background(), baseSpec("golang"))
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.True(t, fetchErr.Timeout)
	assert.Equal(t, "request timed out or was aborted", err.Error())
}

func TestRedditSource_InvalidJSON(t *testing.T) {
	source, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>blocked</html>`))
	})

	_, err := source.Fetch(context.Background(), baseSpec("golang"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON response")
}

func TestRedditSource_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	source := NewRedditSource(url, "", time.Second)
	_, err := source.Fetch(context.Background(), baseSpec("golang"))
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.False(t, fetchErr.Timeout)
	assert.Zero(t, fetchErr.StatusCode)
	assert.NotEmpty(t, err.Error())
}

func TestRedditSource_NoSubreddits(t *testing.T) {
	source := NewRedditSource("http://127.0.0.1:0", "", time.Second)
	_, err := source.Fetch(context.Background(), baseSpec())
	assert.Error(t, err)
}
