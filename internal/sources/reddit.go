package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "reddit-analyzer/1.0 (topic-finder)"
	DefaultTimeout   = 10 * time.Second

	searchErrorLabel = "Reddit search error"
)

// FetchError reports a failed call to the Reddit API
type FetchError struct {
	Op         string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return "request timed out or was aborted"
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Op
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RedditSource reads public listings and search results from Reddit's JSON API
type RedditSource struct {
	client  *resty.Client
	timeout time.Duration
}

// Ensure RedditSource implements Source
var _ Source = (*RedditSource)(nil)

// NewRedditSource creates a new Reddit source. Empty arguments fall back to
// the public endpoint, the default user agent and a 10 second timeout.
func NewRedditSource(baseURL, userAgent string, timeout time.Duration) *RedditSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &RedditSource{
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetHeader("User-Agent", userAgent),
		timeout: timeout,
	}
}

func (r *RedditSource) GetName() string {
	return "reddit"
}

// Fetch issues a single listing or search request for the spec. Search is
// restricted to a subreddit only when exactly one is selected; Reddit cannot
// restrict a search to an arbitrary set.
func (r *RedditSource) Fetch(ctx context.Context, spec *models.FetchSpec) (*models.Listing, error) {
	if len(spec.Subreddits) == 0 {
		return nil, errors.New("no subreddits to fetch")
	}

	if spec.SearchQuery != "" {
		return r.search(ctx, spec)
	}
	return r.listing(ctx, spec)
}

func (r *RedditSource) listing(ctx context.Context, spec *models.FetchSpec) (*models.Listing, error) {
	// r/a+b+c returns one merged listing with a single after cursor
	multi := strings.Join(spec.Subreddits, "+")

	params := map[string]string{
		"limit":    strconv.Itoa(spec.Limit),
		"t":        string(spec.TimeFrame),
		"raw_json": "1",
	}
	if spec.After != "" {
		params["after"] = spec.After
	}

	req := r.client.R().
		SetPathParams(map[string]string{
			"subreddits": multi,
			"listing":    string(spec.Listing),
		}).
		SetQueryParams(params)

	return r.do(ctx, req, "/r/{subreddits}/{listing}.json", fmt.Sprintf("Reddit API error for r/%s", multi))
}

func (r *RedditSource) search(ctx context.Context, spec *models.FetchSpec) (*models.Listing, error) {
	params := map[string]string{
		"q":        spec.SearchQuery,
		"sort":     "relevance",
		"t":        string(spec.TimeFrame),
		"limit":    strconv.Itoa(spec.Limit),
		"raw_json": "1",
	}
	if spec.After != "" {
		params["after"] = spec.After
	}

	req := r.client.R()
	path := "/search.json"
	if len(spec.Subreddits) == 1 {
		params["restrict_sr"] = "1"
		req.SetPathParam("subreddit", spec.Subreddits[0])
		path = "/r/{subreddit}/search.json"
	}
	req.SetQueryParams(params)

	return r.do(ctx, req, path, searchErrorLabel)
}

func (r *RedditSource) do(ctx context.Context, req *resty.Request, path, label string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	resp, err := req.SetContext(ctx).Get(path)
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{Op: label, Timeout: true, Err: err}
		}
		return nil, &FetchError{Op: label, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"url":      resp.Request.URL,
		"status":   resp.StatusCode(),
		"duration": time.Since(start).String(),
	}).Debug("Reddit request completed")

	if !resp.IsSuccess() {
		return nil, &FetchError{Op: label, StatusCode: resp.StatusCode()}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return nil, &FetchError{Op: label, Err: fmt.Errorf("%s: invalid JSON response", label)}
	}

	return ParseListing(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
