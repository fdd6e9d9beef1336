package analyzer

import (
	"errors"

	"github.com/azure/reddit-analyzer/internal/catalog"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/sanitize"
)

const (
	MinLimit = 1
	MaxLimit = 100
)

// RateLimitMessage is shown to users rejected by the rate gate
const RateLimitMessage = "Too many requests. Please wait a moment and try again."

// ErrRateLimited is returned when a request arrives inside the rate gate interval
var ErrRateLimited = errors.New("rate limited")

// ValidationError is a hard failure caused by malformed required input. Its
// message is shown to users verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Compose validates a request and builds the fetch spec for it. Enum fields
// are checked first, in a fixed order, so the reported error is deterministic.
// Malformed optional input (limit, custom names, cursor) is repaired or
// dropped instead of rejected.
func Compose(req models.AnalyzeRequest) (*models.FetchSpec, error) {
	if !req.Listing.Valid() {
		return nil, &ValidationError{Field: "listing", Message: "Invalid listing type."}
	}
	if !req.TimeFrame.Valid() {
		return nil, &ValidationError{Field: "timeFrame", Message: "Invalid timeframe."}
	}
	if !req.Scope.Valid() {
		return nil, &ValidationError{Field: "scope", Message: "Invalid scope."}
	}
	if !req.Language.Valid() {
		return nil, &ValidationError{Field: "language", Message: "Invalid language."}
	}

	subreddits := newSourceSet()
	for _, category := range req.Categories {
		subreddits.add(catalog.Category(category)...)
	}
	subreddits.add(catalog.Scope(req.Scope)...)
	for _, raw := range req.CustomSubreddits {
		if name, ok := sanitize.SourceName(raw); ok {
			subreddits.add(name)
		}
	}
	subreddits.add(catalog.Bonus(req.Language)...)

	if subreddits.empty() {
		return nil, &ValidationError{Field: "subreddits", Message: "Select at least one subreddit."}
	}

	spec := &models.FetchSpec{
		Subreddits: subreddits.list(),
		Listing:    req.Listing,
		TimeFrame:  req.TimeFrame,
		Limit:      clampLimit(req.Limit),
		Scope:      req.Scope,
		Language:   req.Language,
	}

	if req.SearchQuery != "" {
		spec.SearchQuery = sanitize.QueryText(req.SearchQuery)
	}

	// An unusable cursor restarts from the first page
	if after, ok := sanitize.Cursor(req.After); ok {
		spec.After = after
	}

	return spec, nil
}

func clampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// sourceSet keeps unique subreddit names in first-seen order
type sourceSet struct {
	seen  map[string]bool
	names []string
}

func newSourceSet() *sourceSet {
	return &sourceSet{seen: make(map[string]bool)}
}

func (s *sourceSet) add(names ...string) {
	for _, name := range names {
		if !s.seen[name] {
			s.seen[name] = true
			s.names = append(s.names, name)
		}
	}
}

func (s *sourceSet) empty() bool {
	return len(s.names) == 0
}

func (s *sourceSet) list() []string {
	return s.names
}
