package models

import "time"

// ListingMode is the ranking requested from Reddit
type ListingMode string

const (
	ListingHot    ListingMode = "hot"
	ListingTop    ListingMode = "top"
	ListingNew    ListingMode = "new"
	ListingRising ListingMode = "rising"
)

// ListingModes lists every supported listing mode in display order
var ListingModes = []ListingMode{ListingHot, ListingTop, ListingNew, ListingRising}

func (m ListingMode) Valid() bool {
	switch m {
	case ListingHot, ListingTop, ListingNew, ListingRising:
		return true
	}
	return false
}

// TimeWindow bounds how far back "top" and search results reach
type TimeWindow string

const (
	TimeHour  TimeWindow = "hour"
	TimeDay   TimeWindow = "day"
	TimeWeek  TimeWindow = "week"
	TimeMonth TimeWindow = "month"
	TimeYear  TimeWindow = "year"
	TimeAll   TimeWindow = "all"
)

var TimeWindows = []TimeWindow{TimeHour, TimeDay, TimeWeek, TimeMonth, TimeYear, TimeAll}

func (w TimeWindow) Valid() bool {
	switch w {
	case TimeHour, TimeDay, TimeWeek, TimeMonth, TimeYear, TimeAll:
		return true
	}
	return false
}

// Scope is a region preset contributing default subreddits
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeUS     Scope = "us"
	ScopeTurkey Scope = "turkey"
)

var Scopes = []Scope{ScopeGlobal, ScopeUS, ScopeTurkey}

func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeUS, ScopeTurkey:
		return true
	}
	return false
}

// Language selects the audience language; Turkish pulls in a bonus preset
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTurkish Language = "tr"
)

var Languages = []Language{LanguageEnglish, LanguageTurkish}

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguageTurkish:
		return true
	}
	return false
}

// AnalyzeRequest is the raw filter state submitted by a client
type AnalyzeRequest struct {
	Scope            Scope       `json:"scope"`
	Language         Language    `json:"language"`
	Listing          ListingMode `json:"listing"`
	TimeFrame        TimeWindow  `json:"timeFrame"`
	Limit            int         `json:"limit"`
	Categories       []string    `json:"categories"`
	CustomSubreddits []string    `json:"customSubreddits"`
	SearchQuery      string      `json:"searchQuery,omitempty"`
	After            string      `json:"after,omitempty"`
}

// FetchSpec is a validated, normalized fetch request. Treat as read-only.
type FetchSpec struct {
	Subreddits  []string
	Listing     ListingMode
	TimeFrame   TimeWindow
	Limit       int
	Scope       Scope
	Language    Language
	SearchQuery string // empty when absent
	After       string // empty when absent
}

// Post represents a single Reddit submission
type Post struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"numComments"`
	URL         string  `json:"url"`
	Selftext    string  `json:"selftext"`
	CreatedUTC  float64 `json:"createdUtc"`
	Permalink   string  `json:"permalink"`
	Ups         int     `json:"ups"`
	UpvoteRatio float64 `json:"upvoteRatio"`
	FlairText   *string `json:"flairText"`
	Author      string  `json:"author"`
	IsSelf      bool    `json:"isSelf"`
	Thumbnail   string  `json:"thumbnail"`
}

// CreatedAt converts the epoch timestamp into a time.Time
func (p Post) CreatedAt() time.Time {
	return time.Unix(int64(p.CreatedUTC), 0).UTC()
}

// Listing is one page of posts with its pagination cursors
type Listing struct {
	Posts      []Post  `json:"posts"`
	After      *string `json:"after"`
	Before     *string `json:"before"`
	TotalCount int     `json:"totalCount"`
}

// Summary holds aggregate numbers for a page of posts
type Summary struct {
	PostCount        int `json:"postCount"`
	UniqueSubreddits int `json:"uniqueSubreddits"`
	AverageScore     int `json:"averageScore"`
	TotalComments    int `json:"totalComments"`
}

// Digest is a scheduled snapshot of top posts for a configured request
type Digest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Title       string    `json:"title"`
	Subreddits  []string  `json:"subreddits"`
	Listing     string    `json:"listing"`
	TimeFrame   string    `json:"time_frame"`
	Summary     Summary   `json:"summary"`
	Posts       []Post    `json:"posts"`
}
