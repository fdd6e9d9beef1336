package sources

import (
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/tidwall/gjson"
)

// DeletedAuthor stands in for posts whose author field is missing
const DeletedAuthor = "[deleted]"

// ParseListing maps a Reddit listing payload into a Listing. Reddit's payload
// is not a closed contract, so a missing container yields an empty listing and
// every field falls back to a zero value instead of failing.
func ParseListing(body []byte) *models.Listing {
	listing := &models.Listing{Posts: []models.Post{}}

	data := gjson.GetBytes(body, "data")
	children := data.Get("children")
	if !data.IsObject() || !children.IsArray() {
		return listing
	}

	children.ForEach(func(_, child gjson.Result) bool {
		record := child.Get("data")
		if !child.IsObject() || !record.IsObject() {
			return true
		}
		listing.Posts = append(listing.Posts, rawRecord{record}.post())
		return true
	})

	listing.After = cursor(data.Get("after"))
	listing.Before = cursor(data.Get("before"))
	listing.TotalCount = int(data.Get("dist").Float())

	return listing
}

// rawRecord is the untyped "data" object of one listing child
type rawRecord struct {
	fields gjson.Result
}

func (r rawRecord) post() models.Post {
	return models.Post{
		ID:          r.text("id"),
		Title:       r.text("title"),
		Subreddit:   r.text("subreddit"),
		Score:       int(r.number("score")),
		NumComments: int(r.number("num_comments")),
		URL:         r.text("url"),
		Selftext:    r.text("selftext"),
		CreatedUTC:  r.number("created_utc"),
		Permalink:   r.text("permalink"),
		Ups:         int(r.number("ups")),
		UpvoteRatio: r.number("upvote_ratio"),
		FlairText:   r.optionalText("link_flair_text"),
		Author:      r.textOr("author", DeletedAuthor),
		IsSelf:      truthy(r.fields.Get("is_self")),
		Thumbnail:   r.text("thumbnail"),
	}
}

// number coerces numeric strings and booleans, anything else becomes 0
func (r rawRecord) number(key string) float64 {
	return r.fields.Get(key).Float()
}

func (r rawRecord) text(key string) string {
	return r.textOr(key, "")
}

func (r rawRecord) textOr(key, fallback string) string {
	v := r.fields.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return fallback
	}
	return v.String()
}

func (r rawRecord) optionalText(key string) *string {
	v := r.fields.Get(key)
	if !truthy(v) {
		return nil
	}
	s := v.String()
	return &s
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	}
	return false
}

func cursor(v gjson.Result) *string {
	if v.Type != gjson.String {
		return nil
	}
	s := v.Str
	return &s
}
