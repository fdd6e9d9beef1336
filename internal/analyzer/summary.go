package analyzer

import (
	"math"
	"sort"

	"github.com/azure/reddit-analyzer/internal/models"
)

// SortBy orders posts for display
type SortBy string

const (
	SortByScore    SortBy = "score"
	SortByComments SortBy = "comments"
	SortByDate     SortBy = "date"
)

// Summarize computes aggregate numbers for a page of posts
func Summarize(posts []models.Post) models.Summary {
	summary := models.Summary{PostCount: len(posts)}
	if len(posts) == 0 {
		return summary
	}

	subreddits := make(map[string]bool)
	totalScore := 0
	for _, post := range posts {
		totalScore += post.Score
		summary.TotalComments += post.NumComments
		subreddits[post.Subreddit] = true
	}

	summary.UniqueSubreddits = len(subreddits)
	summary.AverageScore = int(math.Floor(float64(totalScore)/float64(len(posts)) + 0.5))

	return summary
}

// SortPosts returns a copy of posts ordered descending by the given key.
// Unknown keys fall back to score.
func SortPosts(posts []models.Post, by SortBy) []models.Post {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)

	var less func(a, b models.Post) bool
	switch by {
	case SortByComments:
		less = func(a, b models.Post) bool { return a.NumComments > b.NumComments }
	case SortByDate:
		less = func(a, b models.Post) bool { return a.CreatedUTC > b.CreatedUTC }
	default:
		less = func(a, b models.Post) bool { return a.Score > b.Score }
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
