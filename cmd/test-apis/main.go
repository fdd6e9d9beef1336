package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/azure/reddit-analyzer/internal/analyzer"
	"github.com/azure/reddit-analyzer/internal/catalog"
	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/sources"
	"github.com/joho/godotenv"
)

// Spacing between live calls so the check stays polite to Reddit
const callSpacing = 2 * time.Second

func main() {
	fmt.Println("🔍 Reddit Analyzer - API Connectivity Test")
	fmt.Println("==========================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	source := sources.NewRedditSource(cfg.RedditBaseURL, cfg.UserAgent, cfg.FetchTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Println("\n📡 Testing category presets...")
	fmt.Println(strings.Repeat("-", 40))

	for _, category := range catalog.Categories() {
		testRequest(ctx, source, category.Label, models.AnalyzeRequest{
			Scope:      models.ScopeGlobal,
			Language:   models.LanguageEnglish,
			Listing:    models.ListingHot,
			TimeFrame:  models.TimeDay,
			Limit:      5,
			Categories: []string{category.Key},
		})
		time.Sleep(callSpacing)
	}

	fmt.Println("\n📡 Testing search...")
	fmt.Println(strings.Repeat("-", 40))

	testRequest(ctx, source, "Scoped search", models.AnalyzeRequest{
		Scope:            models.ScopeGlobal,
		Language:         models.LanguageEnglish,
		Listing:          models.ListingTop,
		TimeFrame:        models.TimeWeek,
		Limit:            5,
		CustomSubreddits: []string{"SaaS"},
		SearchQuery:      "pricing",
	})
	time.Sleep(callSpacing)

	testRequest(ctx, source, "Global search", models.AnalyzeRequest{
		Scope:       models.ScopeUS,
		Language:    models.LanguageEnglish,
		Listing:     models.ListingTop,
		TimeFrame:   models.TimeWeek,
		Limit:       5,
		SearchQuery: "pricing",
	})

	fmt.Println("\n✅ API connectivity test completed!")
}

func testRequest(ctx context.Context, source sources.Source, name string, req models.AnalyzeRequest) {
	fmt.Printf("🔸 Testing %s... ", name)

	spec, err := analyzer.Compose(req)
	if err != nil {
		fmt.Printf("❌ INVALID: %v\n", err)
		return
	}

	listing, err := source.Fetch(ctx, spec)
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}

	fmt.Printf("✅ SUCCESS (%d posts from %d subreddits)\n", len(listing.Posts), len(spec.Subreddits))

	// Show sample post
	if len(listing.Posts) > 0 {
		fmt.Printf("   📝 Sample: \"%s\" (r/%s)\n", listing.Posts[0].Title, listing.Posts[0].Subreddit)
	}
	if listing.After != nil {
		fmt.Printf("   ➡️  Next cursor: %s\n", *listing.After)
	}
}
