package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/azure/reddit-analyzer/internal/analyzer"
	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/ratelimit"
	"github.com/azure/reddit-analyzer/internal/sources"
	"github.com/joho/godotenv"
)

// SimpleTestNotification prints digests instead of sending them
type SimpleTestNotification struct{}

func (s *SimpleTestNotification) SendDigest(digest *models.Digest) error {
	fmt.Println("\n🎉 DIGEST GENERATED!")
	fmt.Printf("📰 %s\n", digest.Title)
	fmt.Printf("📊 Posts: %d | Subreddits: %d | Avg score: %d | Comments: %d\n",
		digest.Summary.PostCount, digest.Summary.UniqueSubreddits,
		digest.Summary.AverageScore, digest.Summary.TotalComments)

	if len(digest.Posts) > 0 {
		fmt.Println("📝 Top Posts:")
		for i, post := range digest.Posts {
			if i >= 3 {
				break
			}
			fmt.Printf("   %d. [r/%s] %s (%d)\n", i+1, post.Subreddit, post.Title, post.Score)
		}
	}

	return nil
}

func main() {
	fmt.Println("🧪 Reddit Analyzer - Local Integration Test")
	fmt.Println("============================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Create basic config for testing
	cfg := &config.Config{
		RedditBaseURL:    sources.DefaultBaseURL,
		UserAgent:        sources.DefaultUserAgent,
		FetchTimeout:     sources.DefaultTimeout,
		DigestCategories: []string{"saas", "aiDevTools"},
		DigestScope:      "us",
		DigestLanguage:   "en",
		DigestListing:    "top",
		DigestTimeFrame:  "day",
		DigestLimit:      50,
	}

	source := sources.NewRedditSource(cfg.RedditBaseURL, cfg.UserAgent, cfg.FetchTimeout)
	service := analyzer.NewService(source, ratelimit.NewGate(ratelimit.DefaultInterval), nil)
	runner := analyzer.NewDigestRunner(cfg, service, &SimpleTestNotification{})

	fmt.Println("🔍 Running full digest cycle against live Reddit...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("❌ Digest failed: %v", err)
	}

	// A second request inside the gate interval must be refused without a network call
	result := service.Analyze(ctx, models.AnalyzeRequest{
		Scope:      models.ScopeGlobal,
		Language:   models.LanguageEnglish,
		Listing:    models.ListingHot,
		TimeFrame:  models.TimeDay,
		Limit:      5,
		Categories: []string{"saas"},
	})
	if result.Success {
		log.Fatalf("❌ Rate gate admitted a request inside its interval")
	}
	fmt.Printf("\n🚦 Rate gate: %s\n", result.Error)

	fmt.Println("\n✅ Local integration test completed!")
}
