package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/azure/reddit-analyzer/internal/analyzer"
	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/notifications"
	"github.com/azure/reddit-analyzer/internal/ratelimit"
	"github.com/azure/reddit-analyzer/internal/sources"
	"github.com/joho/godotenv"
)

const outputDir = "test_output"

// FileNotification renders digests to terminal and files instead of sending them
type FileNotification struct{}

func (f *FileNotification) SendDigest(digest *models.Digest) error {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("📊 %s\n", strings.ToUpper(digest.Title))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("🕒 Generated: %s\n", digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("📋 Listing: %s (%s)\n", digest.Listing, digest.TimeFrame)
	fmt.Printf("📈 Posts: %d across %d subreddits\n", digest.Summary.PostCount, digest.Summary.UniqueSubreddits)

	fmt.Println("\n📝 Top Posts:")
	for i, post := range digest.Posts {
		if i >= 5 {
			fmt.Printf("   ... and %d more posts\n", len(digest.Posts)-5)
			break
		}
		fmt.Printf("\n   %d. [r/%s] %s\n", i+1, post.Subreddit, post.Title)
		fmt.Printf("      👤 Author: %s | ⬆️ %d | 💬 %d\n", post.Author, post.Score, post.NumComments)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	stamp := digest.GeneratedAt.Format("2006-01-02_15-04-05")

	html, err := notifications.BuildEmailHTML(digest)
	if err != nil {
		return fmt.Errorf("failed to render email HTML: %w", err)
	}
	if err := writeOutput(fmt.Sprintf("digest_%s.html", stamp), []byte(html)); err != nil {
		return err
	}

	if err := writeOutput(fmt.Sprintf("digest_%s.txt", stamp), []byte(notifications.BuildEmailText(digest))); err != nil {
		return err
	}

	teams, err := json.MarshalIndent(notifications.BuildTeamsMessage(digest), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal Teams message: %w", err)
	}
	return writeOutput(fmt.Sprintf("teams_%s.json", stamp), teams)
}

func writeOutput(filename string, data []byte) error {
	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("💾 Saved %s\n", path)
	return nil
}

func main() {
	fmt.Println("📄 Reddit Analyzer - Digest Preview")
	fmt.Println("====================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	source := sources.NewRedditSource(cfg.RedditBaseURL, cfg.UserAgent, cfg.FetchTimeout)
	service := analyzer.NewService(source, ratelimit.NewGate(cfg.RateLimitInterval), nil)
	runner := analyzer.NewDigestRunner(cfg, service, &FileNotification{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("❌ Digest preview failed: %v", err)
	}

	fmt.Println("\n✅ Digest preview written to", outputDir)
}
