package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const redditURL = "https://www.reddit.com"

// Service handles sending digests via various channels
type Service struct {
	config *config.Config
	client *resty.Client
	dialer mailDialer
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	ActivityText  string      `json:"activityText,omitempty"`
	Facts         []TeamsFact `json:"facts,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendDigest sends a digest via configured notification channels
func (s *Service) SendDigest(digest *models.Digest) error {
	var errors []string

	// Send to Teams if configured
	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(digest); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent digest to Teams")
		}
	}

	// Send via email if configured
	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(digest); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(digest *models.Digest) error {
	message := BuildTeamsMessage(digest)

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

// BuildTeamsMessage renders a digest as a Teams message card
func BuildTeamsMessage(digest *models.Digest) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   digest.Title,
		Text: fmt.Sprintf("%d posts from %d subreddits (%s, %s)",
			digest.Summary.PostCount, digest.Summary.UniqueSubreddits, digest.Listing, digest.TimeFrame),
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts: []TeamsFact{
			{Name: "Posts", Value: fmt.Sprintf("%d", digest.Summary.PostCount)},
			{Name: "Subreddits", Value: fmt.Sprintf("%d", digest.Summary.UniqueSubreddits)},
			{Name: "Average Score", Value: fmt.Sprintf("%d", digest.Summary.AverageScore)},
			{Name: "Total Comments", Value: fmt.Sprintf("%d", digest.Summary.TotalComments)},
			{Name: "Generated", Value: digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		},
		Markdown: true,
	})

	if len(digest.Posts) > 0 {
		var lines []string
		for i, post := range digest.Posts {
			if i >= 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("**[%s](%s)** - r/%s (%d points, %d comments)",
				post.Title, permalink(post), post.Subreddit, post.Score, post.NumComments))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top Posts",
			ActivityText:  strings.Join(lines, "\n\n"),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) sendEmail(digest *models.Digest) error {
	subject := fmt.Sprintf("%s (%d posts)", digest.Title, digest.Summary.PostCount)

	htmlBody, err := BuildEmailHTML(digest)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", BuildEmailText(digest))
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #ff4500; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .post { border-left: 4px solid #ff4500; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .post-title { font-weight: bold; margin-bottom: 5px; }
        .post-meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <p>{{.Listing}} / {{.TimeFrame}} digest generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Summary</h2>
        <p><strong>Posts:</strong> {{.Summary.PostCount}}</p>
        <p><strong>Subreddits:</strong> {{.Summary.UniqueSubreddits}}</p>
        <p><strong>Average Score:</strong> {{.Summary.AverageScore}}</p>
        <p><strong>Total Comments:</strong> {{.Summary.TotalComments}}</p>
    </div>

    {{if .Posts}}
    <h2>Top Posts</h2>
    {{range $index, $post := .Posts}}
        {{if lt $index 10}}
        <div class="post">
            <div class="post-title">
                <a href="{{permalink $post}}" target="_blank">{{$post.Title}}</a>
            </div>
            <div class="post-meta">
                r/{{$post.Subreddit}} by {{$post.Author}} | {{$post.CreatedAt.Format "Jan 2, 2006"}} | Score: {{$post.Score}} | Comments: {{$post.NumComments}}
            </div>
            {{if $post.Selftext}}
            <p>{{$post.Selftext | truncate 200}}</p>
            {{end}}
        </div>
        {{end}}
    {{end}}
    {{end}}

    <hr>
    <p><small>This digest was generated automatically by Reddit Analyzer.</small></p>
</body>
</html>
`

var emailTmpl = template.Must(template.New("email").Funcs(template.FuncMap{
	"truncate":  truncate,
	"permalink": permalink,
}).Parse(emailTemplate))

// BuildEmailHTML renders the HTML body of a digest email
func BuildEmailHTML(digest *models.Digest) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, digest); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildEmailText renders the plain text body of a digest email
func BuildEmailText(digest *models.Digest) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("%s\n", digest.Title))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", digest.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Posts: %d\n", digest.Summary.PostCount))
	text.WriteString(fmt.Sprintf("Subreddits: %d\n", digest.Summary.UniqueSubreddits))
	text.WriteString(fmt.Sprintf("Average Score: %d\n", digest.Summary.AverageScore))
	text.WriteString(fmt.Sprintf("Total Comments: %d\n", digest.Summary.TotalComments))

	if len(digest.Posts) > 0 {
		text.WriteString("\nTOP POSTS\n")
		text.WriteString("=========\n")

		for i, post := range digest.Posts {
			if i >= 10 {
				break
			}
			text.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, post.Title))
			text.WriteString(fmt.Sprintf("   r/%s | Author: %s | Score: %d | Comments: %d\n",
				post.Subreddit, post.Author, post.Score, post.NumComments))
			text.WriteString(fmt.Sprintf("   URL: %s\n", permalink(post)))
			if post.Selftext != "" {
				text.WriteString(fmt.Sprintf("   %s\n", truncate(200, post.Selftext)))
			}
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by Reddit Analyzer.\n")

	return text.String()
}

func permalink(post models.Post) string {
	if post.Permalink == "" {
		return post.URL
	}
	return redditURL + post.Permalink
}

func truncate(length int, s string) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length]) + "..."
}
