package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// MockDialer is a mock implementation of the SMTP dialer
type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) DialAndSend(msgs ...*gomail.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func sampleDigest() *models.Digest {
	flair := "Launch"
	return &models.Digest{
		GeneratedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Title:       "Reddit Digest - saas",
		Subreddits:  []string{"SaaS", "startups"},
		Listing:     "top",
		TimeFrame:   "day",
		Summary: models.Summary{
			PostCount:        2,
			UniqueSubreddits: 2,
			AverageScore:     30,
			TotalComments:    12,
		},
		Posts: []models.Post{
			{
				ID:          "a1",
				Title:       "Launching my SaaS",
				Subreddit:   "SaaS",
				Score:       50,
				NumComments: 10,
				Permalink:   "/r/SaaS/comments/a1/launching/",
				Author:      "founder",
				Selftext:    strings.Repeat("feedback ", 40),
				CreatedUTC:  1714554000,
				FlairText:   &flair,
			},
			{
				ID:          "b2",
				Title:       "Pricing <tips>",
				Subreddit:   "startups",
				Score:       10,
				NumComments: 2,
				URL:         "https://example.com/pricing",
				Author:      "[deleted]",
			},
		},
	}
}

func TestBuildTeamsMessage(t *testing.T) {
	message := BuildTeamsMessage(sampleDigest())

	assert.Equal(t, "MessageCard", message.Type)
	assert.Equal(t, "Reddit Digest - saas", message.Title)
	assert.Equal(t, "2 posts from 2 subreddits (top, day)", message.Text)
	require.Len(t, message.Sections, 2)
	assert.Equal(t, "Summary", message.Sections[0].ActivityTitle)
	assert.Contains(t, message.Sections[1].ActivityText, "https://www.reddit.com/r/SaaS/comments/a1/launching/")
	assert.Contains(t, message.Sections[1].ActivityText, "https://example.com/pricing")
}

func TestBuildTeamsMessage_NoPosts(t *testing.T) {
	digest := sampleDigest()
	digest.Posts = nil

	message := BuildTeamsMessage(digest)
	assert.Len(t, message.Sections, 1)
}

func TestBuildEmailHTML(t *testing.T) {
	html, err := BuildEmailHTML(sampleDigest())
	require.NoError(t, err)

	assert.Contains(t, html, "Reddit Digest - saas")
	assert.Contains(t, html, "r/SaaS by founder")
	assert.Contains(t, html, "Pricing &lt;tips&gt;")
	assert.Contains(t, html, "...")
}

func TestBuildEmailText(t *testing.T) {
	text := BuildEmailText(sampleDigest())

	assert.Contains(t, text, "Posts: 2")
	assert.Contains(t, text, "1. Launching my SaaS")
	assert.Contains(t, text, "2. Pricing <tips>")
	assert.Contains(t, text, "URL: https://example.com/pricing")
}

func TestService_SendDigest_Teams(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service := NewService(&config.Config{TeamsWebhookURL: server.URL})
	require.NoError(t, service.SendDigest(sampleDigest()))
	assert.Equal(t, "Reddit Digest - saas", received.Title)
}

func TestService_SendDigest_TeamsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad card"))
	}))
	defer server.Close()

	service := NewService(&config.Config{TeamsWebhookURL: server.URL})
	err := service.SendDigest(sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Teams webhook returned status 400: bad card")
}

func TestService_SendDigest_Email(t *testing.T) {
	dialer := &MockDialer{}
	dialer.On("DialAndSend", mock.Anything).Return(nil).Once()

	service := NewService(&config.Config{
		NotificationEmail: "team@example.com",
		SMTPHost:          "smtp.example.com",
		SMTPPort:          587,
		SMTPUsername:      "bot@example.com",
		SMTPPassword:      "secret",
	})
	service.dialer = dialer

	require.NoError(t, service.SendDigest(sampleDigest()))
	dialer.AssertExpectations(t)

	msgs := dialer.Calls[0].Arguments.Get(0).([]*gomail.Message)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"team@example.com"}, msgs[0].GetHeader("To"))
	assert.Equal(t, []string{"Reddit Digest - saas (2 posts)"}, msgs[0].GetHeader("Subject"))
}

func TestService_SendDigest_CollectsErrors(t *testing.T) {
	dialer := &MockDialer{}
	dialer.On("DialAndSend", mock.Anything).Return(errors.New("connection refused"))

	service := NewService(&config.Config{NotificationEmail: "team@example.com"})
	service.dialer = dialer

	err := service.SendDigest(sampleDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email: failed to send email: connection refused")
}

func TestService_SendDigest_NothingConfigured(t *testing.T) {
	service := NewService(&config.Config{})
	assert.NoError(t, service.SendDigest(sampleDigest()))
}
