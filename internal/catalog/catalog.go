// Package catalog holds the static subreddit presets offered to users.
package catalog

import (
	"sort"

	"github.com/azure/reddit-analyzer/internal/models"
)

const (
	CategoryMarketing  = "marketing"
	CategorySaaS       = "saas"
	CategoryAIDevTools = "aiDevTools"

	// BonusTurkish is added for Turkish language requests regardless of other selections
	BonusTurkish = "turkish"
)

var presets = map[string][]string{
	CategoryMarketing: {
		"marketing",
		"digital_marketing",
		"SEO",
		"socialmedia",
		"content_marketing",
		"growthhacking",
		"Entrepreneur",
	},
	CategorySaaS: {
		"SaaS",
		"startups",
		"indiehackers",
		"microsaas",
		"sideproject",
		"buildinpublic",
	},
	CategoryAIDevTools: {
		"ClaudeAI",
		"OpenAI",
		"ChatGPT",
		"LocalLLaMA",
		"MachineLearning",
		"coding",
		"webdev",
		"nextjs",
	},
	BonusTurkish: {"Turkey", "KGBTR", "Turkiye"},
}

var scopes = map[models.Scope][]string{
	models.ScopeGlobal: {},
	models.ScopeUS:     {"smallbusiness", "Entrepreneur", "startups"},
	models.ScopeTurkey: {"Turkey", "Turkiye", "KGBTR"},
}

// CategoryInfo describes a preset for filter panels
type CategoryInfo struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Subreddits []string `json:"subreddits"`
}

var labels = map[string]string{
	CategoryMarketing:  "Marketing",
	CategorySaaS:       "SaaS & Startup",
	CategoryAIDevTools: "AI & Dev Tools",
}

// Category returns the subreddits of a category preset, or nil for unknown keys.
func Category(key string) []string {
	return clone(presets[key])
}

// Scope returns the subreddits contributed by a region scope.
func Scope(scope models.Scope) []string {
	return clone(scopes[scope])
}

// Bonus returns the language bonus preset, if the language has one.
func Bonus(language models.Language) []string {
	if language == models.LanguageTurkish {
		return clone(presets[BonusTurkish])
	}
	return nil
}

// Categories lists the user selectable presets sorted by key. The language
// bonus preset is not selectable and is left out.
func Categories() []CategoryInfo {
	var infos []CategoryInfo
	for key, label := range labels {
		infos = append(infos, CategoryInfo{Key: key, Label: label, Subreddits: Category(key)})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

func clone(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
