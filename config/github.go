package config

import "time"

// GitHubConfig contains configuration for the GitHub metadata client used to
// enrich project listings with live repository stats.
type GitHubConfig struct {
	// Enabled toggles live enrichment. When false, listings serve stored
	// data only.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// Token is a bearer token for authenticated requests. Empty is fine for
	// public repositories, within unauthenticated rate limits.
	Token string `env:"TOKEN" envDefault:""`

	// BaseURL overrides the API base URL (GitHub Enterprise).
	BaseURL string `env:"BASE_URL" envDefault:"https://api.github.com"`

	// Timeout bounds each metadata request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to GitHub configuration values.
func (g *GitHubConfig) Sanitize() {
	if g.Timeout < time.Second {
		g.Timeout = time.Second
	}
}
