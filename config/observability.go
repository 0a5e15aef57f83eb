package config

import "time"

// MetricsConfig controls StatsD metric emission.
//
// Environment variables (METRICS_ prefix):
//   - METRICS_ENABLED: emit metrics (default: false)
//   - METRICS_ADDRESS: StatsD UDP endpoint, host:port
//   - METRICS_PREFIX: metric name prefix (default: teamdesk)
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS"`
	Prefix  string `env:"PREFIX" envDefault:"teamdesk"`
}

// NotifyConfig controls outbound Slack notifications for membership
// application events. An empty webhook URL disables notifications.
//
// Environment variables (NOTIFY_ prefix):
//   - NOTIFY_SLACK_WEBHOOK_URL: Slack incoming webhook URL
//   - NOTIFY_SLACK_CHANNEL: channel override (optional)
//   - NOTIFY_SLACK_USERNAME: bot username (default: teamdesk)
//   - NOTIFY_REVIEW_URL_PREFIX: admin review page prefix for deep links
//   - NOTIFY_TIMEOUT: per-delivery timeout (default: 5s)
//   - NOTIFY_RETRY_LIMIT: delivery retries after the first attempt (default: 2)
type NotifyConfig struct {
	SlackWebhookURL string        `env:"SLACK_WEBHOOK_URL"`
	SlackChannel    string        `env:"SLACK_CHANNEL"`
	SlackUsername   string        `env:"SLACK_USERNAME" envDefault:"teamdesk"`
	ReviewURLPrefix string        `env:"REVIEW_URL_PREFIX"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"5s"`
	RetryLimit      int           `env:"RETRY_LIMIT" envDefault:"2"`
}

// Sanitize applies guardrails to notification configuration values.
func (c *NotifyConfig) Sanitize() {
	if c.Timeout < time.Second {
		c.Timeout = time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
}
