package config

import "time"

// GuardConfig contains navigation guard configuration.
type GuardConfig struct {
	// IdentityWait bounds how long a guard waits for identity to be
	// established before treating the navigation as anonymous.
	IdentityWait time.Duration `env:"GUARD_IDENTITY_WAIT" envDefault:"3s"`

	// FallbackTTL is how long persisted fallback records outlive the login
	// that wrote them.
	FallbackTTL time.Duration `env:"GUARD_FALLBACK_TTL" envDefault:"720h"` // 30 days
}

// Sanitize applies guardrails to guard configuration values.
func (g *GuardConfig) Sanitize() {
	if g.IdentityWait < 100*time.Millisecond {
		g.IdentityWait = 100 * time.Millisecond
	}
	if g.FallbackTTL < time.Hour {
		g.FallbackTTL = time.Hour
	}
}
