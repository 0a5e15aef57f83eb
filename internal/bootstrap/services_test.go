package bootstrap

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/teamdesk/teamdesk/config"
)

func TestInitServicesRequiresDependencies(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		deps ServiceDeps
	}{
		{
			name: "nil config",
			deps: ServiceDeps{Logger: logger},
		},
		{
			name: "nil database",
			deps: ServiceDeps{Config: &config.AppConfig{}, Logger: logger},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := InitServices(tt.deps)
			if err == nil {
				t.Fatal("InitServices() error = nil, want error")
			}
			if container != nil {
				t.Fatalf("InitServices() = %v, want nil container", container)
			}
		})
	}
}

func TestBuildRepoStatsFetcher(t *testing.T) {
	if f := buildRepoStatsFetcher(config.GitHubConfig{Enabled: false}); f != nil {
		t.Fatalf("buildRepoStatsFetcher(disabled) = %v, want nil", f)
	}

	f := buildRepoStatsFetcher(config.GitHubConfig{
		Enabled: true,
		BaseURL: "https://github.example.com/api/v3",
		Token:   "token",
		Timeout: 5 * time.Second,
	})
	if f == nil {
		t.Fatal("buildRepoStatsFetcher(enabled) = nil, want fetcher")
	}
}

func TestServiceContainerCloseOnNil(t *testing.T) {
	var c *ServiceContainer
	c.Close()
}
