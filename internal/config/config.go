package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client configuration, loaded from environment
// variables.
type Config struct {
	// ServerURL is the base URL of the activities server.
	ServerURL string `env:"MERGINGTON_SERVER_URL" envDefault:"http://localhost:8000"`
	// Addr is the listen address of the local surface.
	Addr string `env:"MERGINGTON_ADDR" envDefault:":8080"`
	// DBPath is the SQLite file holding the session and catalog snapshot.
	DBPath string `env:"MERGINGTON_DB" envDefault:"mergington.db"`
	// CSRFKey is a hex-encoded 32-byte secret; empty generates a random
	// per-run key.
	CSRFKey string `env:"MERGINGTON_CSRF_KEY"`
	// ResendKey enables signup confirmation emails when set.
	ResendKey string `env:"MERGINGTON_RESEND_KEY"`
	EmailFrom string `env:"MERGINGTON_EMAIL_FROM" envDefault:"Mergington High School <noreply@mergington.edu>"`
	// BannerAutoHide is how long success/error banners stay visible.
	BannerAutoHide time.Duration `env:"MERGINGTON_BANNER_AUTO_HIDE" envDefault:"5s"`
	// PanelAutoClose is how long the registration surface stays open
	// after a successful sign-up.
	PanelAutoClose time.Duration `env:"MERGINGTON_PANEL_AUTO_CLOSE" envDefault:"2500ms"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
