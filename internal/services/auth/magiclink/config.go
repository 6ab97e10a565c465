package magiclink

import (
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultBaseURL = "http://localhost:8080"

// Settings controls magic link lifetime, signing and the public URL links
// point at.
type Settings struct {
	BaseURL string        `env:"TALEVORTEX_PUBLIC_BASE_URL"   envDefault:"http://localhost:8080"`
	TTL     time.Duration `env:"TALEVORTEX_MAGIC_LINK_TTL"    envDefault:"1h"`
	Secret  string        `env:"TALEVORTEX_MAGIC_LINK_SECRET"`
}

// LoadSettingsFromEnv loads magic-link settings and fills blank values with
// defaults.
func LoadSettingsFromEnv() (Settings, error) {
	var cfg Settings
	if err := env.Parse(&cfg); err != nil {
		return Settings{}, err
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return cfg, nil
}

// LoginURL joins the public base URL and the login path for token.
func LoginURL(baseURL, token string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base + "/login/" + url.PathEscape(token)
}
