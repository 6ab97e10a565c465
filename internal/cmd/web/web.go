// Package web parses web command configuration and wires the story workshop
// server.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/talevortex/internal/platform/cmd"
	"github.com/louisbranch/talevortex/internal/platform/logging"
	"github.com/louisbranch/talevortex/internal/platform/mail"
	"github.com/louisbranch/talevortex/internal/platform/textgen"
	"github.com/louisbranch/talevortex/internal/services/auth/magiclink"
	"github.com/louisbranch/talevortex/internal/services/story/service"
	"github.com/louisbranch/talevortex/internal/services/story/storage/sqlite"
	"github.com/louisbranch/talevortex/internal/services/web"
	"github.com/louisbranch/talevortex/internal/services/web/modules"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/session"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"TALEVORTEX_WEB_HTTP_ADDR"         envDefault:"localhost:8080"`
	DBPath              string        `env:"TALEVORTEX_DB_PATH"               envDefault:"data/talevortex.db"`
	TrustForwardedProto bool          `env:"TALEVORTEX_TRUST_FORWARDED_PROTO"`
	SessionTTL          time.Duration `env:"TALEVORTEX_WEB_SESSION_TTL"       envDefault:"168h"`

	Logging   logging.Config
	TextGen   textgen.Config
	MagicLink magiclink.Settings
	SMTP      mail.Config `envPrefix:"TALEVORTEX_SMTP_"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honour X-Forwarded-Proto from a proxy")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Lifetime of a login session")
	fs.StringVar(&cfg.MagicLink.BaseURL, "public-base-url", cfg.MagicLink.BaseURL, "Public URL used in login links")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db path is required")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("session ttl must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.MagicLink.TTL <= 0 {
		cfg.MagicLink.TTL = magiclink.DefaultTTL
	}
	return cfg, nil
}

// Run starts the web server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(cfg.Logging, entrypoint.ServiceWeb)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	options := entrypoint.RunOptions{Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWeb, options, func(ctx context.Context) error {
		rt, err := newRuntime(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer rt.close()

		if err := rt.server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

type runtime struct {
	server *web.Server
	store  *sqlite.Store
}

func (r runtime) close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

func newRuntime(ctx context.Context, cfg Config, logger *zap.Logger) (runtime, error) {
	logger = logging.OrNop(logger)

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return runtime{}, fmt.Errorf("open story store: %w", err)
	}

	generators, err := textgen.New(ctx, cfg.TextGen)
	if err != nil {
		_ = store.Close()
		return runtime{}, fmt.Errorf("init text generation: %w", err)
	}
	if !generators.Enabled() {
		logger.Info("text generation disabled; set TALEVORTEX_AI_API_KEY to enable it")
	}
	svc := service.New(store,
		service.WithFillGenerator(generators.Fill),
		service.WithTextGenerator(generators.Text),
		service.WithLogger(logger),
	)

	issuer, err := newIssuer(cfg.MagicLink, logger)
	if err != nil {
		_ = store.Close()
		return runtime{}, err
	}

	server, err := web.NewServer(web.Config{
		HTTPAddr:            cfg.HTTPAddr,
		Sessions:            session.NewStore(cfg.SessionTTL),
		RequestSchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto},
		Logger:              logger,
		Modules: modules.Dependencies{
			Users:    svc,
			Tokens:   issuer,
			Sender:   mail.NewSender(cfg.SMTP, logger),
			BaseURL:  cfg.MagicLink.BaseURL,
			Accounts: svc,
			Catalog:  svc,
			Stories:  svc,
			Units:    svc,
		},
	})
	if err != nil {
		_ = store.Close()
		return runtime{}, fmt.Errorf("init web server: %w", err)
	}
	return runtime{server: server, store: store}, nil
}

func newIssuer(settings magiclink.Settings, logger *zap.Logger) (*magiclink.Issuer, error) {
	secret := magiclink.DecodeSecret(settings.Secret)
	if len(secret) == 0 {
		generated, err := magiclink.RandomSecret()
		if err != nil {
			return nil, err
		}
		logger.Warn("TALEVORTEX_MAGIC_LINK_SECRET is unset; login links will not survive a restart")
		secret = generated
	}
	issuer, err := magiclink.New(magiclink.Config{Secret: secret, TTL: settings.TTL})
	if err != nil {
		return nil, fmt.Errorf("init magic links: %w", err)
	}
	return issuer, nil
}
