// Package web serves the browser-facing story workshop: magic-link login,
// story management, unit forms, exports and the unit browser.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/talevortex/internal/platform/logging"
	"github.com/louisbranch/talevortex/internal/platform/timeouts"
	"github.com/louisbranch/talevortex/internal/services/web/app"
	"github.com/louisbranch/talevortex/internal/services/web/modules"
	"github.com/louisbranch/talevortex/internal/services/web/platform/httpx"
	"github.com/louisbranch/talevortex/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/talevortex/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/talevortex/internal/services/web/routepath"
	"github.com/louisbranch/talevortex/internal/services/web/session"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// Sessions defaults to an in-memory store with timeouts.SessionTTL.
	Sessions            *session.Store
	RequestSchemePolicy requestmeta.SchemePolicy
	Logger              *zap.Logger
	// Modules carries module services. Its Base is built by the server.
	Modules modules.Dependencies
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
}

// NewHandler composes the module handlers behind the shared middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	logger := logging.OrNop(cfg.Logger)
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewStore(timeouts.SessionTTL)
	}
	base := modulehandler.NewBase(sessions, cfg.RequestSchemePolicy, logger)
	deps := cfg.Modules
	deps.Base = base

	root, err := app.Compose(app.ComposeInput{
		PublicModules:       modules.PublicModules(deps),
		ProtectedModules:    modules.ProtectedModules(deps),
		RequestSchemePolicy: cfg.RequestSchemePolicy,
		NotFound:            http.HandlerFunc(base.WriteNotFound),
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}
	root.HandleFunc(http.MethodGet+" "+routepath.Health, handleHealth)

	return httpx.Chain(root,
		httpx.RequestID(),
		httpx.RecoverPanic(logger),
		httpx.RequestLogger(logger),
		session.Load(sessions, cfg.RequestSchemePolicy),
	), nil
}

// NewServer builds a configured web server.
func NewServer(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			// Must outlast text generation so text exports can complete.
			WriteTimeout: timeouts.TextGeneration + 30*time.Second,
		},
		logger: logging.OrNop(cfg.Logger),
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info("web listening", zap.String("addr", s.httpAddr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
