// Package service implements the story use cases behind the web handlers and
// the maintenance CLI: accounts, stories, units, labels, AI field fill,
// exports and imports.
//
// Every story-scoped call takes the acting user's email and reports a story
// owned by someone else exactly like a missing one.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/platform/id"
	"github.com/louisbranch/talevortex/internal/platform/logging"
	"github.com/louisbranch/talevortex/internal/platform/requestctx"
	"github.com/louisbranch/talevortex/internal/platform/textgen"
	"github.com/louisbranch/talevortex/internal/services/auth/magiclink"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/export"
	"github.com/louisbranch/talevortex/internal/services/story/fieldfill"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

const (
	displayNamePrefix   = "reader-"
	displayNameAttempts = 5
)

// Service runs story use cases against a store.
type Service struct {
	store       storage.Store
	filler      *fieldfill.Filler
	narrator    *export.Narrator
	fillEnabled bool
	textEnabled bool
	now         func() time.Time
	newID       func() (string, error)
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithFillGenerator sets the generator used for field suggestions.
func WithFillGenerator(gen textgen.Generator) Option {
	return func(s *Service) {
		s.filler = fieldfill.New(gen)
		s.fillEnabled = generatorEnabled(gen)
	}
}

// WithTextGenerator sets the generator used for story prose.
func WithTextGenerator(gen textgen.Generator) Option {
	return func(s *Service) {
		s.narrator = export.NewNarrator(gen)
		s.textEnabled = generatorEnabled(gen)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logging.OrNop(logger)
	}
}

// New builds a Service. Without generator options AI features are disabled.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		filler:   fieldfill.New(nil),
		narrator: export.NewNarrator(nil),
		now:      time.Now,
		newID:    id.NewID,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func generatorEnabled(gen textgen.Generator) bool {
	if gen == nil {
		return false
	}
	_, disabled := gen.(textgen.Disabled)
	return !disabled
}

// FillEnabled reports whether field suggestions reach a provider.
func (s *Service) FillEnabled() bool { return s.fillEnabled }

// TextEnabled reports whether story text export reaches a provider.
func (s *Service) TextEnabled() bool { return s.textEnabled }

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

// log annotates the service logger with the request that triggered the call.
func (s *Service) log(ctx context.Context) *zap.Logger {
	logger := s.logger
	if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
		logger = logger.With(zap.String("request_id", requestID))
	}
	if storyID, ok := requestctx.StoryIDFromContext(ctx); ok {
		logger = logger.With(zap.String("current_story_id", storyID))
	}
	return logger
}

// EnsureUser returns the account for email, creating it with a random
// display name on first login.
func (s *Service) EnsureUser(ctx context.Context, email string) (domain.User, error) {
	email, err := magiclink.NormalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.store.GetUser(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	for attempt := 0; attempt < displayNameAttempts; attempt++ {
		name, err := randomDisplayName()
		if err != nil {
			return domain.User{}, err
		}
		user = domain.User{Email: email, DisplayName: name, CreatedAt: s.nowUTC()}
		err = s.store.PutUser(ctx, user)
		if err == nil {
			s.log(ctx).Info("user created", zap.String("display_name", name))
			return user, nil
		}
		if !errors.Is(err, storage.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("create user: %w", err)
		}
	}
	return domain.User{}, apperrors.New(apperrors.CodeUserDisplayNameTaken, "could not pick a free display name")
}

// GetUser loads the account for email.
func (s *Service) GetUser(ctx context.Context, email string) (domain.User, error) {
	user, err := s.store.GetUser(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.User{}, apperrors.Wrap(apperrors.CodeUserNotAuthenticated, "user not found", err)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// ChangeDisplayName renames the account. Display names are unique ignoring
// case.
func (s *Service) ChangeDisplayName(ctx context.Context, email, raw string) (string, error) {
	name, err := domain.NormalizeDisplayName(raw)
	if err != nil {
		return "", err
	}
	existing, err := s.store.GetUserByDisplayName(ctx, name)
	switch {
	case err == nil && existing.Email != email:
		return "", apperrors.WithMetadata(apperrors.CodeUserDisplayNameTaken, "display name taken", map[string]string{"Name": name})
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("check display name: %w", err)
	}
	err = s.store.UpdateDisplayName(ctx, email, name)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", apperrors.WithMetadata(apperrors.CodeUserDisplayNameTaken, "display name taken", map[string]string{"Name": name})
	}
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperrors.Wrap(apperrors.CodeUserNotAuthenticated, "user not found", err)
	}
	if err != nil {
		return "", fmt.Errorf("update display name: %w", err)
	}
	return name, nil
}

func randomDisplayName() (string, error) {
	var raw [3]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate display name: %w", err)
	}
	return displayNamePrefix + hex.EncodeToString(raw[:]), nil
}
