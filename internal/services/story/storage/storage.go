// Package storage defines persistence contracts for stories, units, labels and
// users.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a unique name is already taken in its scope.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore persists user accounts.
type UserStore interface {
	PutUser(ctx context.Context, user domain.User) error
	GetUser(ctx context.Context, email string) (domain.User, error)
	GetUserByDisplayName(ctx context.Context, displayName string) (domain.User, error)
	UpdateDisplayName(ctx context.Context, email string, displayName string) error
}

// StoryStore persists stories.
type StoryStore interface {
	CreateStory(ctx context.Context, story domain.Story) error
	GetStory(ctx context.Context, storyID string) (domain.Story, error)
	ListStoriesByOwner(ctx context.Context, ownerEmail string) ([]domain.Story, error)
	UpdateStoryUndefinedNames(ctx context.Context, storyID string, names []string) error
	// DeleteStory removes the story together with its units and their label
	// associations.
	DeleteStory(ctx context.Context, storyID string) error
}

// UnitStore persists units.
type UnitStore interface {
	// CreateUnit inserts the unit and associates the given labels in one
	// transaction.
	CreateUnit(ctx context.Context, unit domain.Unit, labelIDs []string) error
	GetUnit(ctx context.Context, unitID string) (domain.Unit, error)
	GetUnitByName(ctx context.Context, storyID string, name string) (domain.Unit, error)
	ListUnitsByStory(ctx context.Context, storyID string) ([]domain.Unit, error)
	UpdateUnit(ctx context.Context, unit domain.Unit) error
	DeleteUnit(ctx context.Context, unitID string) error
}

// LabelStore persists labels and their unit associations.
type LabelStore interface {
	GetOrCreateLabel(ctx context.Context, name string) (domain.Label, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	// AssignLabels skips unit ids that no longer exist and reports how many
	// units received the labels.
	AssignLabels(ctx context.Context, labelIDs []string, unitIDs []string) (int, error)
}

// UnitFilter narrows the unit browser.
type UnitFilter struct {
	// IncludeLabelIDs keeps units carrying at least one of these labels.
	IncludeLabelIDs []string
	// ExcludeLabelIDs drops units carrying any of these labels.
	ExcludeLabelIDs []string
	// Query is a case-insensitive substring matched against unit name, type
	// and field values.
	Query string
}

// UnitBrowser answers the filtered unit query.
type UnitBrowser interface {
	SearchUnits(ctx context.Context, filter UnitFilter) ([]domain.Unit, error)
}

// Store is the full persistence surface used by the story service.
type Store interface {
	UserStore
	StoryStore
	UnitStore
	LabelStore
	UnitBrowser
}
