package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

const storyColumns = `id, owner_email, name, setting, challenge, undefined_names, created_at`

// CreateStory inserts a story. Names are unique per owner, ignoring case.
func (s *Store) CreateStory(ctx context.Context, story domain.Story) error {
	if strings.TrimSpace(story.ID) == "" {
		return fmt.Errorf("story id is required")
	}
	undefined, err := encodeNames(story.UndefinedNames)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO stories (`+storyColumns+`, name_key)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		story.ID, story.OwnerEmail, story.Name, story.Setting, story.Challenge, undefined, toMillis(story.CreatedAt),
		domain.NameKey(story.Name),
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create story: %w", err)
	}
	return nil
}

// GetStory loads a story by id.
func (s *Store) GetStory(ctx context.Context, storyID string) (domain.Story, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, storyID)
	story, err := scanStory(row)
	if err != nil {
		return domain.Story{}, notFound(err)
	}
	return story, nil
}

// ListStoriesByOwner lists an owner's stories in creation order.
func (s *Store) ListStoriesByOwner(ctx context.Context, ownerEmail string) ([]domain.Story, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE owner_email = ? ORDER BY created_at, rowid`,
		ownerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var stories []domain.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// UpdateStoryUndefinedNames replaces the story's undefined-name list.
func (s *Store) UpdateStoryUndefinedNames(ctx context.Context, storyID string, names []string) error {
	encoded, err := encodeNames(names)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `UPDATE stories SET undefined_names = ? WHERE id = ?`, encoded, storyID)
	if err != nil {
		return fmt.Errorf("update undefined names: %w", err)
	}
	return requireAffected(result)
}

// DeleteStory removes a story, its units and their label associations.
func (s *Store) DeleteStory(ctx context.Context, storyID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM unit_labels WHERE unit_id IN (SELECT id FROM units WHERE story_id = ?)`, storyID,
		); err != nil {
			return fmt.Errorf("delete story unit labels: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM units WHERE story_id = ?`, storyID); err != nil {
			return fmt.Errorf("delete story units: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, storyID)
		if err != nil {
			return fmt.Errorf("delete story: %w", err)
		}
		return requireAffected(result)
	})
}

func scanStory(row rowScanner) (domain.Story, error) {
	var story domain.Story
	var undefined string
	var createdAt int64
	if err := row.Scan(&story.ID, &story.OwnerEmail, &story.Name, &story.Setting, &story.Challenge, &undefined, &createdAt); err != nil {
		return domain.Story{}, err
	}
	if err := json.Unmarshal([]byte(undefined), &story.UndefinedNames); err != nil {
		return domain.Story{}, fmt.Errorf("decode undefined names: %w", err)
	}
	story.CreatedAt = fromMillis(createdAt)
	return story, nil
}

func encodeNames(names []string) (string, error) {
	names = domain.DedupeNames(names)
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encode names: %w", err)
	}
	return string(data), nil
}
