package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
	"github.com/louisbranch/talevortex/internal/services/story/unitschema"
)

const unitColumns = `u.id, u.story_id, u.unit_type, u.name, u.fields, u.created_at`

// CreateUnit inserts a unit and associates labelIDs in one transaction.
func (s *Store) CreateUnit(ctx context.Context, unit domain.Unit, labelIDs []string) error {
	if strings.TrimSpace(unit.ID) == "" {
		return fmt.Errorf("unit id is required")
	}
	fields, err := domain.EncodeFields(unit.Fields)
	if err != nil {
		return fmt.Errorf("encode unit fields: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO units (id, story_id, unit_type, name, name_key, fields, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			unit.ID, unit.StoryID, string(unit.Type), unit.Name, domain.NameKey(unit.Name), string(fields), toMillis(unit.CreatedAt),
		)
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("create unit: %w", err)
		}
		for _, labelID := range labelIDs {
			if err := insertUnitLabel(ctx, tx, unit.ID, labelID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUnit loads a unit and its labels by id.
func (s *Store) GetUnit(ctx context.Context, unitID string) (domain.Unit, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units u WHERE u.id = ?`, unitID)
	return s.loadSingleUnit(ctx, row)
}

// GetUnitByName loads a unit by case-insensitive name within a story.
func (s *Store) GetUnitByName(ctx context.Context, storyID string, name string) (domain.Unit, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM units u WHERE u.story_id = ? AND u.name_key = ?`,
		storyID, domain.NameKey(name),
	)
	return s.loadSingleUnit(ctx, row)
}

// ListUnitsByStory lists a story's units in creation order.
func (s *Store) ListUnitsByStory(ctx context.Context, storyID string) ([]domain.Unit, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+unitColumns+` FROM units u WHERE u.story_id = ? ORDER BY u.created_at, u.rowid`,
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	units, err := collectUnits(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachLabels(ctx, units); err != nil {
		return nil, err
	}
	return units, nil
}

// UpdateUnit replaces a unit's name and fields.
func (s *Store) UpdateUnit(ctx context.Context, unit domain.Unit) error {
	fields, err := domain.EncodeFields(unit.Fields)
	if err != nil {
		return fmt.Errorf("encode unit fields: %w", err)
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE units SET name = ?, name_key = ?, fields = ? WHERE id = ?`,
		unit.Name, domain.NameKey(unit.Name), string(fields), unit.ID,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return requireAffected(result)
}

// DeleteUnit removes a unit and its label associations. Other units that
// reference it by name are left untouched.
func (s *Store) DeleteUnit(ctx context.Context, unitID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM unit_labels WHERE unit_id = ?`, unitID); err != nil {
			return fmt.Errorf("delete unit labels: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, unitID)
		if err != nil {
			return fmt.Errorf("delete unit: %w", err)
		}
		return requireAffected(result)
	})
}

func (s *Store) loadSingleUnit(ctx context.Context, row *sql.Row) (domain.Unit, error) {
	unit, err := scanUnit(row)
	if err != nil {
		return domain.Unit{}, notFound(err)
	}
	units := []domain.Unit{unit}
	if err := s.attachLabels(ctx, units); err != nil {
		return domain.Unit{}, err
	}
	return units[0], nil
}

func collectUnits(rows *sql.Rows) ([]domain.Unit, error) {
	defer rows.Close()
	var units []domain.Unit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return units, nil
}

func scanUnit(row rowScanner) (domain.Unit, error) {
	var unit domain.Unit
	var unitType string
	var fields string
	var createdAt int64
	if err := row.Scan(&unit.ID, &unit.StoryID, &unitType, &unit.Name, &fields, &createdAt); err != nil {
		return domain.Unit{}, err
	}
	unit.Type = unitschema.Type(unitType)
	decoded, err := domain.DecodeFields(unit.Type, []byte(fields))
	if err != nil {
		return domain.Unit{}, fmt.Errorf("decode unit %s: %w", unit.ID, err)
	}
	unit.Fields = decoded
	unit.CreatedAt = fromMillis(createdAt)
	return unit, nil
}
