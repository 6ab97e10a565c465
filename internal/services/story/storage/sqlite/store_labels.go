package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/talevortex/internal/platform/id"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
	"github.com/louisbranch/talevortex/internal/services/story/storage"
)

// labelBatchSize bounds the number of bound parameters per label lookup.
const labelBatchSize = 500

// GetOrCreateLabel returns the label named name, creating it when missing.
func (s *Store) GetOrCreateLabel(ctx context.Context, name string) (domain.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Label{}, fmt.Errorf("label name is required")
	}
	labelID, err := id.NewID()
	if err != nil {
		return domain.Label{}, fmt.Errorf("new label id: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO labels (id, name, name_key) VALUES (?, ?, ?) ON CONFLICT(name_key) DO NOTHING`,
		labelID, name, domain.NameKey(name),
	); err != nil {
		return domain.Label{}, fmt.Errorf("create label: %w", err)
	}
	var label domain.Label
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, name FROM labels WHERE name_key = ?`, domain.NameKey(name),
	).Scan(&label.ID, &label.Name); err != nil {
		return domain.Label{}, fmt.Errorf("load label: %w", notFound(err))
	}
	return label, nil
}

// ListLabels lists every label ordered by name.
func (s *Store) ListLabels(ctx context.Context) ([]domain.Label, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, name FROM labels ORDER BY name_key, name`)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var label domain.Label
		if err := rows.Scan(&label.ID, &label.Name); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return labels, nil
}

// AssignLabels associates every label with every unit that still exists and
// returns how many units were labelled. Existing pairs are kept; unknown unit
// ids are skipped.
func (s *Store) AssignLabels(ctx context.Context, labelIDs []string, unitIDs []string) (int, error) {
	if len(labelIDs) == 0 || len(unitIDs) == 0 {
		return 0, nil
	}
	var labelled int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := existingUnitIDs(ctx, tx, unitIDs)
		if err != nil {
			return err
		}
		for _, unitID := range existing {
			for _, labelID := range labelIDs {
				if err := insertUnitLabel(ctx, tx, unitID, labelID); err != nil {
					return err
				}
			}
		}
		labelled = len(existing)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return labelled, nil
}

// existingUnitIDs filters unitIDs down to units present in the store,
// keeping their order.
func existingUnitIDs(ctx context.Context, tx *sql.Tx, unitIDs []string) ([]string, error) {
	found := make(map[string]bool, len(unitIDs))
	for start := 0; start < len(unitIDs); start += labelBatchSize {
		batch := unitIDs[start:min(start+labelBatchSize, len(unitIDs))]
		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM units WHERE id IN (`+placeholders(len(batch))+`)`,
			stringArgs(batch)...,
		)
		if err != nil {
			return nil, fmt.Errorf("resolve units: %w", err)
		}
		for rows.Next() {
			var unitID string
			if err := rows.Scan(&unitID); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan unit id: %w", err)
			}
			found[unitID] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("resolve units: %w", err)
		}
	}
	existing := make([]string, 0, len(found))
	for _, unitID := range unitIDs {
		if found[unitID] {
			existing = append(existing, unitID)
			delete(found, unitID)
		}
	}
	return existing, nil
}

// SearchUnits runs the unit browser query across all stories. Label filters
// are applied in SQL; the free-text query is matched against unit name, type
// and decoded field values so field names never produce hits.
func (s *Store) SearchUnits(ctx context.Context, filter storage.UnitFilter) ([]domain.Unit, error) {
	var clauses []string
	var args []any
	if include := domain.DedupeNames(filter.IncludeLabelIDs); len(include) > 0 {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM unit_labels ul WHERE ul.unit_id = u.id AND ul.label_id IN (`+placeholders(len(include))+`))`)
		args = append(args, stringArgs(include)...)
	}
	if exclude := domain.DedupeNames(filter.ExcludeLabelIDs); len(exclude) > 0 {
		clauses = append(clauses, `NOT EXISTS (SELECT 1 FROM unit_labels ul WHERE ul.unit_id = u.id AND ul.label_id IN (`+placeholders(len(exclude))+`))`)
		args = append(args, stringArgs(exclude)...)
	}
	query := `SELECT ` + unitColumns + ` FROM units u`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY u.created_at, u.rowid`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search units: %w", err)
	}
	units, err := collectUnits(rows)
	if err != nil {
		return nil, err
	}

	if needle := strings.ToLower(strings.TrimSpace(filter.Query)); needle != "" {
		matched := units[:0]
		for _, unit := range units {
			if unitMatches(unit, needle) {
				matched = append(matched, unit)
			}
		}
		units = matched
	}
	if err := s.attachLabels(ctx, units); err != nil {
		return nil, err
	}
	return units, nil
}

func unitMatches(unit domain.Unit, needle string) bool {
	if strings.Contains(strings.ToLower(unit.Name), needle) ||
		strings.Contains(strings.ToLower(string(unit.Type)), needle) {
		return true
	}
	for _, value := range unit.Fields {
		if strings.Contains(strings.ToLower(value.Text), needle) {
			return true
		}
		for _, item := range value.List {
			if strings.Contains(strings.ToLower(item), needle) {
				return true
			}
		}
	}
	return false
}

func insertUnitLabel(ctx context.Context, tx *sql.Tx, unitID, labelID string) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO unit_labels (unit_id, label_id) VALUES (?, ?)`,
		unitID, labelID,
	); err != nil {
		return fmt.Errorf("assign label %s to unit %s: %w", labelID, unitID, err)
	}
	return nil
}

// attachLabels fills Labels on each unit in place.
func (s *Store) attachLabels(ctx context.Context, units []domain.Unit) error {
	if len(units) == 0 {
		return nil
	}
	index := make(map[string][]domain.Label, len(units))
	for start := 0; start < len(units); start += labelBatchSize {
		end := min(start+labelBatchSize, len(units))
		ids := make([]string, 0, end-start)
		for _, unit := range units[start:end] {
			ids = append(ids, unit.ID)
		}
		rows, err := s.sqlDB.QueryContext(ctx, `
SELECT ul.unit_id, l.id, l.name
FROM unit_labels ul
JOIN labels l ON l.id = ul.label_id
WHERE ul.unit_id IN (`+placeholders(len(ids))+`)
ORDER BY l.name`, stringArgs(ids)...)
		if err != nil {
			return fmt.Errorf("load unit labels: %w", err)
		}
		for rows.Next() {
			var unitID string
			var label domain.Label
			if err := rows.Scan(&unitID, &label.ID, &label.Name); err != nil {
				rows.Close()
				return fmt.Errorf("scan unit label: %w", err)
			}
			index[unitID] = append(index[unitID], label)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("load unit labels: %w", err)
		}
	}
	for i := range units {
		units[i].Labels = index[units[i].ID]
	}
	return nil
}
