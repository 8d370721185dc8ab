package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts activity records in a single transaction
func (r *ActivityRepository) Append(ctx context.Context, tenantID string, records ...*activity.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO activities (
			tenant_id, entity_type, entity_id, user_id, activity_type,
			title, description, field_changed, old_values, new_values,
			created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	ids := make([]int64, len(records))
	for i, rec := range records {
		if rec == nil {
			return repository.ErrInvalidInput
		}
		createdAt := rec.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		oldValues, err := encodeValues(rec.OldValues)
		if err != nil {
			return fmt.Errorf("failed to encode old values: %w", err)
		}
		newValues, err := encodeValues(rec.NewValues)
		if err != nil {
			return fmt.Errorf("failed to encode new values: %w", err)
		}

		result, err := tx.ExecContext(ctx, query,
			tenantID,
			rec.EntityType,
			rec.EntityID,
			rec.UserID,
			rec.ActivityType,
			rec.Title,
			rec.Description,
			rec.FieldChanged,
			oldValues,
			newValues,
			rec.CreatedBy,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}
		if ids[i], err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read activity id: %w", err)
		}
		rec.CreatedAt = createdAt
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for i, rec := range records {
		rec.ID = ids[i]
		rec.TenantID = tenantID
	}
	return nil
}

// List returns activity records matching the given filters in insertion
// order, newest first unless OldestFirst is set
func (r *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.Record, error) {
	query := `
		SELECT
			id, tenant_id, entity_type, entity_id, user_id, activity_type,
			title, description, field_changed, old_values, new_values,
			created_by, created_at
		FROM activities
		WHERE tenant_id = ?
	`

	args := []interface{}{tenantID}
	conditions := []string{}

	if opts.EntityType != "" {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, opts.EntityType)
	}
	if opts.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, opts.EntityID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	if opts.OldestFirst {
		query += " ORDER BY id ASC"
	} else {
		query += " ORDER BY id DESC"
	}

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []activity.Record
	for rows.Next() {
		var rec activity.Record
		var fieldChanged sql.NullString
		var oldValues, newValues sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.TenantID,
			&rec.EntityType,
			&rec.EntityID,
			&rec.UserID,
			&rec.ActivityType,
			&rec.Title,
			&rec.Description,
			&fieldChanged,
			&oldValues,
			&newValues,
			&rec.CreatedBy,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity record: %w", err)
		}
		if fieldChanged.Valid {
			rec.FieldChanged = &fieldChanged.String
		}
		if rec.OldValues, err = decodeValues(oldValues); err != nil {
			return nil, fmt.Errorf("failed to decode old values: %w", err)
		}
		if rec.NewValues, err = decodeValues(newValues); err != nil {
			return nil, fmt.Errorf("failed to decode new values: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return records, nil
}

// Delete removes one activity record
func (r *ActivityRepository) Delete(ctx context.Context, tenantID string, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByEntity removes all activity records of one entity
func (r *ActivityRepository) DeleteByEntity(ctx context.Context, tenantID, entityType, entityID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM activities WHERE tenant_id = ? AND entity_type = ? AND entity_id = ?`,
		tenantID, entityType, entityID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entity activity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

func encodeValues(values activity.Values) (sql.NullString, error) {
	if values == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeValues(raw sql.NullString) (activity.Values, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var values activity.Values
	if err := json.Unmarshal([]byte(raw.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}
