package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/repository"
)

// LookupRepository implements lookup.Repository for SQLite
type LookupRepository struct {
	db *DB
}

// NewLookupRepository creates a new LookupRepository
func NewLookupRepository(db *DB) *LookupRepository {
	return &LookupRepository{db: db}
}

// Upsert creates a lookup or replaces its name and color
func (r *LookupRepository) Upsert(ctx context.Context, tenantID string, l *lookup.Lookup) error {
	updatedAt := l.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := `
		INSERT INTO lookups (tenant_id, lookup_type, id, name, color, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, lookup_type, id)
		DO UPDATE SET name = excluded.name, color = excluded.color, updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		tenantID,
		l.Type,
		l.ID,
		l.Name,
		l.Color,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lookup: %w", err)
	}

	l.TenantID = tenantID
	l.UpdatedAt = updatedAt
	return nil
}

// Get retrieves a lookup by type and ID
func (r *LookupRepository) Get(ctx context.Context, tenantID, lookupType, id string) (*lookup.Lookup, error) {
	query := `
		SELECT tenant_id, lookup_type, id, name, color, updated_at
		FROM lookups
		WHERE tenant_id = ? AND lookup_type = ? AND id = ?
	`

	var l lookup.Lookup
	err := r.db.QueryRowContext(ctx, query, tenantID, lookupType, id).Scan(
		&l.TenantID,
		&l.Type,
		&l.ID,
		&l.Name,
		&l.Color,
		&l.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup: %w", err)
	}

	return &l, nil
}

// List returns all lookups of one type ordered by name
func (r *LookupRepository) List(ctx context.Context, tenantID, lookupType string) ([]lookup.Lookup, error) {
	query := `
		SELECT tenant_id, lookup_type, id, name, color, updated_at
		FROM lookups
		WHERE tenant_id = ? AND lookup_type = ?
		ORDER BY name ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, lookupType)
	if err != nil {
		return nil, fmt.Errorf("failed to list lookups: %w", err)
	}
	defer rows.Close()

	var lookups []lookup.Lookup
	for rows.Next() {
		var l lookup.Lookup
		if err := rows.Scan(&l.TenantID, &l.Type, &l.ID, &l.Name, &l.Color, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		lookups = append(lookups, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lookup rows: %w", err)
	}

	return lookups, nil
}
