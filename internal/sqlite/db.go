package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rpggio/crmtrail/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to an in-memory database sees its own empty schema.
	if dataSourceName == ":memory:" || strings.Contains(dataSourceName, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the embedded schema. It is safe to run repeatedly.
func (db *DB) RunMigrations() error {
	data, err := migrations.FS.ReadFile(migrations.Initial)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	if _, err := db.Exec(string(data)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// ResolveTenant maps a bearer token to its tenant through the api_keys table.
func (db *DB) ResolveTenant(ctx context.Context, token string) (string, error) {
	var tenantID string
	err := db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, HashToken(token)).Scan(&tenantID)
	if err != nil || tenantID == "" {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	if _, err := db.ExecContext(ctx, `UPDATE api_keys SET last_used = CURRENT_TIMESTAMP WHERE key_hash = ?`, HashToken(token)); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return tenantID, nil
}

// AddAPIKey registers a bearer token for a tenant.
func (db *DB) AddAPIKey(ctx context.Context, token, tenantID, description string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, description) VALUES (?, ?, ?)`,
		HashToken(token), tenantID, description)
	if err != nil {
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
