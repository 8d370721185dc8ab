package activity

import "context"

// Repository provides append-only persistence for activity records.
// Append stores all given records atomically.
type Repository interface {
	Append(ctx context.Context, tenantID string, records ...*Record) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]Record, error)
	Delete(ctx context.Context, tenantID string, id int64) error
	DeleteByEntity(ctx context.Context, tenantID, entityType, entityID string) (int64, error)
}
