package lookup

import "context"

// Repository provides persistence for lookup records.
type Repository interface {
	Upsert(ctx context.Context, tenantID string, l *Lookup) error
	Get(ctx context.Context, tenantID, lookupType, id string) (*Lookup, error)
	List(ctx context.Context, tenantID, lookupType string) ([]Lookup, error)
}
