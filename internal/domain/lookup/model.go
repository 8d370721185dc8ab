package lookup

import "time"

// Lookup is a reference record addressed by id from tracked entities:
// users, statuses, types, industries, sources and the like.
type Lookup struct {
	TenantID  string    `json:"tenant_id"`
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
