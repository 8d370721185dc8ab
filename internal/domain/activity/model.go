package activity

import "time"

// ActivityType represents the kind of event an activity record captures
type ActivityType string

const (
	TypeCreated   ActivityType = "created"
	TypeUpdated   ActivityType = "updated"
	TypeAssigned  ActivityType = "assigned"
	TypeComment   ActivityType = "comment"
	TypeConverted ActivityType = "converted"
)

// Values maps field names to the values captured by an activity record.
type Values map[string]any

// Record is one immutable row of an entity's activity stream.
type Record struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	EntityType   string       `json:"entity_type"`
	EntityID     string       `json:"entity_id"`
	UserID       string       `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	FieldChanged *string      `json:"field_changed"`
	OldValues    Values       `json:"old_values,omitempty"`
	NewValues    Values       `json:"new_values,omitempty"`
	CreatedBy    string       `json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`
}
