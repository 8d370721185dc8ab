package mcp

import (
	"time"

	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/domain/lookup"
)

type UpsertLookupParams struct {
	Type  string `json:"type" jsonschema:"lookup kind such as user, account_type, lead_status or opportunity_stage"`
	ID    string `json:"id,omitempty" jsonschema:"lookup id as referenced by entity fields; generated when omitted"`
	Name  string `json:"name" jsonschema:"display label"`
	Color string `json:"color,omitempty" jsonschema:"hex color such as #10b981"`
}

type ListLookupsParams struct {
	Type string `json:"type" jsonschema:"lookup kind"`
}

type EntityCreatedParams struct {
	EntityType string         `json:"entity_type" jsonschema:"account, lead, opportunity, quote, sales_order, invoice or purchase_order"`
	EntityID   string         `json:"entity_id"`
	CreatedBy  string         `json:"created_by,omitempty" jsonschema:"user id of the creator"`
	Fields     map[string]any `json:"fields,omitempty" jsonschema:"full field snapshot of the new entity"`
}

type EntityUpdatedParams struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	CreatedBy  string         `json:"created_by,omitempty" jsonschema:"user id of the creator"`
	Before     map[string]any `json:"before,omitempty" jsonschema:"field snapshot before the save"`
	After      map[string]any `json:"after,omitempty" jsonschema:"field snapshot after the save"`
}

type SubmitCommentParams struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	CreatedBy  string `json:"created_by,omitempty" jsonschema:"user id of the entity creator"`
	Text       string `json:"text" jsonschema:"comment body"`
}

type ListActivityParams struct {
	EntityType   string `json:"entity_type"`
	EntityID     string `json:"entity_id"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"created, updated, assigned, comment or converted"`
	OldestFirst  bool   `json:"oldest_first,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

type DeleteEntityActivityParams struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

type LookupView struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type LookupResult struct {
	Lookup LookupView `json:"lookup"`
}

type LookupListResult struct {
	Lookups []LookupView `json:"lookups"`
}

type ActivityView struct {
	ID           int64          `json:"id"`
	EntityType   string         `json:"entity_type"`
	EntityID     string         `json:"entity_id"`
	UserID       string         `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	FieldChanged *string        `json:"field_changed"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
	CreatedBy    string         `json:"created_by,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

type ActivityListResult struct {
	Activities []ActivityView `json:"activities"`
}

type CommentResult struct {
	Activity ActivityView `json:"activity"`
}

type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}

func lookupView(l lookup.Lookup) LookupView {
	v := LookupView{Type: l.Type, ID: l.ID, Name: l.Name, Color: l.Color}
	if !l.UpdatedAt.IsZero() {
		v.UpdatedAt = l.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return v
}

func activityView(r *activity.Record) ActivityView {
	return ActivityView{
		ID:           r.ID,
		EntityType:   r.EntityType,
		EntityID:     r.EntityID,
		UserID:       r.UserID,
		ActivityType: string(r.ActivityType),
		Title:        r.Title,
		Description:  r.Description,
		FieldChanged: r.FieldChanged,
		OldValues:    r.OldValues,
		NewValues:    r.NewValues,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func activityViews(records []*activity.Record) []ActivityView {
	views := make([]ActivityView, 0, len(records))
	for _, r := range records {
		views = append(views, activityView(r))
	}
	return views
}
