package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
)

// registerTools adds the activity feed tools to server.
func registerTools(server *sdkmcp.Server, svc Services) {
	// Reference data
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "upsert_lookup",
		Description: "Create or replace a reference record (user, status, stage, type, ...) that entity fields point at by id",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpsertLookupParams) (*sdkmcp.CallToolResult, LookupResult, error) {
		l, err := svc.Lookups.Upsert(ctx, getTenantID(ctx), lookup.UpsertRequest{
			Type:  in.Type,
			ID:    in.ID,
			Name:  in.Name,
			Color: in.Color,
		})
		if err != nil {
			return nil, LookupResult{}, toolError(err)
		}
		return nil, LookupResult{Lookup: lookupView(*l)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_lookups",
		Description: "List reference records of one lookup kind",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListLookupsParams) (*sdkmcp.CallToolResult, LookupListResult, error) {
		list, err := svc.Lookups.List(ctx, getTenantID(ctx), in.Type)
		if err != nil {
			return nil, LookupListResult{}, toolError(err)
		}
		views := make([]LookupView, 0, len(list))
		for _, l := range list {
			views = append(views, lookupView(l))
		}
		return nil, LookupListResult{Lookups: views}, nil
	})

	// Lifecycle events
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "notify_entity_created",
		Description: "Record the creation of a business entity and its initial assignment",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntityCreatedParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
		actor, _ := recorder.ActorFromContext(ctx)
		records, err := svc.Recorder.OnCreated(ctx, getTenantID(ctx), recorder.Entity{
			Type:      in.EntityType,
			ID:        in.EntityID,
			CreatedBy: in.CreatedBy,
			Fields:    recorder.Snapshot(in.Fields),
		}, actor)
		if err != nil {
			return nil, ActivityListResult{}, toolError(err)
		}
		return nil, ActivityListResult{Activities: activityViews(records)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "notify_entity_updated",
		Description: "Record one activity per changed field between the before and after snapshots of a save",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in EntityUpdatedParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
		actor, _ := recorder.ActorFromContext(ctx)
		records, err := svc.Recorder.OnUpdated(ctx, getTenantID(ctx), recorder.Entity{
			Type:      in.EntityType,
			ID:        in.EntityID,
			CreatedBy: in.CreatedBy,
			Fields:    recorder.Snapshot(in.After),
		}, recorder.Snapshot(in.Before), recorder.Snapshot(in.After), actor)
		if err != nil {
			return nil, ActivityListResult{}, toolError(err)
		}
		return nil, ActivityListResult{Activities: activityViews(records)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_comment",
		Description: "Add a comment to an entity's activity stream",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitCommentParams) (*sdkmcp.CallToolResult, CommentResult, error) {
		actor, _ := recorder.ActorFromContext(ctx)
		rec, err := svc.Recorder.OnCommentSubmitted(ctx, getTenantID(ctx), recorder.Entity{
			Type:      in.EntityType,
			ID:        in.EntityID,
			CreatedBy: in.CreatedBy,
		}, in.Text, actor)
		if err != nil {
			return nil, CommentResult{}, toolError(err)
		}
		return nil, CommentResult{Activity: activityView(rec)}, nil
	})

	// Feed
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity",
		Description: "List the activity stream of one entity, newest first unless oldest_first is set",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivityParams) (*sdkmcp.CallToolResult, ActivityListResult, error) {
		opts := activity.ListActivityOptions{
			EntityType:  strings.ToLower(strings.TrimSpace(in.EntityType)),
			EntityID:    in.EntityID,
			OldestFirst: in.OldestFirst,
			Limit:       in.Limit,
			Offset:      in.Offset,
		}
		if in.ActivityType != "" {
			t := activity.ActivityType(in.ActivityType)
			opts.ActivityType = &t
		}
		records, err := svc.Activity.Stream(ctx, getTenantID(ctx), opts)
		if err != nil {
			return nil, ActivityListResult{}, toolError(err)
		}
		views := make([]ActivityView, 0, len(records))
		for i := range records {
			views = append(views, activityView(&records[i]))
		}
		return nil, ActivityListResult{Activities: views}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_entity_activity",
		Description: "Remove the activity stream of a deleted entity",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteEntityActivityParams) (*sdkmcp.CallToolResult, DeleteResult, error) {
		n, err := svc.Activity.DeleteByEntity(ctx, getTenantID(ctx), strings.ToLower(strings.TrimSpace(in.EntityType)), in.EntityID)
		if err != nil {
			return nil, DeleteResult{}, toolError(err)
		}
		return nil, DeleteResult{Deleted: n}, nil
	})
}
