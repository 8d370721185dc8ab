package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
)

// LookupService defines reference data operations needed by MCP.
type LookupService interface {
	Upsert(ctx context.Context, tenantID string, req lookup.UpsertRequest) (*lookup.Lookup, error)
	List(ctx context.Context, tenantID, lookupType string) ([]lookup.Lookup, error)
}

// ActivityService defines activity feed operations needed by MCP.
type ActivityService interface {
	Stream(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.Record, error)
	DeleteByEntity(ctx context.Context, tenantID, entityType, entityID string) (int64, error)
}

// Recorder defines the lifecycle entry points needed by MCP.
type Recorder interface {
	OnCreated(ctx context.Context, tenantID string, entity recorder.Entity, actor recorder.Actor) ([]*activity.Record, error)
	OnUpdated(ctx context.Context, tenantID string, entity recorder.Entity, before, after recorder.Snapshot, actor recorder.Actor) ([]*activity.Record, error)
	OnCommentSubmitted(ctx context.Context, tenantID string, entity recorder.Entity, text string, actor recorder.Actor) (*activity.Record, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Lookups  LookupService
	Activity ActivityService
	Recorder Recorder
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "crmtrail",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode is local only and never authenticates.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultTenant))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(actorMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
