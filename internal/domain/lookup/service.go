package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
	"github.com/rpggio/crmtrail/internal/repository"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Service handles lookup operations and resolves references for the recorder.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new lookup service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// UpsertRequest defines lookup write inputs.
type UpsertRequest struct {
	Type  string
	ID    string
	Name  string
	Color string
}

// Upsert creates or replaces a lookup record.
func (s *Service) Upsert(ctx context.Context, tenantID string, req UpsertRequest) (*Lookup, error) {
	lookupType := strings.TrimSpace(req.Type)
	name := strings.TrimSpace(req.Name)
	if lookupType == "" || name == "" {
		return nil, ErrInvalidInput
	}
	if !recorder.LookupType(lookupType).Valid() {
		return nil, fmt.Errorf("%w: unknown lookup type %q", ErrInvalidInput, lookupType)
	}
	color := strings.TrimSpace(req.Color)
	if color != "" && !hexColor.MatchString(color) {
		return nil, fmt.Errorf("%w: color must be a hex value", ErrInvalidInput)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	l := &Lookup{
		TenantID:  tenantID,
		Type:      lookupType,
		ID:        id,
		Name:      name,
		Color:     color,
		UpdatedAt: time.Now(),
	}
	if err := s.repo.Upsert(ctx, tenantID, l); err != nil {
		return nil, fmt.Errorf("upserting lookup: %w", err)
	}
	return l, nil
}

// Get fetches a lookup by type and id.
func (s *Service) Get(ctx context.Context, tenantID, lookupType, id string) (*Lookup, error) {
	l, err := s.repo.Get(ctx, tenantID, lookupType, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLookupNotFound
		}
		return nil, fmt.Errorf("getting lookup: %w", err)
	}
	return l, nil
}

// List returns all lookups of a type.
func (s *Service) List(ctx context.Context, tenantID, lookupType string) ([]Lookup, error) {
	return s.repo.List(ctx, tenantID, lookupType)
}

// Resolve returns the current label and color of a referenced record.
// Missing ids, missing records and storage failures all resolve to false.
func (s *Service) Resolve(ctx context.Context, tenantID string, lookupType recorder.LookupType, id any) (recorder.Reference, bool) {
	key, ok := recorder.ReferenceKey(id)
	if !ok {
		return recorder.Reference{}, false
	}
	l, err := s.repo.Get(ctx, tenantID, string(lookupType), key)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("reference unresolved", "tenant_id", tenantID, "lookup_type", lookupType, "id", key, "error", err)
		}
		return recorder.Reference{}, false
	}
	return recorder.Reference{Label: l.Name, Color: l.Color}, true
}
