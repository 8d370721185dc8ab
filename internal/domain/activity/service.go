package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/crmtrail/internal/repository"
)

// Service handles activity stream operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Append validates and stores records, stamping a shared creation time
// on any that lack one.
func (s *Service) Append(ctx context.Context, tenantID string, records ...*Record) error {
	if len(records) == 0 {
		return nil
	}
	now := s.now()
	for _, rec := range records {
		if rec == nil || rec.EntityID == "" || rec.EntityType == "" || rec.UserID == "" || rec.ActivityType == "" {
			return ErrInvalidInput
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
	}
	if err := s.repo.Append(ctx, tenantID, records...); err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("activity appended", "tenant_id", tenantID, "entity_type", records[0].EntityType, "entity_id", records[0].EntityID, "count", len(records))
	}
	return nil
}

// Stream lists the activity timeline of one entity.
func (s *Service) Stream(ctx context.Context, tenantID string, opts ListActivityOptions) ([]Record, error) {
	if strings.TrimSpace(opts.EntityType) == "" || strings.TrimSpace(opts.EntityID) == "" {
		return nil, ErrInvalidInput
	}
	return s.List(ctx, tenantID, opts)
}

// List lists activity records with filtering.
func (s *Service) List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]Record, error) {
	records, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return records, nil
}

// Delete removes a single activity record.
func (s *Service) Delete(ctx context.Context, tenantID string, id int64) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

// DeleteByEntity removes every activity record of an entity and returns
// how many were removed.
func (s *Service) DeleteByEntity(ctx context.Context, tenantID, entityType, entityID string) (int64, error) {
	if entityType == "" || entityID == "" {
		return 0, ErrInvalidInput
	}
	n, err := s.repo.DeleteByEntity(ctx, tenantID, entityType, entityID)
	if err != nil {
		return 0, fmt.Errorf("deleting entity activity: %w", err)
	}
	return n, nil
}
