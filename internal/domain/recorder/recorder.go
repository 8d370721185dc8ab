package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/crmtrail/internal/domain/activity"
)

// ActivityAppender persists activity records. All records passed in one
// call are stored atomically.
type ActivityAppender interface {
	Append(ctx context.Context, tenantID string, records ...*activity.Record) error
}

// Entity is the state of a tracked business record as seen by the recorder.
type Entity struct {
	Type      string
	ID        string
	CreatedBy string
	Fields    Snapshot
}

// Recorder turns entity lifecycle events into activity records.
type Recorder struct {
	activities ActivityAppender
	resolver   Resolver
	formatter  *Formatter
	registry   Registry
	guard      Guard
	logger     *slog.Logger
	now        func() time.Time
}

// NewRecorder creates a recorder over the default entity registry. A nil
// guard disables duplicate suppression.
func NewRecorder(activities ActivityAppender, resolver Resolver, guard Guard, opts FormatOptions, logger *slog.Logger) *Recorder {
	return &Recorder{
		activities: activities,
		resolver:   resolver,
		formatter:  NewFormatter(resolver, opts),
		registry:   DefaultRegistry(),
		guard:      guard,
		logger:     logger,
		now:        time.Now,
	}
}

// OnCreated records the creation of an entity and, when it has an
// assignee, its initial assignment.
func (r *Recorder) OnCreated(ctx context.Context, tenantID string, entity Entity, actor Actor) ([]*activity.Record, error) {
	d, err := r.describe(entity)
	if err != nil {
		return nil, err
	}
	userID, err := actingUserID(entity, actor)
	if err != nil {
		return nil, err
	}

	op := CreatedOperation(d.Entity, entity.ID)
	if !r.shouldProcess(op) {
		return nil, nil
	}

	creatorName := r.userName(ctx, tenantID, entity.CreatedBy, "System")
	now := r.now()

	created := &activity.Record{
		EntityType:   d.Entity,
		EntityID:     entity.ID,
		UserID:       userID,
		ActivityType: activity.TypeCreated,
		Title:        fmt.Sprintf("%s created this %s", creatorName, d.Label()),
		Description:  r.createdDescription(ctx, tenantID, d, entity.Fields),
		NewValues:    activity.Values(entity.Fields.Clone()),
		CreatedBy:    entity.CreatedBy,
		CreatedAt:    now,
	}
	records := []*activity.Record{created}

	assignee := entity.Fields["assigned_to"]
	if assigneeID, ok := ReferenceKey(assignee); ok {
		creatorID, _ := ReferenceKey(entity.CreatedBy)
		assignedName := r.userName(ctx, tenantID, assigneeID, "Unassigned")
		title := fmt.Sprintf("%s assigned to %s", creatorName, assignedName)
		if creatorID != "" && creatorID == assigneeID {
			title = fmt.Sprintf("%s self-assigned this %s", creatorName, d.Label())
		}
		field := "assigned_to"
		records = append(records, &activity.Record{
			EntityType:   d.Entity,
			EntityID:     entity.ID,
			UserID:       userID,
			ActivityType: activity.TypeAssigned,
			Title:        title,
			Description:  assignedName,
			FieldChanged: &field,
			NewValues:    activity.Values{"assigned_to": assignee},
			CreatedBy:    entity.CreatedBy,
			CreatedAt:    now,
		})
	}

	if err := r.emit(ctx, tenantID, op, records); err != nil {
		return nil, err
	}
	return records, nil
}

// OnUpdated records one activity per changed, non-excluded field of a
// single save. An update with no such change records nothing.
func (r *Recorder) OnUpdated(ctx context.Context, tenantID string, entity Entity, before, after Snapshot, actor Actor) ([]*activity.Record, error) {
	d, err := r.describe(entity)
	if err != nil {
		return nil, err
	}

	changes := DetectChanges(before, after, d.ExcludedFields)
	if len(changes) == 0 {
		return nil, nil
	}

	userID, err := actingUserID(entity, actor)
	if err != nil {
		return nil, err
	}

	op := UpdatedOperation(d.Entity, entity.ID, changes)
	if !r.shouldProcess(op) {
		return nil, nil
	}

	actorName := r.actorName(ctx, tenantID, entity, actor)
	now := r.now()

	records := make([]*activity.Record, 0, len(changes))
	for _, ch := range changes {
		rendered := r.formatter.Render(ctx, tenantID, d, ch, actorName)
		newValues := activity.Values{ch.Field: ch.New}
		if rule := d.Rule(ch.Field); rule.ColorKey != "" {
			newValues["old_"+rule.ColorKey] = colorValue(rendered.OldColor)
			newValues[rule.ColorKey] = colorValue(rendered.NewColor)
		}
		field := ch.Field
		records = append(records, &activity.Record{
			EntityType:   d.Entity,
			EntityID:     entity.ID,
			UserID:       userID,
			ActivityType: activity.TypeUpdated,
			Title:        rendered.Title,
			Description:  rendered.Description,
			FieldChanged: &field,
			OldValues:    activity.Values{ch.Field: ch.Old},
			NewValues:    newValues,
			CreatedBy:    entity.CreatedBy,
			CreatedAt:    now,
		})
	}

	if err := r.emit(ctx, tenantID, op, records); err != nil {
		return nil, err
	}
	return records, nil
}

// OnCommentSubmitted records a comment in the entity's activity stream.
func (r *Recorder) OnCommentSubmitted(ctx context.Context, tenantID string, entity Entity, text string, actor Actor) (*activity.Record, error) {
	d, err := r.describe(entity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidInput)
	}
	userID, err := actingUserID(entity, actor)
	if err != nil {
		return nil, err
	}

	rec := &activity.Record{
		EntityType:   d.Entity,
		EntityID:     entity.ID,
		UserID:       userID,
		ActivityType: activity.TypeComment,
		Title:        fmt.Sprintf("%s commented", r.actorName(ctx, tenantID, entity, actor)),
		Description:  text,
		CreatedBy:    entity.CreatedBy,
		CreatedAt:    r.now(),
	}
	if err := r.activities.Append(ctx, tenantID, rec); err != nil {
		return nil, fmt.Errorf("recording comment: %w", err)
	}
	return rec, nil
}

func (r *Recorder) describe(entity Entity) (*Descriptor, error) {
	d, err := r.registry.Lookup(entity.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, entity.Type)
	}
	if strings.TrimSpace(entity.ID) == "" {
		return nil, fmt.Errorf("%w: entity id is required", ErrInvalidInput)
	}
	return d, nil
}

func (r *Recorder) shouldProcess(op Operation) bool {
	if r.guard == nil || r.guard.ShouldProcess(op) {
		return true
	}
	if r.logger != nil {
		r.logger.Debug("duplicate lifecycle event suppressed", "key", op.Key)
	}
	return false
}

// emit appends records and marks the operation processed only once the
// write succeeded, so a failed write can be retried.
func (r *Recorder) emit(ctx context.Context, tenantID string, op Operation, records []*activity.Record) error {
	if err := r.activities.Append(ctx, tenantID, records...); err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	if r.guard != nil {
		r.guard.MarkProcessed(op)
	}
	return nil
}

func (r *Recorder) createdDescription(ctx context.Context, tenantID string, d *Descriptor, fields Snapshot) string {
	value := fields[d.StatusField]
	if d.StatusLookup != "" {
		if ref, ok := r.formatter.resolve(ctx, tenantID, d.StatusLookup, value); ok && ref.Label != "" {
			return StatusLabel(ref.Label)
		}
		return d.CreatedDefault
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
		return StatusLabel(s)
	}
	return d.CreatedDefault
}

func (r *Recorder) userName(ctx context.Context, tenantID string, userID any, fallback string) string {
	return r.formatter.label(ctx, tenantID, LookupUser, userID, fallback)
}

func (r *Recorder) actorName(ctx context.Context, tenantID string, entity Entity, actor Actor) string {
	if actor.Name != "" {
		return actor.Name
	}
	if actor.UserID != "" {
		return r.userName(ctx, tenantID, actor.UserID, "System")
	}
	return r.userName(ctx, tenantID, entity.CreatedBy, "System")
}

// actingUserID is the authenticated actor when known, else the entity creator.
func actingUserID(entity Entity, actor Actor) (string, error) {
	if id := strings.TrimSpace(actor.UserID); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(entity.CreatedBy); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: no acting user and no creator", ErrInvalidInput)
}

func colorValue(color string) any {
	if color == "" {
		return nil
	}
	return color
}
