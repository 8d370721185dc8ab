package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/repository"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestActivityRepository_AppendList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	created := &activity.Record{
		EntityType:   "lead",
		EntityID:     "42",
		UserID:       "7",
		ActivityType: activity.TypeCreated,
		Title:        "Jane Doe created this lead",
		Description:  "New",
		NewValues:    activity.Values{"name": "Acme", "assigned_to": 7},
		CreatedBy:    "7",
	}
	assigned := &activity.Record{
		EntityType:   "lead",
		EntityID:     "42",
		UserID:       "7",
		ActivityType: activity.TypeAssigned,
		Title:        "Jane Doe self-assigned this lead",
		FieldChanged: strPtr("assigned_to"),
		NewValues:    activity.Values{"assigned_to": 7},
		CreatedBy:    "7",
	}

	require.NoError(t, repo.Append(ctx, "tenant1", created, assigned))
	require.NotZero(t, created.ID)
	require.Greater(t, assigned.ID, created.ID)
	require.Equal(t, "tenant1", created.TenantID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{EntityType: "lead", EntityID: "42"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeAssigned, entries[0].ActivityType)
	require.Equal(t, activity.TypeCreated, entries[1].ActivityType)

	require.Nil(t, entries[1].FieldChanged)
	require.Nil(t, entries[1].OldValues)
	require.Equal(t, "Acme", entries[1].NewValues["name"])
	require.Equal(t, float64(7), entries[1].NewValues["assigned_to"])
	require.NotNil(t, entries[0].FieldChanged)
	require.Equal(t, "assigned_to", *entries[0].FieldChanged)

	oldest, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{EntityType: "lead", EntityID: "42", OldestFirst: true})
	require.NoError(t, err)
	require.Equal(t, activity.TypeCreated, oldest[0].ActivityType)
}

func TestActivityRepository_FiltersAndTenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for _, entityID := range []string{"1", "2"} {
		require.NoError(t, repo.Append(ctx, "tenant1", &activity.Record{
			EntityType:   "quote",
			EntityID:     entityID,
			UserID:       "u1",
			ActivityType: activity.TypeUpdated,
			Title:        "updated",
			FieldChanged: strPtr("status"),
			OldValues:    activity.Values{"status": "draft"},
			NewValues:    activity.Values{"status": "sent"},
		}))
	}
	require.NoError(t, repo.Append(ctx, "tenant1", &activity.Record{
		EntityType:   "quote",
		EntityID:     "1",
		UserID:       "u1",
		ActivityType: activity.TypeComment,
		Title:        "commented",
		Description:  "Looks good",
	}))

	commentType := activity.TypeComment
	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{
		EntityType:   "quote",
		EntityID:     "1",
		ActivityType: &commentType,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Looks good", entries[0].Description)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{EntityType: "quote", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, "tenant2", activity.ListActivityOptions{EntityType: "quote"})
	require.NoError(t, err)
	require.Len(t, entries, 0)
}

func TestActivityRepository_AppendIsAtomic(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	good := &activity.Record{EntityType: "invoice", EntityID: "1", UserID: "u1", ActivityType: activity.TypeUpdated, Title: "t"}
	bad := &activity.Record{EntityType: "invoice", EntityID: "1", UserID: "u1", ActivityType: activity.TypeUpdated, Title: "t",
		NewValues: activity.Values{"broken": func() {}}}

	require.Error(t, repo.Append(ctx, "tenant1", good, bad))

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{EntityType: "invoice", EntityID: "1"})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestActivityRepository_DeleteKeepsSequence(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	first := &activity.Record{EntityType: "account", EntityID: "9", UserID: "u1", ActivityType: activity.TypeCreated, Title: "created"}
	second := &activity.Record{EntityType: "account", EntityID: "9", UserID: "u1", ActivityType: activity.TypeComment, Title: "commented"}
	require.NoError(t, repo.Append(ctx, "tenant1", first, second))

	require.NoError(t, repo.Delete(ctx, "tenant1", second.ID))
	require.ErrorIs(t, repo.Delete(ctx, "tenant1", second.ID), repository.ErrNotFound)

	third := &activity.Record{EntityType: "account", EntityID: "9", UserID: "u1", ActivityType: activity.TypeComment, Title: "commented again"}
	require.NoError(t, repo.Append(ctx, "tenant1", third))
	require.Greater(t, third.ID, second.ID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{EntityType: "account", EntityID: "9"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, third.ID, entries[0].ID)

	n, err := repo.DeleteByEntity(ctx, "tenant1", "account", "9")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
