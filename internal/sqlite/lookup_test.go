package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestLookupRepository_UpsertGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLookupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "tenant1", &lookup.Lookup{Type: "account_type", ID: "5", Name: "Customer", Color: "#112233"}))

	got, err := repo.Get(ctx, "tenant1", "account_type", "5")
	require.NoError(t, err)
	require.Equal(t, "Customer", got.Name)
	require.Equal(t, "#112233", got.Color)
	require.Equal(t, "tenant1", got.TenantID)

	require.NoError(t, repo.Upsert(ctx, "tenant1", &lookup.Lookup{Type: "account_type", ID: "5", Name: "Client", Color: "#999999"}))
	got, err = repo.Get(ctx, "tenant1", "account_type", "5")
	require.NoError(t, err)
	require.Equal(t, "Client", got.Name)
	require.Equal(t, "#999999", got.Color)
}

func TestLookupRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLookupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "tenant1", &lookup.Lookup{Type: "user", ID: "7", Name: "Jane Doe"}))

	_, err := repo.Get(ctx, "tenant2", "user", "7")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Get(ctx, "tenant1", "contact", "7")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLookupRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewLookupRepository(db)
	ctx := context.Background()

	for id, name := range map[string]string{"1": "Web", "2": "Referral", "3": "Event"} {
		require.NoError(t, repo.Upsert(ctx, "tenant1", &lookup.Lookup{Type: "lead_source", ID: id, Name: name}))
	}
	require.NoError(t, repo.Upsert(ctx, "tenant1", &lookup.Lookup{Type: "campaign", ID: "1", Name: "Spring"}))

	list, err := repo.List(ctx, "tenant1", "lead_source")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Event", list[0].Name)
	require.Equal(t, "Web", list[2].Name)
}
