package recorder_test

import (
	"testing"
	"time"

	"github.com/rpggio/crmtrail/internal/domain/recorder"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	g := recorder.NewMemoryGuard(2, time.Minute)
	a := recorder.Operation{Scope: "a", Key: "a1"}

	require.True(t, g.ShouldProcess(a))
	g.MarkProcessed(a)
	require.False(t, g.ShouldProcess(a))

	g.MarkProcessed(recorder.Operation{Scope: "b", Key: "b1"})
	g.MarkProcessed(recorder.Operation{Scope: "c", Key: "c1"})
	require.Equal(t, 2, g.Len())
	require.True(t, g.ShouldProcess(a), "oldest scope should be evicted")

	g.Reset()
	require.Zero(t, g.Len())
	require.True(t, g.ShouldProcess(recorder.Operation{Scope: "b", Key: "b1"}))
}

func TestMemoryGuard_OnlyLatestKeyPerScope(t *testing.T) {
	g := recorder.NewMemoryGuard(10, time.Minute)
	first := recorder.Operation{Scope: "quote:updated_1", Key: "k1"}
	second := recorder.Operation{Scope: "quote:updated_1", Key: "k2"}

	g.MarkProcessed(first)
	require.False(t, g.ShouldProcess(first))
	require.True(t, g.ShouldProcess(second))

	g.MarkProcessed(second)
	require.True(t, g.ShouldProcess(first), "an older key is no longer a duplicate")
	require.False(t, g.ShouldProcess(second))
	require.Equal(t, 1, g.Len())
}

func TestMemoryGuard_Expiry(t *testing.T) {
	g := recorder.NewMemoryGuard(10, 20*time.Millisecond)
	op := recorder.Operation{Scope: "k", Key: "k"}
	g.MarkProcessed(op)
	require.False(t, g.ShouldProcess(op))
	require.Eventually(t, func() bool { return g.ShouldProcess(op) }, time.Second, 10*time.Millisecond)
}

func TestOperationKeys(t *testing.T) {
	require.Equal(t, "lead:created_5", recorder.CreatedKey("lead", "5"))

	a := []recorder.Change{{Field: "status", Old: "draft", New: "sent"}}
	b := []recorder.Change{{Field: "status", Old: "sent", New: "accepted"}}
	require.Equal(t, recorder.UpdatedKey("quote", "1", a), recorder.UpdatedKey("quote", "1", a))
	require.NotEqual(t, recorder.UpdatedKey("quote", "1", a), recorder.UpdatedKey("quote", "1", b))
	require.NotEqual(t, recorder.UpdatedKey("quote", "1", a), recorder.UpdatedKey("invoice", "1", a))
	require.Contains(t, recorder.UpdatedKey("quote", "1", a), "quote:updated_1_")

	created := recorder.CreatedOperation("lead", "5")
	require.Equal(t, "lead:created_5", created.Key)
	require.Equal(t, created.Key, created.Scope)

	upA := recorder.UpdatedOperation("quote", "1", a)
	upB := recorder.UpdatedOperation("quote", "1", b)
	require.Equal(t, upA.Scope, upB.Scope)
	require.NotEqual(t, upA.Key, upB.Key)
	require.NotEqual(t, upA.Scope, recorder.UpdatedOperation("quote", "2", a).Scope)
}
