package recorder

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Guard suppresses duplicate emission for one logical operation observed
// more than once in a row.
type Guard interface {
	ShouldProcess(op Operation) bool
	MarkProcessed(op Operation)
}

// Operation identifies one lifecycle event. Scope names the entity and event
// kind; Key names the exact event within that scope.
type Operation struct {
	Scope string
	Key   string
}

const (
	defaultGuardSize = 10000
	defaultGuardTTL  = 10 * time.Minute
)

// MemoryGuard is a process-local Guard remembering the last processed key of
// at most size scopes, each for at most ttl. Only a repeat of the latest key
// in a scope is a duplicate, so an entity toggled back to an earlier state
// records again.
type MemoryGuard struct {
	last *expirable.LRU[string, string]
}

// NewMemoryGuard creates a bounded guard. Non-positive values take defaults.
func NewMemoryGuard(size int, ttl time.Duration) *MemoryGuard {
	if size <= 0 {
		size = defaultGuardSize
	}
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &MemoryGuard{last: expirable.NewLRU[string, string](size, nil, ttl)}
}

// ShouldProcess reports whether op differs from the last operation processed
// in its scope.
func (g *MemoryGuard) ShouldProcess(op Operation) bool {
	last, seen := g.last.Peek(op.Scope)
	return !seen || last != op.Key
}

// MarkProcessed records op as the latest operation of its scope.
func (g *MemoryGuard) MarkProcessed(op Operation) {
	g.last.Add(op.Scope, op.Key)
}

// Reset forgets every processed operation.
func (g *MemoryGuard) Reset() {
	g.last.Purge()
}

// Len returns the number of scopes currently held.
func (g *MemoryGuard) Len() int {
	return g.last.Len()
}

// CreatedKey is the operation key of an entity creation.
func CreatedKey(entityType, entityID string) string {
	return entityType + ":created_" + entityID
}

// UpdatedKey is the operation key of an update carrying the given changes.
func UpdatedKey(entityType, entityID string, changes []Change) string {
	return entityType + ":updated_" + entityID + "_" + hashChanges(changes)
}

// CreatedOperation is the guard operation of an entity creation.
func CreatedOperation(entityType, entityID string) Operation {
	key := CreatedKey(entityType, entityID)
	return Operation{Scope: key, Key: key}
}

// UpdatedOperation is the guard operation of an update. All updates of one
// entity share a scope.
func UpdatedOperation(entityType, entityID string, changes []Change) Operation {
	return Operation{
		Scope: entityType + ":updated_" + entityID,
		Key:   UpdatedKey(entityType, entityID, changes),
	}
}

func hashChanges(changes []Change) string {
	data, err := json.Marshal(changes)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", changes))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
