package ingest

import (
	"context"

	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/rediscache"
)

// Gate answers "was this entity already ingested" before any fetch work is
// spent on it. The store probe is the source of truth; the cache only
// remembers positive answers, so a stale or unavailable cache can cause a
// redundant probe but never a wrongly skipped entity.
type Gate struct {
	store Store
	cache *rediscache.Cache
	log   *logger.Logger
}

func NewGate(store Store, cache *rediscache.Cache, log *logger.Logger) *Gate {
	return &Gate{store: store, cache: cache, log: log.With("component", "Gate")}
}

// Known reports whether (kind, id) is already persisted. A store probe
// failure is returned as an error: guessing either way would corrupt the run,
// so the caller treats it as fatal for this work item.
func (g *Gate) Known(ctx context.Context, kind EntityKind, id string) (bool, error) {
	if g.cache.IsPresent(ctx, string(kind), id) {
		return true, nil
	}
	exists, err := g.store.Exists(ctx, kind, id)
	if err != nil {
		return false, err
	}
	if exists {
		g.cache.MarkPresent(ctx, string(kind), id)
	}
	return exists, nil
}

// MarkWritten records a completed write so later probes for the same entity
// short-circuit in the cache.
func (g *Gate) MarkWritten(ctx context.Context, kind EntityKind, id string) {
	g.cache.MarkPresent(ctx, string(kind), id)
}

// Forget drops the cached presence entry after a rollback so the entity is
// eligible for re-ingestion immediately.
func (g *Gate) Forget(ctx context.Context, kind EntityKind, id string) {
	g.cache.Forget(ctx, string(kind), id)
}
