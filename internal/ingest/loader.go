package ingest

import (
	"context"
	"strconv"

	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// Loader is the pipeline's write surface. It funnels records into the
// composed store, feeds completed writes back into the gate's presence cache,
// and treats "already there" as success so replays stay quiet.
type Loader struct {
	store Store
	gate  *Gate
	log   *logger.Logger
}

func NewLoader(store Store, gate *Gate, log *logger.Logger) *Loader {
	return &Loader{store: store, gate: gate, log: log.With("component", "Loader")}
}

func (l *Loader) Entity(ctx context.Context, rec EntityRecord) (WriteOutcome, error) {
	outcome, err := l.store.UpsertEntity(ctx, rec)
	if err != nil {
		return outcome, err
	}
	l.gate.MarkWritten(ctx, rec.Kind, rec.ID())
	if outcome == OutcomeAlreadyExists {
		l.log.Debug("entity already present", "entity", rec.Key())
	}
	return outcome, nil
}

func (l *Loader) Relationship(ctx context.Context, rec RelationshipRecord) error {
	return l.store.UpsertRelationship(ctx, rec)
}

// Unload removes a movie and everything hanging off it from both stores.
// Used by all-or-nothing rollback.
func (l *Loader) Unload(ctx context.Context, movieID int64) error {
	if err := l.store.DeleteMovie(ctx, movieID); err != nil {
		return err
	}
	l.gate.Forget(ctx, KindMovie, strconv.FormatInt(movieID, 10))
	return nil
}
