package ingest

import (
	"context"
	"fmt"
)

// MultiStore fans every write out to the relational store and, when one is
// configured, the graph store. The relational store is written first and is
// authoritative for existence: a crash between the two writes leaves a row
// the graph is missing, and the MERGE-based graph writes make the next replay
// converge instead of erroring.
type MultiStore struct {
	relational Store
	graph      Store
}

func NewMultiStore(relational, graph Store) *MultiStore {
	return &MultiStore{relational: relational, graph: graph}
}

var _ Store = (*MultiStore)(nil)

func (m *MultiStore) Exists(ctx context.Context, kind EntityKind, id string) (bool, error) {
	return m.relational.Exists(ctx, kind, id)
}

func (m *MultiStore) UpsertEntity(ctx context.Context, rec EntityRecord) (WriteOutcome, error) {
	outcome, err := m.relational.UpsertEntity(ctx, rec)
	if err != nil {
		return outcome, err
	}
	if m.graph != nil {
		if _, err := m.graph.UpsertEntity(ctx, rec); err != nil {
			return outcome, fmt.Errorf("graph mirror of %s: %w", rec.Key(), err)
		}
	}
	return outcome, nil
}

func (m *MultiStore) UpsertRelationship(ctx context.Context, rec RelationshipRecord) error {
	if err := m.relational.UpsertRelationship(ctx, rec); err != nil {
		return err
	}
	if m.graph != nil {
		if err := m.graph.UpsertRelationship(ctx, rec); err != nil {
			return fmt.Errorf("graph mirror of %s: %w", rec.Kind, err)
		}
	}
	return nil
}

// DeleteMovie removes the graph subtree first: the relational row is the
// existence authority, so it must outlive the mirror during a partial delete.
func (m *MultiStore) DeleteMovie(ctx context.Context, movieID int64) error {
	if m.graph != nil {
		if err := m.graph.DeleteMovie(ctx, movieID); err != nil {
			return err
		}
	}
	return m.relational.DeleteMovie(ctx, movieID)
}
