package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/moviegraph-backend/internal/data/repos/testutil"
	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.Tx(t), testutil.Logger(t))
}

func TestUpsertEntityReportsReplay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := ingest.EntityRecord{Kind: ingest.KindGenre, Genre: &types.Genre{ID: 28, Name: "Action"}}
	outcome, err := store.UpsertEntity(ctx, rec)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if outcome != ingest.OutcomeWritten {
		t.Fatalf("first outcome = %v", outcome)
	}

	outcome, err = store.UpsertEntity(ctx, rec)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if outcome != ingest.OutcomeAlreadyExists {
		t.Fatalf("replay outcome = %v", outcome)
	}
}

func TestExistsByKind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, ingest.KindMovie, "20")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if exists {
		t.Fatalf("movie reported present before any write")
	}

	if _, err := store.UpsertEntity(ctx, ingest.EntityRecord{
		Kind:  ingest.KindMovie,
		Movie: &types.Movie{ID: 20, Title: "Example"},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := store.UpsertEntity(ctx, ingest.EntityRecord{
		Kind:     ingest.KindLanguage,
		Language: &types.Language{ID: "en", Name: "English"},
	}); err != nil {
		t.Fatalf("upsert language: %v", err)
	}

	for _, probe := range []struct {
		kind ingest.EntityKind
		id   string
	}{
		{ingest.KindMovie, "20"},
		{ingest.KindLanguage, "en"},
	} {
		exists, err := store.Exists(ctx, probe.kind, probe.id)
		if err != nil {
			t.Fatalf("probe %s:%s: %v", probe.kind, probe.id, err)
		}
		if !exists {
			t.Fatalf("%s:%s not found after write", probe.kind, probe.id)
		}
	}
}

func TestRelationshipReplayIsNoOp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := ingest.RelationshipRecord{
		Kind:       ingest.RelGenre,
		MovieGenre: &types.MovieGenre{MovieID: 20, GenreID: 28},
	}
	if err := store.UpsertRelationship(ctx, rec); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := store.UpsertRelationship(ctx, rec); err != nil {
		t.Fatalf("replay: %v", err)
	}

	var count int64
	if err := store.db.Model(&types.MovieGenre{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("join rows = %d", count)
	}
}

func TestCollectionMembershipUpdatesMovieRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.UpsertEntity(ctx, ingest.EntityRecord{
		Kind:  ingest.KindMovie,
		Movie: &types.Movie{ID: 20, Title: "Example"},
	}); err != nil {
		t.Fatalf("upsert movie: %v", err)
	}

	err := store.UpsertRelationship(ctx, ingest.RelationshipRecord{
		Kind:       ingest.RelCollection,
		Collection: &ingest.CollectionMembership{MovieID: 20, CollectionID: 7},
	})
	if err != nil {
		t.Fatalf("membership: %v", err)
	}

	var movie types.Movie
	if err := store.db.First(&movie, "id = ?", 20).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if movie.CollectionID == nil || *movie.CollectionID != 7 {
		t.Fatalf("collection id = %v", movie.CollectionID)
	}
}

func TestDeleteMovieRemovesDependentsOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []ingest.EntityRecord{
		{Kind: ingest.KindMovie, Movie: &types.Movie{ID: 20, Title: "Example"}},
		{Kind: ingest.KindPerson, Person: &types.Person{ID: 100, Name: "Lead Actor", Gender: "Male"}},
		{Kind: ingest.KindGenre, Genre: &types.Genre{ID: 28, Name: "Action"}},
	}
	for _, rec := range seed {
		if _, err := store.UpsertEntity(ctx, rec); err != nil {
			t.Fatalf("seed %s: %v", rec.Key(), err)
		}
	}
	rels := []ingest.RelationshipRecord{
		{Kind: ingest.RelGenre, MovieGenre: &types.MovieGenre{MovieID: 20, GenreID: 28}},
		{Kind: ingest.RelCast, MovieCast: &types.MovieCast{MovieID: 20, PersonID: 100, Character: "Hero"}},
	}
	for _, rec := range rels {
		if err := store.UpsertRelationship(ctx, rec); err != nil {
			t.Fatalf("seed rel %s: %v", rec.Kind, err)
		}
	}

	if err := store.DeleteMovie(ctx, 20); err != nil {
		t.Fatalf("delete: %v", err)
	}

	exists, err := store.Exists(ctx, ingest.KindMovie, "20")
	if err != nil {
		t.Fatalf("probe movie: %v", err)
	}
	if exists {
		t.Fatalf("movie survived delete")
	}

	var count int64
	if err := store.db.Model(&types.MovieCast{}).Where("movie_id = ?", 20).Count(&count).Error; err != nil {
		t.Fatalf("count cast: %v", err)
	}
	if count != 0 {
		t.Fatalf("cast rows survived delete: %d", count)
	}

	// Shared entities stay.
	exists, err = store.Exists(ctx, ingest.KindPerson, "100")
	if err != nil {
		t.Fatalf("probe person: %v", err)
	}
	if !exists {
		t.Fatalf("person deleted with the movie")
	}
	exists, err = store.Exists(ctx, ingest.KindGenre, "28")
	if err != nil {
		t.Fatalf("probe genre: %v", err)
	}
	if !exists {
		t.Fatalf("genre deleted with the movie")
	}
}
