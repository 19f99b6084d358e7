package ingest

import (
	"context"
	"fmt"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
)

// EntityKind names the node types the pipeline writes. The same kind strings
// are used for existence probes, presence-cache keys, and graph labels.
type EntityKind string

const (
	KindMovie      EntityKind = "movie"
	KindCollection EntityKind = "collection"
	KindCompany    EntityKind = "company"
	KindPerson     EntityKind = "person"
	KindGenre      EntityKind = "genre"
	KindLanguage   EntityKind = "language"
	KindCountry    EntityKind = "country"
	KindProvider   EntityKind = "provider"
)

// WriteOutcome distinguishes a fresh write from an idempotent replay. Both
// are success; callers only branch on it for accounting.
type WriteOutcome int

const (
	OutcomeWritten WriteOutcome = iota
	OutcomeAlreadyExists
)

// EntityRecord is a tagged variant: Kind selects which pointer is populated.
// Stores switch on Kind and must treat a nil payload for the named kind as a
// programming error.
type EntityRecord struct {
	Kind EntityKind

	Movie      *types.Movie
	Collection *types.Collection
	Company    *types.Company
	Person     *types.Person
	Genre      *types.Genre
	Language   *types.Language
	Country    *types.Country
	Provider   *types.Provider
}

// Key returns "kind:id" for log lines and presence-cache entries.
func (r EntityRecord) Key() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID())
}

// ID returns the record's natural key as a string. Language and country keys
// are ISO codes; everything else is the catalog's numeric id.
func (r EntityRecord) ID() string {
	switch r.Kind {
	case KindMovie:
		return fmt.Sprintf("%d", r.Movie.ID)
	case KindCollection:
		return fmt.Sprintf("%d", r.Collection.ID)
	case KindCompany:
		return fmt.Sprintf("%d", r.Company.ID)
	case KindPerson:
		return fmt.Sprintf("%d", r.Person.ID)
	case KindGenre:
		return fmt.Sprintf("%d", r.Genre.ID)
	case KindLanguage:
		return r.Language.ID
	case KindCountry:
		return r.Country.ID
	case KindProvider:
		return fmt.Sprintf("%d", r.Provider.ID)
	}
	return ""
}

// RelationshipKind names the edge types. The relational store materializes
// most of them as join rows; membership and parentage are columns on the
// entity rows there, so only the graph store writes those as edges.
type RelationshipKind string

const (
	RelGenre          RelationshipKind = "has_genre"
	RelLanguage       RelationshipKind = "has_language"
	RelCompany        RelationshipKind = "produced_by"
	RelCountry        RelationshipKind = "produced_in"
	RelProviderOffer  RelationshipKind = "offered_by"
	RelCast           RelationshipKind = "acted_in"
	RelCrew           RelationshipKind = "worked_on"
	RelCollection     RelationshipKind = "based_on"
	RelCompanyParent  RelationshipKind = "part_of"
	RelCompanyCountry RelationshipKind = "headquartered_in"
)

// CollectionMembership links a movie to its franchise collection.
type CollectionMembership struct {
	MovieID      int64
	CollectionID int64
}

// CompanyParent links a company to its direct parent in the ownership chain.
type CompanyParent struct {
	CompanyID int64
	ParentID  int64
}

// CompanyCountry links a company to its origin country.
type CompanyCountry struct {
	CompanyID int64
	CountryID string
}

type RelationshipRecord struct {
	Kind RelationshipKind

	MovieGenre         *types.MovieGenre
	MovieLanguage      *types.MovieLanguage
	MovieCompany       *types.MovieCompany
	MovieCountry       *types.MovieCountry
	MovieProviderOffer *types.MovieProviderOffer
	MovieCast          *types.MovieCast
	MovieCrew          *types.MovieCrew

	Collection     *CollectionMembership
	CompanyParent  *CompanyParent
	CompanyCountry *CompanyCountry
}

// Store is the write surface the pipeline loads into. Both the relational
// and the graph implementation are idempotent: replaying a record returns
// OutcomeAlreadyExists (entities) or a clean nil (relationships).
type Store interface {
	// Exists reports whether the entity identified by (kind, id) has already
	// been persisted. The id is the string form EntityRecord.ID produces.
	Exists(ctx context.Context, kind EntityKind, id string) (bool, error)

	UpsertEntity(ctx context.Context, rec EntityRecord) (WriteOutcome, error)
	UpsertRelationship(ctx context.Context, rec RelationshipRecord) error

	// DeleteMovie removes the movie and every relationship row or edge that
	// hangs off it. Shared entities (people, companies, reference rows) are
	// left in place.
	DeleteMovie(ctx context.Context, movieID int64) error
}
