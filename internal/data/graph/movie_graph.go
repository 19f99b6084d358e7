package graph

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/neo4jdb"
)

// Store mirrors the catalog into Neo4j. Nodes are keyed by the catalog id
// (ISO code for languages and countries) under a uniqueness constraint, and
// every write is a MERGE so replays are clean no-ops.
type Store struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewStore(client *neo4jdb.Client, log *logger.Logger) *Store {
	return &Store{client: client, log: log.With("repo", "GraphStore")}
}

var _ ingest.Store = (*Store)(nil)

var nodeLabels = map[ingest.EntityKind]string{
	ingest.KindMovie:      "Movie",
	ingest.KindCollection: "Collection",
	ingest.KindCompany:    "Company",
	ingest.KindPerson:     "Person",
	ingest.KindGenre:      "Genre",
	ingest.KindLanguage:   "Language",
	ingest.KindCountry:    "Country",
	ingest.KindProvider:   "Provider",
}

// crewRelations maps a crew member's department to the edge type written for
// them. Departments outside the map fall back to WORKED_ON with the job kept
// as an edge property.
var crewRelations = map[string]string{
	"Directing":  "DIRECTED",
	"Writing":    "WROTE",
	"Production": "PRODUCED",
	"Sound":      "COMPOSED_FOR",
	"Camera":     "SHOT",
	"Editing":    "EDITED",
}

const crewRelationFallback = "WORKED_ON"

// EnsureSchema creates the per-label id uniqueness constraints. Safe to run
// on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	for kind, label := range nodeLabels {
		query := fmt.Sprintf(
			"CREATE CONSTRAINT %s_id_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE",
			string(kind), label,
		)
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("graph schema for %s: %w", label, err)
		}
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, kind ingest.EntityKind, id string) (bool, error) {
	label, ok := nodeLabels[kind]
	if !ok {
		return false, fmt.Errorf("unknown entity kind %q", kind)
	}
	session := s.session(ctx)
	defer session.Close(ctx)

	found, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) (bool, error) {
		query := fmt.Sprintf("MATCH (n:%s {id: $id}) RETURN count(n) > 0 AS found", label)
		result, err := tx.Run(ctx, query, map[string]any{"id": nodeID(kind, id)})
		if err != nil {
			return false, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return false, err
		}
		value, _ := record.Get("found")
		exists, _ := value.(bool)
		return exists, nil
	})
	if err != nil {
		return false, fmt.Errorf("existence probe for %s:%s: %w", kind, id, err)
	}
	return found, nil
}

// nodeID converts the string key back to the property type the node carries.
func nodeID(kind ingest.EntityKind, id string) any {
	switch kind {
	case ingest.KindLanguage, ingest.KindCountry:
		return id
	default:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return id
		}
		return n
	}
}

func (s *Store) UpsertEntity(ctx context.Context, rec ingest.EntityRecord) (ingest.WriteOutcome, error) {
	label, ok := nodeLabels[rec.Kind]
	if !ok {
		return ingest.OutcomeWritten, fmt.Errorf("unknown entity kind %q", rec.Kind)
	}
	props, err := entityProps(rec)
	if err != nil {
		return ingest.OutcomeWritten, err
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	created, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (bool, error) {
		query := fmt.Sprintf("MERGE (n:%s {id: $id}) ON CREATE SET n += $props", label)
		result, err := tx.Run(ctx, query, map[string]any{"id": props["id"], "props": props})
		if err != nil {
			return false, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return false, err
		}
		return summary.Counters().NodesCreated() > 0, nil
	})
	if err != nil {
		return ingest.OutcomeWritten, fmt.Errorf("graph upsert %s: %w", rec.Key(), err)
	}
	if !created {
		return ingest.OutcomeAlreadyExists, nil
	}
	return ingest.OutcomeWritten, nil
}

func entityProps(rec ingest.EntityRecord) (map[string]any, error) {
	switch rec.Kind {
	case ingest.KindMovie:
		return movieProps(rec.Movie), nil
	case ingest.KindCollection:
		return map[string]any{"id": rec.Collection.ID, "name": rec.Collection.Name}, nil
	case ingest.KindCompany:
		m := map[string]any{"id": rec.Company.ID, "name": rec.Company.Name}
		putString(m, "headquarters", rec.Company.Headquarters)
		return m, nil
	case ingest.KindPerson:
		return personProps(rec.Person), nil
	case ingest.KindGenre:
		return map[string]any{"id": rec.Genre.ID, "name": rec.Genre.Name}, nil
	case ingest.KindLanguage:
		return map[string]any{"id": rec.Language.ID, "name": rec.Language.Name}, nil
	case ingest.KindCountry:
		return map[string]any{"id": rec.Country.ID, "name": rec.Country.Name}, nil
	case ingest.KindProvider:
		return map[string]any{"id": rec.Provider.ID, "name": rec.Provider.Name}, nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", rec.Kind)
}

func movieProps(m *types.Movie) map[string]any {
	props := map[string]any{"id": m.ID, "title": m.Title}
	putString(props, "imdb_id", m.ImdbID)
	putString(props, "overview", m.Overview)
	putDate(props, "release_date", m.ReleaseDate)
	putFloat(props, "popularity", m.Popularity)
	putFloat(props, "vote_average", m.VoteAverage)
	putInt(props, "vote_count", m.VoteCount)
	putInt(props, "budget", m.Budget)
	putInt(props, "revenue", m.Revenue)
	putInt(props, "runtime", m.Runtime)
	return props
}

func personProps(p *types.Person) map[string]any {
	props := map[string]any{"id": p.ID, "name": p.Name, "gender": p.Gender}
	putDate(props, "birthday", p.Birthday)
	putDate(props, "deathday", p.Deathday)
	return props
}

func putString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func putInt(m map[string]any, key string, v *int64) {
	if v != nil {
		m[key] = *v
	}
}

func putFloat(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

func putDate(m map[string]any, key string, v *time.Time) {
	if v != nil {
		m[key] = v.Format("2006-01-02")
	}
}

func (s *Store) UpsertRelationship(ctx context.Context, rec ingest.RelationshipRecord) error {
	query, params, err := relationshipQuery(rec)
	if err != nil {
		return err
	}

	session := s.session(ctx)
	defer session.Close(ctx)

	_, err = neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("graph relationship %s: %w", rec.Kind, err)
	}
	return nil
}

func relationshipQuery(rec ingest.RelationshipRecord) (string, map[string]any, error) {
	switch rec.Kind {
	case ingest.RelGenre:
		return `MATCH (m:Movie {id: $movie_id}), (g:Genre {id: $genre_id})
MERGE (m)-[:HAS_GENRE]->(g)`,
			map[string]any{"movie_id": rec.MovieGenre.MovieID, "genre_id": rec.MovieGenre.GenreID}, nil

	case ingest.RelLanguage:
		return `MATCH (m:Movie {id: $movie_id}), (l:Language {id: $language_id})
MERGE (m)-[:HAS_LANGUAGE]->(l)`,
			map[string]any{"movie_id": rec.MovieLanguage.MovieID, "language_id": rec.MovieLanguage.LanguageID}, nil

	case ingest.RelCompany:
		return `MATCH (m:Movie {id: $movie_id}), (c:Company {id: $company_id})
MERGE (m)-[:PRODUCED_BY]->(c)`,
			map[string]any{"movie_id": rec.MovieCompany.MovieID, "company_id": rec.MovieCompany.CompanyID}, nil

	case ingest.RelCountry:
		return `MATCH (m:Movie {id: $movie_id}), (c:Country {id: $country_id})
MERGE (m)-[:PRODUCED_IN]->(c)`,
			map[string]any{"movie_id": rec.MovieCountry.MovieID, "country_id": rec.MovieCountry.CountryID}, nil

	case ingest.RelProviderOffer:
		return `MATCH (m:Movie {id: $movie_id}), (p:Provider {id: $provider_id})
MERGE (m)-[o:OFFERED_BY {country_id: $country_id, offer_type: $offer_type}]->(p)`,
			map[string]any{
				"movie_id":    rec.MovieProviderOffer.MovieID,
				"provider_id": rec.MovieProviderOffer.ProviderID,
				"country_id":  rec.MovieProviderOffer.CountryID,
				"offer_type":  rec.MovieProviderOffer.OfferType,
			}, nil

	case ingest.RelCast:
		return `MATCH (p:Person {id: $person_id}), (m:Movie {id: $movie_id})
MERGE (p)-[r:ACTED_IN {character: $character}]->(m)
ON CREATE SET r.cast_order = $cast_order`,
			map[string]any{
				"person_id":  rec.MovieCast.PersonID,
				"movie_id":   rec.MovieCast.MovieID,
				"character":  rec.MovieCast.Character,
				"cast_order": rec.MovieCast.CastOrder,
			}, nil

	case ingest.RelCrew:
		relation, ok := crewRelations[rec.MovieCrew.Department]
		if !ok {
			relation = crewRelationFallback
		}
		query := fmt.Sprintf(`MATCH (p:Person {id: $person_id}), (m:Movie {id: $movie_id})
MERGE (p)-[r:%s {job: $job}]->(m)
ON CREATE SET r.department = $department`, relation)
		return query, map[string]any{
			"person_id":  rec.MovieCrew.PersonID,
			"movie_id":   rec.MovieCrew.MovieID,
			"job":        rec.MovieCrew.Job,
			"department": rec.MovieCrew.Department,
		}, nil

	case ingest.RelCollection:
		return `MATCH (m:Movie {id: $movie_id}), (c:Collection {id: $collection_id})
MERGE (m)-[:PART_OF]->(c)`,
			map[string]any{"movie_id": rec.Collection.MovieID, "collection_id": rec.Collection.CollectionID}, nil

	case ingest.RelCompanyParent:
		return `MATCH (c:Company {id: $company_id}), (p:Company {id: $parent_id})
MERGE (c)-[:PART_OF]->(p)`,
			map[string]any{"company_id": rec.CompanyParent.CompanyID, "parent_id": rec.CompanyParent.ParentID}, nil

	case ingest.RelCompanyCountry:
		return `MATCH (c:Company {id: $company_id}), (n:Country {id: $country_id})
MERGE (c)-[:BASED_IN]->(n)`,
			map[string]any{"company_id": rec.CompanyCountry.CompanyID, "country_id": rec.CompanyCountry.CountryID}, nil
	}
	return "", nil, fmt.Errorf("unknown relationship kind %q", rec.Kind)
}

// DeleteMovie detaches and deletes the movie node; edges go with it, shared
// nodes stay.
func (s *Store) DeleteMovie(ctx context.Context, movieID int64) error {
	session := s.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, "MATCH (m:Movie {id: $id}) DETACH DELETE m", map[string]any{"id": movieID})
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("graph delete movie %d: %w", movieID, err)
	}
	return nil
}

func (s *Store) session(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.client.Database,
	})
}
