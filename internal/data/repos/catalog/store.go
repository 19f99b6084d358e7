package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// Store persists catalog entities and relationships to the relational
// database. Every write is idempotent: entity replays surface as
// OutcomeAlreadyExists, relationship replays are silent no-ops.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStore(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log.With("repo", "CatalogStore")}
}

var _ ingest.Store = (*Store)(nil)

func (s *Store) Exists(ctx context.Context, kind ingest.EntityKind, id string) (bool, error) {
	model, key, err := existsTarget(kind, id)
	if err != nil {
		return false, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("existence probe for %s:%s: %w", kind, id, err)
	}
	return count > 0, nil
}

// existsTarget resolves the kind to its model and converts the string key
// back to the column's type so the driver binds the right parameter.
func existsTarget(kind ingest.EntityKind, id string) (any, any, error) {
	numeric := func(model any) (any, any, error) {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("non-numeric id %q for kind %s", id, kind)
		}
		return model, n, nil
	}
	switch kind {
	case ingest.KindMovie:
		return numeric(&types.Movie{})
	case ingest.KindCollection:
		return numeric(&types.Collection{})
	case ingest.KindCompany:
		return numeric(&types.Company{})
	case ingest.KindPerson:
		return numeric(&types.Person{})
	case ingest.KindGenre:
		return numeric(&types.Genre{})
	case ingest.KindLanguage:
		return &types.Language{}, id, nil
	case ingest.KindCountry:
		return &types.Country{}, id, nil
	case ingest.KindProvider:
		return numeric(&types.Provider{})
	}
	return nil, nil, fmt.Errorf("unknown entity kind %q", kind)
}

func (s *Store) UpsertEntity(ctx context.Context, rec ingest.EntityRecord) (ingest.WriteOutcome, error) {
	row, err := entityRow(rec)
	if err != nil {
		return ingest.OutcomeWritten, err
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ingest.OutcomeAlreadyExists, nil
		}
		return ingest.OutcomeWritten, fmt.Errorf("upsert %s: %w", rec.Key(), res.Error)
	}
	if res.RowsAffected == 0 {
		return ingest.OutcomeAlreadyExists, nil
	}
	return ingest.OutcomeWritten, nil
}

func entityRow(rec ingest.EntityRecord) (any, error) {
	switch rec.Kind {
	case ingest.KindMovie:
		return rec.Movie, nil
	case ingest.KindCollection:
		return rec.Collection, nil
	case ingest.KindCompany:
		return rec.Company, nil
	case ingest.KindPerson:
		return rec.Person, nil
	case ingest.KindGenre:
		return rec.Genre, nil
	case ingest.KindLanguage:
		return rec.Language, nil
	case ingest.KindCountry:
		return rec.Country, nil
	case ingest.KindProvider:
		return rec.Provider, nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", rec.Kind)
}

func (s *Store) UpsertRelationship(ctx context.Context, rec ingest.RelationshipRecord) error {
	db := s.db.WithContext(ctx)
	switch rec.Kind {
	case ingest.RelGenre:
		return s.createJoinRow(db, rec.MovieGenre)
	case ingest.RelLanguage:
		return s.createJoinRow(db, rec.MovieLanguage)
	case ingest.RelCompany:
		return s.createJoinRow(db, rec.MovieCompany)
	case ingest.RelCountry:
		return s.createJoinRow(db, rec.MovieCountry)
	case ingest.RelProviderOffer:
		return s.createJoinRow(db, rec.MovieProviderOffer)
	case ingest.RelCast:
		return s.createJoinRow(db, rec.MovieCast)
	case ingest.RelCrew:
		return s.createJoinRow(db, rec.MovieCrew)
	case ingest.RelCollection:
		// Membership lives on the movie row.
		return db.Model(&types.Movie{}).
			Where("id = ?", rec.Collection.MovieID).
			Update("collection_id", rec.Collection.CollectionID).Error
	case ingest.RelCompanyParent:
		return db.Model(&types.Company{}).
			Where("id = ?", rec.CompanyParent.CompanyID).
			Update("parent_company_id", rec.CompanyParent.ParentID).Error
	case ingest.RelCompanyCountry:
		return db.Model(&types.Company{}).
			Where("id = ?", rec.CompanyCountry.CompanyID).
			Update("country_id", rec.CompanyCountry.CountryID).Error
	}
	return fmt.Errorf("unknown relationship kind %q", rec.Kind)
}

func (s *Store) createJoinRow(db *gorm.DB, row any) error {
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil && !isUniqueViolation(res.Error) {
		return res.Error
	}
	return nil
}

// DeleteMovie removes the movie row and its dependents, dependents first so
// the statements also hold up under enforced foreign keys.
func (s *Store) DeleteMovie(ctx context.Context, movieID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model  any
			column string
		}{
			{&types.IMDBRating{}, "movie_id"},
			{&types.MetacriticRating{}, "movie_id"},
			{&types.RottenTomatoesRating{}, "movie_id"},
			{&types.MovieProviderOffer{}, "movie_id"},
			{&types.MovieCast{}, "movie_id"},
			{&types.MovieCrew{}, "movie_id"},
			{&types.MovieGenre{}, "movie_id"},
			{&types.MovieLanguage{}, "movie_id"},
			{&types.MovieCompany{}, "movie_id"},
			{&types.MovieCountry{}, "movie_id"},
			{&types.Movie{}, "id"},
		}
		for _, step := range steps {
			if err := tx.Where(step.column+" = ?", movieID).Delete(step.model).Error; err != nil {
				return fmt.Errorf("delete movie %d: %w", movieID, err)
			}
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
