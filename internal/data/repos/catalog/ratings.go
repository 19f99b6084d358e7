package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// RatingsRepo persists review-site scores. Re-scraping a movie refreshes the
// stored scores rather than erroring, so the scrape flow can run on a cadence.
type RatingsRepo interface {
	UpsertIMDB(ctx context.Context, tx *gorm.DB, rating *types.IMDBRating) error
	UpsertMetacritic(ctx context.Context, tx *gorm.DB, rating *types.MetacriticRating) error
	UpsertRottenTomatoes(ctx context.Context, tx *gorm.DB, rating *types.RottenTomatoesRating) error
}

type ratingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingsRepo(db *gorm.DB, log *logger.Logger) RatingsRepo {
	return &ratingsRepo{db: db, log: log.With("repo", "RatingsRepo")}
}

// ratingsSink adapts the repo to the ingest flow's sink port.
type ratingsSink struct {
	repo RatingsRepo
}

func NewRatingsSink(repo RatingsRepo) ingest.RatingsSink {
	return &ratingsSink{repo: repo}
}

func (s *ratingsSink) SaveIMDB(ctx context.Context, rating *types.IMDBRating) error {
	return s.repo.UpsertIMDB(ctx, nil, rating)
}

func (s *ratingsSink) SaveMetacritic(ctx context.Context, rating *types.MetacriticRating) error {
	return s.repo.UpsertMetacritic(ctx, nil, rating)
}

func (s *ratingsSink) SaveRottenTomatoes(ctx context.Context, rating *types.RottenTomatoesRating) error {
	return s.repo.UpsertRottenTomatoes(ctx, nil, rating)
}

func (r *ratingsRepo) UpsertIMDB(ctx context.Context, tx *gorm.DB, rating *types.IMDBRating) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "imdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"movie_id", "rating", "vote_count", "raw"}),
	}).Create(rating).Error; err != nil {
		return fmt.Errorf("failed to upsert imdb rating %s: %w", rating.ImdbID, err)
	}
	return nil
}

func (r *ratingsRepo) UpsertMetacritic(ctx context.Context, tx *gorm.DB, rating *types.MetacriticRating) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metacritic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"movie_id", "metascore", "user_score", "raw"}),
	}).Create(rating).Error; err != nil {
		return fmt.Errorf("failed to upsert metacritic rating %s: %w", rating.MetacriticID, err)
	}
	return nil
}

func (r *ratingsRepo) UpsertRottenTomatoes(ctx context.Context, tx *gorm.DB, rating *types.RottenTomatoesRating) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "rotten_tomatoes_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"movie_id", "tomato_meter", "audience_score", "raw"}),
	}).Create(rating).Error; err != nil {
		return fmt.Errorf("failed to upsert rotten tomatoes rating %s: %w", rating.RottenTomatoesID, err)
	}
	return nil
}
