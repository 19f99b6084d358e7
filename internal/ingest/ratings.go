package ingest

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/scrape"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

// RatingsSink persists review-site scores. Implemented by the relational
// ratings repo; the graph does not carry these.
type RatingsSink interface {
	SaveIMDB(ctx context.Context, rating *types.IMDBRating) error
	SaveMetacritic(ctx context.Context, rating *types.MetacriticRating) error
	SaveRottenTomatoes(ctx context.Context, rating *types.RottenTomatoesRating) error
}

// RatingsFlow enriches an ingested movie with scores scraped from review
// sites. The catalog only hands us IMDb and Wikidata ids; the Wikidata page
// is scraped first to recover the Metacritic and Rotten Tomatoes ids. Each
// site is independent: one failing never blocks the others, and the caller
// treats the whole flow as optional.
type RatingsFlow struct {
	scraper scrape.Scraper
	sink    RatingsSink
	log     *logger.Logger
}

func NewRatingsFlow(scraper scrape.Scraper, sink RatingsSink, log *logger.Logger) *RatingsFlow {
	return &RatingsFlow{
		scraper: scraper,
		sink:    sink,
		log:     log.With("component", "RatingsFlow"),
	}
}

func (f *RatingsFlow) Ingest(ctx context.Context, movieID int64, ids *tmdb.ExternalIDs) error {
	refs := &scrape.ExternalRefs{WikidataID: ids.WikidataID, ImdbID: ids.ImdbID}
	if refs.WikidataID != "" {
		f.resolveRefs(ctx, refs)
	}

	var errs []error
	if refs.ImdbID != "" {
		if err := f.ingestIMDB(ctx, movieID, refs.ImdbID); err != nil {
			errs = append(errs, err)
		}
	}
	if refs.MetacriticID != "" {
		if err := f.ingestMetacritic(ctx, movieID, refs.MetacriticID); err != nil {
			errs = append(errs, err)
		}
	}
	if refs.RottenTomatoesID != "" {
		if err := f.ingestRottenTomatoes(ctx, movieID, refs.RottenTomatoesID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolveRefs fills in review-site ids from the movie's Wikidata entry.
// Best effort: on any failure the flow proceeds with whatever ids it has.
func (f *RatingsFlow) resolveRefs(ctx context.Context, refs *scrape.ExternalRefs) {
	markup, err := f.scraper.Fetch(ctx, scrape.SourceWikidata, refs.WikidataID)
	if err != nil {
		f.log.Warn("wikidata fetch failed", "wikidata_id", refs.WikidataID, "error", err)
		return
	}
	parsed, err := scrape.ParseWikidataExternalRefs(refs.WikidataID, markup)
	if err != nil {
		f.log.Warn("wikidata parse failed", "wikidata_id", refs.WikidataID, "error", err)
		return
	}
	if refs.ImdbID == "" {
		refs.ImdbID = parsed.ImdbID
	}
	refs.MetacriticID = parsed.MetacriticID
	refs.RottenTomatoesID = parsed.RottenTomatoesID
}

func (f *RatingsFlow) ingestIMDB(ctx context.Context, movieID int64, imdbID string) error {
	markup, err := f.scraper.Fetch(ctx, scrape.SourceIMDB, imdbID)
	if err != nil {
		return err
	}
	parsed, err := scrape.ParseIMDBRating(imdbID, markup)
	if err != nil {
		return err
	}
	return f.sink.SaveIMDB(ctx, &types.IMDBRating{
		ImdbID:    parsed.ImdbID,
		MovieID:   movieID,
		Rating:    parsed.Rating,
		VoteCount: parsed.VoteCount,
		Raw:       rawJSON(parsed),
	})
}

func (f *RatingsFlow) ingestMetacritic(ctx context.Context, movieID int64, metacriticID string) error {
	markup, err := f.scraper.Fetch(ctx, scrape.SourceMetacritic, metacriticID)
	if err != nil {
		return err
	}
	parsed, err := scrape.ParseMetacriticRating(metacriticID, markup)
	if err != nil {
		return err
	}
	return f.sink.SaveMetacritic(ctx, &types.MetacriticRating{
		MetacriticID: parsed.MetacriticID,
		MovieID:      movieID,
		Metascore:    parsed.Metascore,
		UserScore:    parsed.UserScore,
		Raw:          rawJSON(parsed),
	})
}

func (f *RatingsFlow) ingestRottenTomatoes(ctx context.Context, movieID int64, rtID string) error {
	markup, err := f.scraper.Fetch(ctx, scrape.SourceRottenTomatoes, rtID)
	if err != nil {
		return err
	}
	parsed, err := scrape.ParseRottenTomatoesRating(rtID, markup)
	if err != nil {
		return err
	}
	return f.sink.SaveRottenTomatoes(ctx, &types.RottenTomatoesRating{
		RottenTomatoesID: parsed.RottenTomatoesID,
		MovieID:          movieID,
		TomatoMeter:      parsed.TomatoMeter,
		AudienceScore:    parsed.AudienceScore,
		Raw:              rawJSON(parsed),
	})
}

func rawJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
