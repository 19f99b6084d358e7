package ingest

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

// State tracks where a movie run is in its lifecycle. It exists for log
// lines and failure reports; transitions are linear.
type State string

const (
	StateFetching              State = "fetching"
	StateResolvingDependencies State = "resolving_dependencies"
	StateWritingRoot           State = "writing_root"
	StateFanningOut            State = "fanning_out"
	StateCompleted             State = "completed"
	StateRolledBack            State = "rolled_back"
)

type PipelineOptions struct {
	// PersonConcurrency bounds the relationship and credit fan-outs. Zero
	// means 8.
	PersonConcurrency int
	// AllOrNothing switches partial-failure handling from keeping the core
	// movie (recording which credits failed) to deleting everything written
	// for the movie.
	AllOrNothing bool
}

// Pipeline ingests one movie end to end: fetch, resolve the entities the
// movie points at, write the movie, then fan out over its credits.
type Pipeline struct {
	fetcher *Fetcher
	gate    *Gate
	loader  *Loader
	chains  *ChainResolver
	ratings *RatingsFlow
	log     *logger.Logger
	opts    PipelineOptions
}

func NewPipeline(fetcher *Fetcher, gate *Gate, loader *Loader, chains *ChainResolver, ratings *RatingsFlow, log *logger.Logger, opts PipelineOptions) *Pipeline {
	if opts.PersonConcurrency <= 0 {
		opts.PersonConcurrency = 8
	}
	return &Pipeline{
		fetcher: fetcher,
		gate:    gate,
		loader:  loader,
		chains:  chains,
		ratings: ratings,
		log:     log.With("component", "MoviePipeline"),
		opts:    opts,
	}
}

type PersonFailure struct {
	PersonID int64  `json:"person_id"`
	Error    string `json:"error"`
}

// EdgeFailure reports a failed relationship branch of the fan-out.
type EdgeFailure struct {
	Relationship string `json:"relationship"`
	Error        string `json:"error"`
}

type Result struct {
	MovieID       int64
	State         State
	Skipped       bool
	PeopleWritten int
	PeopleFailed  []PersonFailure
	EdgesFailed   []EdgeFailure
}

// Run ingests movieID. A nil error with Result.Skipped set means the movie
// was already present. Under AllOrNothing any fan-out failure rolls the
// whole movie back and surfaces as an error.
func (p *Pipeline) Run(ctx context.Context, movieID int64) (*Result, error) {
	log := p.log.With("movie_id", movieID)
	result := &Result{MovieID: movieID}

	known, err := p.gate.Known(ctx, KindMovie, strconv.FormatInt(movieID, 10))
	if err != nil {
		return nil, err
	}
	if known {
		log.Debug("movie already ingested, skipping")
		result.Skipped = true
		result.State = StateCompleted
		return result, nil
	}

	result.State = StateFetching
	details, err := p.fetcher.Movie(ctx, movieID)
	if err != nil {
		return result, err
	}
	movie := NormalizeMovie(details)

	result.State = StateResolvingDependencies
	if err := p.resolveDependencies(ctx, movie, details); err != nil {
		return result, err
	}

	result.State = StateWritingRoot
	if _, err := p.loader.Entity(ctx, EntityRecord{Kind: KindMovie, Movie: movie}); err != nil {
		return result, err
	}

	result.State = StateFanningOut
	edgeFailures := p.fanOutEdges(ctx, movie, details)
	written, personFailures := p.fanOutCredits(ctx, movieID, details.Credits)
	result.EdgesFailed = edgeFailures
	result.PeopleWritten = written
	result.PeopleFailed = personFailures

	failed := len(edgeFailures) + len(personFailures)
	if failed > 0 && p.opts.AllOrNothing {
		err := fmt.Errorf("%d fan-out branches failed (%d relationship, %d credit)",
			failed, len(edgeFailures), len(personFailures))
		return result, p.failAfterRoot(ctx, result, err)
	}
	if failed > 0 {
		log.Warn("movie ingested with failed fan-out branches",
			"relationships_failed", len(edgeFailures),
			"people_failed", len(personFailures), "people_written", written)
	}

	result.State = StateCompleted
	p.ingestRatings(ctx, movie, details)
	log.Info("movie ingested", "people_written", written, "branches_failed", failed)
	return result, nil
}

// failAfterRoot handles an error that occurred after the movie row was
// written. Under AllOrNothing the movie and its subtree are removed first;
// a rollback failure is reported alongside the original error because the
// stores are now in a state a replay cannot silently fix.
func (p *Pipeline) failAfterRoot(ctx context.Context, result *Result, cause error) error {
	if !p.opts.AllOrNothing {
		return cause
	}
	if err := p.loader.Unload(ctx, result.MovieID); err != nil {
		return errors.Join(cause, fmt.Errorf("rollback of movie %d failed: %w", result.MovieID, err))
	}
	result.State = StateRolledBack
	return cause
}

func (p *Pipeline) resolveDependencies(ctx context.Context, movie *types.Movie, details *tmdb.MovieDetails) error {
	if movie.CollectionID != nil {
		if err := p.resolveCollection(ctx, *movie.CollectionID); err != nil {
			return err
		}
	}

	for _, genre := range GenreRows(details.Genres) {
		g := genre
		if err := p.ensureEntity(ctx, KindGenre, g.ID, EntityRecord{Kind: KindGenre, Genre: &g}); err != nil {
			return err
		}
	}
	for _, language := range LanguageRows(details.SpokenLanguages) {
		l := language
		if err := p.ensureKeyedEntity(ctx, KindLanguage, l.ID, EntityRecord{Kind: KindLanguage, Language: &l}); err != nil {
			return err
		}
	}
	for _, country := range CountryRows(details.ProductionCountries) {
		c := country
		if err := p.ensureKeyedEntity(ctx, KindCountry, c.ID, EntityRecord{Kind: KindCountry, Country: &c}); err != nil {
			return err
		}
	}

	providers, _ := ProviderOffers(details.ID, details.WatchProviders)
	for _, provider := range providers {
		pr := provider
		if err := p.ensureEntity(ctx, KindProvider, pr.ID, EntityRecord{Kind: KindProvider, Provider: &pr}); err != nil {
			return err
		}
	}

	for _, company := range details.ProductionCompanies {
		if company.ID == 0 {
			continue
		}
		if err := p.chains.Resolve(ctx, company.ID); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) resolveCollection(ctx context.Context, collectionID int64) error {
	known, err := p.gate.Known(ctx, KindCollection, strconv.FormatInt(collectionID, 10))
	if err != nil {
		return err
	}
	if known {
		return nil
	}
	details, err := p.fetcher.Collection(ctx, collectionID)
	if err != nil {
		return err
	}
	_, err = p.loader.Entity(ctx, EntityRecord{Kind: KindCollection, Collection: NormalizeCollection(details)})
	return err
}

func (p *Pipeline) ensureEntity(ctx context.Context, kind EntityKind, id int64, rec EntityRecord) error {
	return p.ensureKeyedEntity(ctx, kind, strconv.FormatInt(id, 10), rec)
}

func (p *Pipeline) ensureKeyedEntity(ctx context.Context, kind EntityKind, id string, rec EntityRecord) error {
	known, err := p.gate.Known(ctx, kind, id)
	if err != nil {
		return err
	}
	if known {
		return nil
	}
	_, err = p.loader.Entity(ctx, rec)
	return err
}

// movieEdgeRecords collects every relationship the movie's own payload
// implies. Each record is one fan-out branch; the entities they point at
// were written during dependency resolution.
func movieEdgeRecords(movie *types.Movie, details *tmdb.MovieDetails) []RelationshipRecord {
	var records []RelationshipRecord
	if movie.CollectionID != nil {
		records = append(records, RelationshipRecord{
			Kind:       RelCollection,
			Collection: &CollectionMembership{MovieID: movie.ID, CollectionID: *movie.CollectionID},
		})
	}
	for _, genre := range GenreRows(details.Genres) {
		records = append(records, RelationshipRecord{
			Kind:       RelGenre,
			MovieGenre: &types.MovieGenre{MovieID: movie.ID, GenreID: genre.ID},
		})
	}
	for _, language := range LanguageRows(details.SpokenLanguages) {
		records = append(records, RelationshipRecord{
			Kind:          RelLanguage,
			MovieLanguage: &types.MovieLanguage{MovieID: movie.ID, LanguageID: language.ID},
		})
	}
	for _, country := range CountryRows(details.ProductionCountries) {
		records = append(records, RelationshipRecord{
			Kind:         RelCountry,
			MovieCountry: &types.MovieCountry{MovieID: movie.ID, CountryID: country.ID},
		})
	}
	for _, company := range details.ProductionCompanies {
		if company.ID == 0 {
			continue
		}
		records = append(records, RelationshipRecord{
			Kind:         RelCompany,
			MovieCompany: &types.MovieCompany{MovieID: movie.ID, CompanyID: company.ID},
		})
	}
	_, offers := ProviderOffers(movie.ID, details.WatchProviders)
	for _, offer := range offers {
		o := offer
		records = append(records, RelationshipRecord{
			Kind:               RelProviderOffer,
			MovieProviderOffer: &o,
		})
	}
	return records
}

// fanOutEdges writes the movie's relationship branches under the fan-out
// ceiling. A failed branch never stops its siblings; the caller decides what
// a partial means.
func (p *Pipeline) fanOutEdges(ctx context.Context, movie *types.Movie, details *tmdb.MovieDetails) []EdgeFailure {
	records := movieEdgeRecords(movie, details)
	outcomes := RunBounded(ctx, records, p.opts.PersonConcurrency, p.loader.Relationship)

	var failures []EdgeFailure
	for _, o := range FailedOutcomes(outcomes) {
		failures = append(failures, EdgeFailure{
			Relationship: string(o.Item.Kind),
			Error:        o.Err.Error(),
		})
	}
	return failures
}

// personWork gathers every credit one person holds on the movie so the
// person is fetched once no matter how many roles they had.
type personWork struct {
	personID int64
	cast     []types.MovieCast
	crew     []types.MovieCrew
}

func creditWork(movieID int64, credits tmdb.Credits) []*personWork {
	byPerson := map[int64]*personWork{}
	var order []*personWork

	get := func(personID int64) *personWork {
		if w, ok := byPerson[personID]; ok {
			return w
		}
		w := &personWork{personID: personID}
		byPerson[personID] = w
		order = append(order, w)
		return w
	}

	for _, credit := range credits.Cast {
		if credit.ID == 0 {
			continue
		}
		w := get(credit.ID)
		w.cast = append(w.cast, CastRow(movieID, credit))
	}
	for _, credit := range credits.Crew {
		if credit.ID == 0 {
			continue
		}
		w := get(credit.ID)
		w.crew = append(w.crew, CrewRow(movieID, credit))
	}
	return order
}

func (p *Pipeline) fanOutCredits(ctx context.Context, movieID int64, credits tmdb.Credits) (int, []PersonFailure) {
	work := creditWork(movieID, credits)
	outcomes := RunBounded(ctx, work, p.opts.PersonConcurrency, func(ctx context.Context, w *personWork) error {
		return p.ingestPerson(ctx, w)
	})

	written := 0
	var failures []PersonFailure
	for _, o := range outcomes {
		if o.Err != nil {
			failures = append(failures, PersonFailure{PersonID: o.Item.personID, Error: o.Err.Error()})
			continue
		}
		written++
	}
	return written, failures
}

func (p *Pipeline) ingestPerson(ctx context.Context, w *personWork) error {
	known, err := p.gate.Known(ctx, KindPerson, strconv.FormatInt(w.personID, 10))
	if err != nil {
		return err
	}
	if !known {
		details, err := p.fetcher.Person(ctx, w.personID)
		if err != nil {
			return err
		}
		if _, err := p.loader.Entity(ctx, EntityRecord{Kind: KindPerson, Person: NormalizePerson(details)}); err != nil {
			return err
		}
	}

	for _, row := range w.cast {
		r := row
		if err := p.loader.Relationship(ctx, RelationshipRecord{Kind: RelCast, MovieCast: &r}); err != nil {
			return err
		}
	}
	for _, row := range w.crew {
		r := row
		if err := p.loader.Relationship(ctx, RelationshipRecord{Kind: RelCrew, MovieCrew: &r}); err != nil {
			return err
		}
	}
	return nil
}

// ingestRatings runs the review-site flow when one is configured. It is
// strictly additive: a failure is logged and never affects the movie's
// outcome.
func (p *Pipeline) ingestRatings(ctx context.Context, movie *types.Movie, details *tmdb.MovieDetails) {
	if p.ratings == nil || details.ExternalIDs == nil {
		return
	}
	if err := p.ratings.Ingest(ctx, movie.ID, details.ExternalIDs); err != nil {
		p.log.Warn("review-site ratings ingestion failed", "movie_id", movie.ID, "error", err)
	}
}
