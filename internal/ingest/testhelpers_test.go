package ingest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("new test logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

// fakeStore records writes in order and answers existence from what it has
// seen plus a preloaded set.
type fakeStore struct {
	mu        sync.Mutex
	existing  map[string]bool
	writes    []string
	entityErr map[string]error
	relErr    map[RelationshipKind]error
	deleted   []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		existing:  map[string]bool{},
		entityErr: map[string]error{},
		relErr:    map[RelationshipKind]error{},
	}
}

func (s *fakeStore) preload(kind EntityKind, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existing[fmt.Sprintf("%s:%s", kind, id)] = true
}

func (s *fakeStore) Exists(ctx context.Context, kind EntityKind, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.existing[fmt.Sprintf("%s:%s", kind, id)], nil
}

func (s *fakeStore) UpsertEntity(ctx context.Context, rec EntityRecord) (WriteOutcome, error) {
	key := rec.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.entityErr[key]; err != nil {
		return OutcomeWritten, err
	}
	if s.existing[key] {
		return OutcomeAlreadyExists, nil
	}
	s.existing[key] = true
	s.writes = append(s.writes, "entity "+key)
	return OutcomeWritten, nil
}

func (s *fakeStore) UpsertRelationship(ctx context.Context, rec RelationshipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.relErr[rec.Kind]; err != nil {
		return err
	}
	s.writes = append(s.writes, "rel "+string(rec.Kind)+" "+relKey(rec))
	return nil
}

func relKey(rec RelationshipRecord) string {
	switch rec.Kind {
	case RelGenre:
		return fmt.Sprintf("%d->%d", rec.MovieGenre.MovieID, rec.MovieGenre.GenreID)
	case RelLanguage:
		return fmt.Sprintf("%d->%s", rec.MovieLanguage.MovieID, rec.MovieLanguage.LanguageID)
	case RelCompany:
		return fmt.Sprintf("%d->%d", rec.MovieCompany.MovieID, rec.MovieCompany.CompanyID)
	case RelCountry:
		return fmt.Sprintf("%d->%s", rec.MovieCountry.MovieID, rec.MovieCountry.CountryID)
	case RelProviderOffer:
		o := rec.MovieProviderOffer
		return fmt.Sprintf("%d->%d/%s/%s", o.MovieID, o.ProviderID, o.CountryID, o.OfferType)
	case RelCast:
		return fmt.Sprintf("%d->%d", rec.MovieCast.PersonID, rec.MovieCast.MovieID)
	case RelCrew:
		return fmt.Sprintf("%d->%d", rec.MovieCrew.PersonID, rec.MovieCrew.MovieID)
	case RelCollection:
		return fmt.Sprintf("%d->%d", rec.Collection.MovieID, rec.Collection.CollectionID)
	case RelCompanyParent:
		return fmt.Sprintf("%d->%d", rec.CompanyParent.CompanyID, rec.CompanyParent.ParentID)
	case RelCompanyCountry:
		return fmt.Sprintf("%d->%s", rec.CompanyCountry.CompanyID, rec.CompanyCountry.CountryID)
	}
	return "?"
}

func (s *fakeStore) DeleteMovie(ctx context.Context, movieID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, movieID)
	delete(s.existing, fmt.Sprintf("%s:%d", KindMovie, movieID))
	s.writes = append(s.writes, fmt.Sprintf("delete movie:%d", movieID))
	return nil
}

func (s *fakeStore) writeIndex(t *testing.T, entry string) int {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.writes {
		if w == entry {
			return i
		}
	}
	t.Fatalf("write %q not found in %v", entry, s.writes)
	return -1
}

// fakeClient serves canned catalog payloads and records which endpoints were
// hit.
type fakeClient struct {
	mu          sync.Mutex
	movies      map[int64]*tmdb.MovieDetails
	collections map[int64]*tmdb.CollectionDetails
	companies   map[int64]*tmdb.CompanyDetails
	persons     map[int64]*tmdb.PersonDetails
	personErr   map[int64]error
	pages       [][]int64
	calls       []string
	failures    map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		movies:      map[int64]*tmdb.MovieDetails{},
		collections: map[int64]*tmdb.CollectionDetails{},
		companies:   map[int64]*tmdb.CompanyDetails{},
		persons:     map[int64]*tmdb.PersonDetails{},
		personErr:   map[int64]error{},
		failures:    map[string]int{},
	}
}

func (c *fakeClient) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeClient) callCount(call string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, recorded := range c.calls {
		if recorded == call {
			n++
		}
	}
	return n
}

// failOnce makes the named endpoint return a retryable 500 for the first n
// calls.
func (c *fakeClient) failTimes(call string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[call] = n
}

func (c *fakeClient) maybeFail(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures[call] > 0 {
		c.failures[call]--
		return &tmdb.APIError{StatusCode: http.StatusInternalServerError, Endpoint: call}
	}
	return nil
}

func notFound(endpoint string) error {
	return &tmdb.APIError{StatusCode: http.StatusNotFound, Endpoint: endpoint}
}

func (c *fakeClient) DiscoverMovies(ctx context.Context, q tmdb.DiscoverQuery, page int) ([]int64, int, error) {
	call := fmt.Sprintf("discover/%d", page)
	c.record(call)
	if err := c.maybeFail(call); err != nil {
		return nil, 0, err
	}
	if page < 1 || page > len(c.pages) {
		return nil, len(c.pages), nil
	}
	return c.pages[page-1], len(c.pages), nil
}

func (c *fakeClient) GetMovie(ctx context.Context, movieID int64) (*tmdb.MovieDetails, error) {
	call := fmt.Sprintf("movie/%d", movieID)
	c.record(call)
	if err := c.maybeFail(call); err != nil {
		return nil, err
	}
	m, ok := c.movies[movieID]
	if !ok {
		return nil, notFound(call)
	}
	return m, nil
}

func (c *fakeClient) GetCollection(ctx context.Context, collectionID int64) (*tmdb.CollectionDetails, error) {
	call := fmt.Sprintf("collection/%d", collectionID)
	c.record(call)
	if err := c.maybeFail(call); err != nil {
		return nil, err
	}
	col, ok := c.collections[collectionID]
	if !ok {
		return nil, notFound(call)
	}
	return col, nil
}

func (c *fakeClient) GetCompany(ctx context.Context, companyID int64) (*tmdb.CompanyDetails, error) {
	call := fmt.Sprintf("company/%d", companyID)
	c.record(call)
	if err := c.maybeFail(call); err != nil {
		return nil, err
	}
	company, ok := c.companies[companyID]
	if !ok {
		return nil, notFound(call)
	}
	return company, nil
}

func (c *fakeClient) GetPerson(ctx context.Context, personID int64) (*tmdb.PersonDetails, error) {
	call := fmt.Sprintf("person/%d", personID)
	c.record(call)
	if err := c.personErr[personID]; err != nil {
		return nil, err
	}
	if err := c.maybeFail(call); err != nil {
		return nil, err
	}
	p, ok := c.persons[personID]
	if !ok {
		return nil, notFound(call)
	}
	return p, nil
}

type testRig struct {
	client   *fakeClient
	store    *fakeStore
	gate     *Gate
	loader   *Loader
	fetcher  *Fetcher
	chains   *ChainResolver
	pipeline *Pipeline
}

func newTestRig(t *testing.T, opts PipelineOptions) *testRig {
	t.Helper()
	log := testLogger(t)
	client := newFakeClient()
	store := newFakeStore()
	gate := NewGate(store, nil, log)
	loader := NewLoader(store, gate, log)
	fetcher := NewFetcher(client, log, FetcherOptions{MaxAttempts: 3, BaseBackoff: time.Millisecond})
	chains := NewChainResolver(fetcher, gate, loader, log)
	pipeline := NewPipeline(fetcher, gate, loader, chains, nil, log, opts)
	return &testRig{
		client:   client,
		store:    store,
		gate:     gate,
		loader:   loader,
		fetcher:  fetcher,
		chains:   chains,
		pipeline: pipeline,
	}
}

// movieFixture is a small but fully-populated movie payload: one collection,
// one production company (id 2, owned by 5), two genres, a language, a
// country, a provider offer, two cast members and one crew member.
func movieFixture(rig *testRig) *tmdb.MovieDetails {
	rig.client.collections[7] = &tmdb.CollectionDetails{ID: 7, Name: "Example Saga"}
	rig.client.companies[2] = &tmdb.CompanyDetails{
		ID: 2, Name: "Child Studio", OriginCountry: "US",
		ParentCompany: &tmdb.ParentCompanyRef{ID: 5},
	}
	rig.client.companies[5] = &tmdb.CompanyDetails{ID: 5, Name: "Parent Holdings", OriginCountry: "US"}
	rig.client.persons[100] = &tmdb.PersonDetails{ID: 100, Name: "Lead Actor", Gender: 2, Birthday: "1970-01-01"}
	rig.client.persons[101] = &tmdb.PersonDetails{ID: 101, Name: "Supporting Actor", Gender: 1}
	rig.client.persons[200] = &tmdb.PersonDetails{ID: 200, Name: "The Director", Gender: 2}

	details := &tmdb.MovieDetails{
		ID:                  20,
		ImdbID:              "tt0000020",
		Title:               "Example Movie",
		Overview:            "A movie used in tests.",
		ReleaseDate:         "1999-03-31",
		VoteAverage:         8.1,
		VoteCount:           1000,
		Budget:              63000000,
		Runtime:             136,
		BelongsToCollection: &tmdb.CollectionRef{ID: 7, Name: "Example Saga"},
		Genres:              []tmdb.GenreRef{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		SpokenLanguages:     []tmdb.LanguageRef{{ISO6391: "en", EnglishName: "English"}},
		ProductionCompanies: []tmdb.CompanyRef{{ID: 2, Name: "Child Studio"}},
		ProductionCountries: []tmdb.CountryRef{{ISO31661: "US", Name: "United States of America"}},
		Credits: tmdb.Credits{
			Cast: []tmdb.CastCredit{
				{ID: 100, Name: "Lead Actor", Gender: 2, Character: "Hero", Order: 0},
				{ID: 101, Name: "Supporting Actor", Gender: 1, Character: "Friend", Order: 1},
			},
			Crew: []tmdb.CrewCredit{
				{ID: 200, Name: "The Director", Gender: 2, Job: "Director", Department: "Directing"},
			},
		},
		WatchProviders: &tmdb.WatchProviders{
			Results: map[string]tmdb.CountryProviders{
				"US": {Flatrate: []tmdb.ProviderRef{{ProviderID: 8, ProviderName: "Streamflix"}}},
			},
		},
	}
	rig.client.movies[20] = details
	return details
}
