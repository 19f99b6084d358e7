package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/moviegraph-backend/internal/platform/envutil"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

type Source string

const (
	SourceWikidata       Source = "wikidata"
	SourceIMDB           Source = "imdb"
	SourceMetacritic     Source = "metacritic"
	SourceRottenTomatoes Source = "rotten_tomatoes"
)

// ErrMarkupMismatch marks a page whose structure no longer matches the
// parser. Not retryable; the site changed, not the network.
var ErrMarkupMismatch = errors.New("scrape: markup did not match expected shape")

type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("scrape: %s returned %d", e.URL, e.StatusCode)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

// Scraper fetches raw markup for one external id on one rating site.
type Scraper interface {
	Fetch(ctx context.Context, source Source, id string) ([]byte, error)
}

type scraper struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURLs   map[Source]string
	userAgent  string
	maxBody    int64
}

func NewScraper(log *logger.Logger) (Scraper, error) {
	if log == nil {
		return nil, fmt.Errorf("scrape: logger required")
	}
	return &scraper{
		log:        log.With("client", "Scraper"),
		httpClient: &http.Client{Timeout: envutil.Duration("SCRAPE_HTTP_TIMEOUT", 20*time.Second)},
		baseURLs: map[Source]string{
			SourceWikidata:       envutil.String("WIKIDATA_BASE_URL", "https://www.wikidata.org/wiki"),
			SourceIMDB:           envutil.String("IMDB_BASE_URL", "https://www.imdb.com/title"),
			SourceMetacritic:     envutil.String("METACRITIC_BASE_URL", "https://www.metacritic.com"),
			SourceRottenTomatoes: envutil.String("ROTTEN_TOMATOES_BASE_URL", "https://www.rottentomatoes.com"),
		},
		userAgent: envutil.String("SCRAPE_USER_AGENT", "Mozilla/5.0 (compatible; moviegraph/1.0)"),
		maxBody:   4 << 20,
	}, nil
}

func (s *scraper) Fetch(ctx context.Context, source Source, id string) ([]byte, error) {
	base, ok := s.baseURLs[source]
	if !ok {
		return nil, fmt.Errorf("scrape: unknown source %q", source)
	}
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(id, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape: build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape: get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: u}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("scrape: read %s: %w", u, err)
	}
	return body, nil
}
