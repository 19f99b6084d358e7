package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/moviegraph-backend/internal/platform/envutil"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// Client is the catalog API surface the ingest layer depends on. Each call is
// a single attempt; retry policy belongs to the caller, which knows whether a
// failure class is worth retrying.
type Client interface {
	DiscoverMovies(ctx context.Context, q DiscoverQuery, page int) ([]int64, int, error)
	GetMovie(ctx context.Context, movieID int64) (*MovieDetails, error)
	GetCollection(ctx context.Context, collectionID int64) (*CollectionDetails, error)
	GetCompany(ctx context.Context, companyID int64) (*CompanyDetails, error)
	GetPerson(ctx context.Context, personID int64) (*PersonDetails, error)
}

type DiscoverQuery struct {
	StartDate        string
	EndDate          string
	VoteCountMinimum int
	OriginalLanguage string
}

// APIError carries the upstream status so callers can classify the failure.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *APIError) HTTPStatusCode() int { return e.StatusCode }

// DecodeError marks a payload that did not match the expected shape. Never
// retryable.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tmdb: decode %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("tmdb: logger required")
	}
	apiKey := envutil.String("TMDB_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("tmdb: missing TMDB_API_KEY")
	}
	baseURL := strings.TrimRight(envutil.String("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/")
	timeout := envutil.Duration("TMDB_HTTP_TIMEOUT", 15*time.Second)

	return &client{
		log:        log.With("client", "TMDB"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) DiscoverMovies(ctx context.Context, q DiscoverQuery, page int) ([]int64, int, error) {
	if page < 1 {
		page = 1
	}
	lang := q.OriginalLanguage
	if lang == "" {
		lang = "en"
	}
	params := url.Values{}
	params.Set("include_adult", "false")
	params.Set("include_video", "false")
	params.Set("language", "en-US")
	params.Set("page", strconv.Itoa(page))
	params.Set("primary_release_date.gte", q.StartDate)
	params.Set("primary_release_date.lte", q.EndDate)
	params.Set("sort_by", "primary_release_date.asc")
	params.Set("vote_count.gte", strconv.Itoa(q.VoteCountMinimum))
	params.Set("with_original_language", lang)

	var out DiscoverPage
	if err := c.getJSON(ctx, "discover/movie", params, &out); err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(out.Results))
	for _, r := range out.Results {
		ids = append(ids, r.ID)
	}
	return ids, out.TotalPages, nil
}

func (c *client) GetMovie(ctx context.Context, movieID int64) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,watch/providers,external_ids")
	var out MovieDetails
	if err := c.getJSON(ctx, fmt.Sprintf("movie/%d", movieID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetCollection(ctx context.Context, collectionID int64) (*CollectionDetails, error) {
	var out CollectionDetails
	if err := c.getJSON(ctx, fmt.Sprintf("collection/%d", collectionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetCompany(ctx context.Context, companyID int64) (*CompanyDetails, error) {
	var out CompanyDetails
	if err := c.getJSON(ctx, fmt.Sprintf("company/%d", companyID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GetPerson(ctx context.Context, personID int64) (*PersonDetails, error) {
	var out PersonDetails
	if err := c.getJSON(ctx, fmt.Sprintf("person/%d", personID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}
