package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/moviegraph-backend/internal/platform/httpx"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

// Fetcher wraps the single-attempt catalog client with retry policy.
// Transient failures (timeouts, 408/429/5xx) are retried with jittered
// backoff up to MaxAttempts; everything else is returned immediately.
type Fetcher struct {
	client      tmdb.Client
	log         *logger.Logger
	maxAttempts int
	baseBackoff time.Duration
}

type FetcherOptions struct {
	// MaxAttempts counts the first try. Zero means the default of 4.
	MaxAttempts int
	// BaseBackoff is the pre-jitter sleep after the first failure; it doubles
	// per attempt. Zero means the default of 500ms.
	BaseBackoff time.Duration
}

func NewFetcher(client tmdb.Client, log *logger.Logger, opts FetcherOptions) *Fetcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 4
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	return &Fetcher{
		client:      client,
		log:         log.With("component", "Fetcher"),
		maxAttempts: opts.MaxAttempts,
		baseBackoff: opts.BaseBackoff,
	}
}

func (f *Fetcher) Movie(ctx context.Context, id int64) (*tmdb.MovieDetails, error) {
	return retry(ctx, f, fmt.Sprintf("movie/%d", id), func() (*tmdb.MovieDetails, error) {
		return f.client.GetMovie(ctx, id)
	})
}

func (f *Fetcher) Collection(ctx context.Context, id int64) (*tmdb.CollectionDetails, error) {
	return retry(ctx, f, fmt.Sprintf("collection/%d", id), func() (*tmdb.CollectionDetails, error) {
		return f.client.GetCollection(ctx, id)
	})
}

func (f *Fetcher) Company(ctx context.Context, id int64) (*tmdb.CompanyDetails, error) {
	return retry(ctx, f, fmt.Sprintf("company/%d", id), func() (*tmdb.CompanyDetails, error) {
		return f.client.GetCompany(ctx, id)
	})
}

func (f *Fetcher) Person(ctx context.Context, id int64) (*tmdb.PersonDetails, error) {
	return retry(ctx, f, fmt.Sprintf("person/%d", id), func() (*tmdb.PersonDetails, error) {
		return f.client.GetPerson(ctx, id)
	})
}

func (f *Fetcher) Discover(ctx context.Context, q tmdb.DiscoverQuery, page int) ([]int64, int, error) {
	type pageResult struct {
		ids        []int64
		totalPages int
	}
	res, err := retry(ctx, f, fmt.Sprintf("discover/page/%d", page), func() (*pageResult, error) {
		ids, totalPages, err := f.client.DiscoverMovies(ctx, q, page)
		if err != nil {
			return nil, err
		}
		return &pageResult{ids: ids, totalPages: totalPages}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return res.ids, res.totalPages, nil
}

func retry[T any](ctx context.Context, f *Fetcher, what string, attempt func() (*T, error)) (*T, error) {
	backoff := f.baseBackoff
	var lastErr error
	for i := 1; i <= f.maxAttempts; i++ {
		out, err := attempt()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			return nil, err
		}
		if i == f.maxAttempts {
			break
		}
		f.log.Warn("transient fetch failure, backing off",
			"endpoint", what, "attempt", i, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(httpx.JitterSleep(backoff)):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("%s failed after %d attempts: %w", what, f.maxAttempts, lastErr)
}
