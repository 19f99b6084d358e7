package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

func TestFetcherRetriesTransientFailures(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	movieFixture(rig)
	rig.client.failTimes("movie/20", 2)

	details, err := rig.fetcher.Movie(context.Background(), 20)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if details.ID != 20 {
		t.Fatalf("movie id = %d", details.ID)
	}
	if got := rig.client.callCount("movie/20"); got != 3 {
		t.Fatalf("attempts = %d", got)
	}
}

func TestFetcherGivesUpAfterMaxAttempts(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	movieFixture(rig)
	rig.client.failTimes("movie/20", 10)

	_, err := rig.fetcher.Movie(context.Background(), 20)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := rig.client.callCount("movie/20"); got != 3 {
		t.Fatalf("attempts = %d", got)
	}
	var apiErr *tmdb.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("lost underlying error: %v", err)
	}
}

func TestFetcherDoesNotRetryNotFound(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})

	_, err := rig.fetcher.Movie(context.Background(), 999)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := rig.client.callCount("movie/999"); got != 1 {
		t.Fatalf("attempts = %d", got)
	}
}

func TestFetcherDoesNotRetryDecodeErrors(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	rig.client.personErr[77] = &tmdb.DecodeError{Endpoint: "person/77", Err: errors.New("bad json")}

	_, err := rig.fetcher.Person(context.Background(), 77)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := rig.client.callCount("person/77"); got != 1 {
		t.Fatalf("attempts = %d", got)
	}
}

func TestFetcherStopsWhenContextCancelled(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	movieFixture(rig)
	rig.client.failTimes("movie/20", 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)

	_, err := rig.fetcher.Movie(ctx, 20)
	if err == nil {
		t.Fatalf("expected error")
	}
}
