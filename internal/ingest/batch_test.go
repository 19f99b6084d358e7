package ingest

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
)

type fakeRunRecorder struct {
	mu       sync.Mutex
	created  []*types.IngestRun
	updates  []map[string]any
	finished map[uuid.UUID]string
}

func newFakeRunRecorder() *fakeRunRecorder {
	return &fakeRunRecorder{finished: map[uuid.UUID]string{}}
}

func (r *fakeRunRecorder) Create(ctx context.Context, run *types.IngestRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, run)
	return nil
}

func (r *fakeRunRecorder) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, fields)
	return nil
}

func (r *fakeRunRecorder) MarkFinished(ctx context.Context, id uuid.UUID, status string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[id] = status
	r.updates = append(r.updates, fields)
	return nil
}

func newTestBatch(t *testing.T, rig *testRig) (*Batch, *fakeRunRecorder) {
	t.Helper()
	recorder := newFakeRunRecorder()
	return NewBatch(rig.fetcher, rig.pipeline, recorder, testLogger(t)), recorder
}

func TestBatchSkipsExistingAndProcessesNew(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	movieFixture(rig)
	rig.client.pages = [][]int64{{10, 20}}
	rig.store.preload(KindMovie, "10")

	batch, recorder := newTestBatch(t, rig)
	report, err := batch.Run(context.Background(), BatchOptions{
		StartDate: "1999-01-01", EndDate: "1999-12-31",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Discovered != 2 {
		t.Fatalf("discovered = %d", report.Discovered)
	}
	if report.Skipped != 1 {
		t.Fatalf("skipped = %d", report.Skipped)
	}
	if report.Completed != 1 {
		t.Fatalf("completed = %d", report.Completed)
	}
	if report.Failed != 0 {
		t.Fatalf("failed = %d", report.Failed)
	}
	if got := rig.client.callCount("movie/10"); got != 0 {
		t.Fatalf("existing movie fetched %d times", got)
	}
	if status := recorder.finished[report.RunID]; status != types.RunStatusCompleted {
		t.Fatalf("run status = %q", status)
	}
}

func TestBatchAccountsForEveryCandidate(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	movieFixture(rig)
	// 30 is not in the catalog; its pipeline fails at fetch.
	rig.client.pages = [][]int64{{20}, {30}}

	batch, _ := newTestBatch(t, rig)
	report, err := batch.Run(context.Background(), BatchOptions{
		StartDate: "1999-01-01", EndDate: "1999-12-31", MovieConcurrency: 2,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if total := report.Completed + report.Skipped + report.Failed; total != report.Discovered {
		t.Fatalf("accounting leak: %d+%d+%d != %d",
			report.Completed, report.Skipped, report.Failed, report.Discovered)
	}
	if report.Failed != 1 || report.Failures[0].MovieID != 30 {
		t.Fatalf("failures = %+v", report.Failures)
	}
	if report.Completed != 1 {
		t.Fatalf("completed = %d", report.Completed)
	}
}

func TestBatchDeduplicatesShiftingPages(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	movieFixture(rig)
	rig.client.pages = [][]int64{{20}, {20}}

	batch, _ := newTestBatch(t, rig)
	report, err := batch.Run(context.Background(), BatchOptions{
		StartDate: "1999-01-01", EndDate: "1999-12-31",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Discovered != 1 {
		t.Fatalf("discovered = %d", report.Discovered)
	}
	if got := rig.client.callCount("movie/20"); got != 1 {
		t.Fatalf("movie fetched %d times", got)
	}
}

func TestBatchDiscoveryFailureMarksRunFailed(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	rig.client.pages = [][]int64{{20}}
	rig.client.failTimes("discover/1", 10)

	batch, recorder := newTestBatch(t, rig)
	report, err := batch.Run(context.Background(), BatchOptions{
		StartDate: "1999-01-01", EndDate: "1999-12-31",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if status := recorder.finished[report.RunID]; status != types.RunStatusFailed {
		t.Fatalf("run status = %q", status)
	}
}

func TestBatchStartRunCreatesRowUpFront(t *testing.T) {
	rig := newTestRig(t, PipelineOptions{})
	rig.client.pages = [][]int64{}

	batch, recorder := newTestBatch(t, rig)
	opts := BatchOptions{StartDate: "1999-01-01", EndDate: "1999-12-31"}

	// An async caller can poll the run id before the batch has started.
	run, err := batch.StartRun(context.Background(), &opts)
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if opts.RunID != run.ID {
		t.Fatalf("opts run id = %s, created %s", opts.RunID, run.ID)
	}
	if len(recorder.created) != 1 || recorder.created[0].ID != run.ID {
		t.Fatalf("created runs = %+v", recorder.created)
	}
	if recorder.created[0].Status != types.RunStatusRunning {
		t.Fatalf("status = %q", recorder.created[0].Status)
	}

	report, err := batch.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.RunID != run.ID {
		t.Fatalf("run id = %s, want %s", report.RunID, run.ID)
	}
	if len(recorder.created) != 1 {
		t.Fatalf("run row created again: %+v", recorder.created)
	}
	if status := recorder.finished[run.ID]; status != types.RunStatusCompleted {
		t.Fatalf("run status = %q", status)
	}
}
