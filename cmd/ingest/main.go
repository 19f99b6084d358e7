// Command ingest runs one batch window and exits. The same wiring as the
// service, without the HTTP surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/moviegraph-backend/internal/app"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
)

func main() {
	var (
		startDate = flag.String("start", "", "window start date (YYYY-MM-DD)")
		endDate   = flag.String("end", "", "window end date (YYYY-MM-DD)")
		voteMin   = flag.Int("vote-min", 0, "minimum vote count for discovery")
		language  = flag.String("language", "", "original language filter (default en)")
		movies    = flag.Int("movies", 0, "movie concurrency (default from config)")
	)
	flag.Parse()

	if *startDate == "" || *endDate == "" {
		fmt.Println("both -start and -end are required")
		flag.Usage()
		os.Exit(2)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	concurrency := application.Cfg.MovieConcurrency
	if *movies > 0 {
		concurrency = *movies
	}

	report, err := application.Batch.Run(context.Background(), ingest.BatchOptions{
		StartDate:        *startDate,
		EndDate:          *endDate,
		VoteCountMinimum: *voteMin,
		OriginalLanguage: *language,
		MovieConcurrency: concurrency,
	})
	if err != nil {
		application.Log.Error("batch failed", "error", err)
		application.Close()
		os.Exit(1)
	}

	application.Log.Info("batch report",
		"run_id", report.RunID,
		"discovered", report.Discovered,
		"completed", report.Completed,
		"skipped", report.Skipped,
		"failed", report.Failed)
	if report.Failed > 0 {
		for _, failure := range report.Failures {
			application.Log.Warn("movie failed",
				"movie_id", failure.MovieID, "state", failure.State, "error", failure.Error)
		}
		application.Close()
		os.Exit(1)
	}
}
