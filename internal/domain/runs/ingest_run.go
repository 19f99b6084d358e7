package runs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// IngestRun is the bookkeeping row for one batch invocation: the requested
// window plus the completed/skipped/failed accounting the driver reports.
type IngestRun struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	StartDate        string `gorm:"type:text;not null" json:"start_date"`
	EndDate          string `gorm:"type:text;not null" json:"end_date"`
	VoteCountMinimum int    `gorm:"not null;default:0" json:"vote_count_minimum"`

	MovieConcurrency  int `gorm:"not null;default:0" json:"movie_concurrency"`
	PersonConcurrency int `gorm:"not null;default:0" json:"person_concurrency"`

	Status           string         `gorm:"type:text;not null;default:'running';index" json:"status"`
	MoviesDiscovered int            `gorm:"not null;default:0" json:"movies_discovered"`
	MoviesCompleted  int            `gorm:"not null;default:0" json:"movies_completed"`
	MoviesSkipped    int            `gorm:"not null;default:0" json:"movies_skipped"`
	MoviesFailed     int            `gorm:"not null;default:0" json:"movies_failed"`
	Failures         datatypes.JSON `gorm:"type:jsonb" json:"failures,omitempty"`
	Error            string         `gorm:"type:text;not null;default:''" json:"error,omitempty"`

	StartedAt  time.Time  `gorm:"not null;default:now()" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (IngestRun) TableName() string { return "ingest_runs" }
