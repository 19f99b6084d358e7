package catalog

import (
	"time"

	"gorm.io/datatypes"
)

// Rating rows from third-party review sites. These hang off a movie but are
// ingested by an independent flow; their absence never fails a movie run.

type IMDBRating struct {
	ImdbID    string  `gorm:"type:text;primaryKey" json:"imdb_id"`
	MovieID   int64   `gorm:"not null;index" json:"movie_id"`
	Rating    float64 `gorm:"not null" json:"rating"`
	VoteCount int64   `gorm:"not null;default:0" json:"vote_count"`

	Raw       datatypes.JSON `gorm:"type:jsonb" json:"raw,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (IMDBRating) TableName() string { return "imdb_ratings" }

type MetacriticRating struct {
	MetacriticID string  `gorm:"type:text;primaryKey" json:"metacritic_id"`
	MovieID      int64   `gorm:"not null;index" json:"movie_id"`
	Metascore    int     `gorm:"not null;default:0" json:"metascore"`
	UserScore    float64 `gorm:"not null;default:0" json:"user_score"`

	Raw       datatypes.JSON `gorm:"type:jsonb" json:"raw,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (MetacriticRating) TableName() string { return "metacritic_ratings" }

type RottenTomatoesRating struct {
	RottenTomatoesID string `gorm:"type:text;primaryKey" json:"rotten_tomatoes_id"`
	MovieID          int64  `gorm:"not null;index" json:"movie_id"`
	TomatoMeter      int    `gorm:"not null;default:0" json:"tomato_meter"`
	AudienceScore    int    `gorm:"not null;default:0" json:"audience_score"`

	Raw       datatypes.JSON `gorm:"type:jsonb" json:"raw,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (RottenTomatoesRating) TableName() string { return "rotten_tomatoes_ratings" }
