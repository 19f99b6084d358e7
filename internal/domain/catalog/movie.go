package catalog

import (
	"time"
)

// Movie is the root entity of an ingestion unit. External catalog ids are the
// primary keys everywhere in this schema; rows are written once and never
// updated by the pipeline.
type Movie struct {
	ID           int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CollectionID *int64     `gorm:"index" json:"collection_id,omitempty"`
	ImdbID       *string    `gorm:"type:text;index" json:"imdb_id,omitempty"`
	Title        string     `gorm:"type:text;not null" json:"title"`
	Overview     *string    `gorm:"type:text" json:"overview,omitempty"`
	ReleaseDate  *time.Time `gorm:"type:date;index" json:"release_date,omitempty"`
	Popularity   *float64   `json:"popularity,omitempty"`
	VoteAverage  *float64   `json:"vote_average,omitempty"`
	VoteCount    *int64     `json:"vote_count,omitempty"`
	Budget       *int64     `json:"budget,omitempty"`
	Revenue      *int64     `json:"revenue,omitempty"`
	Runtime      *int64     `json:"runtime,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Movie) TableName() string { return "movies" }
