package catalog

import "time"

type Person struct {
	ID           int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ImdbID       *string    `gorm:"type:text" json:"imdb_id,omitempty"`
	Name         string     `gorm:"type:text;not null" json:"name"`
	Gender       string     `gorm:"type:text;not null;default:'Not specified'" json:"gender"`
	Biography    *string    `gorm:"type:text" json:"biography,omitempty"`
	PlaceOfBirth *string    `gorm:"type:text" json:"place_of_birth,omitempty"`
	Birthday     *time.Time `gorm:"type:date" json:"birthday,omitempty"`
	Deathday     *time.Time `gorm:"type:date" json:"deathday,omitempty"`
	Popularity   *float64   `json:"popularity,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Person) TableName() string { return "people" }
