package catalog

import "time"

// Small globally-shared reference entities. Languages and countries use their
// ISO codes as primary keys, matching the upstream feed.

type Genre struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:text;not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Genre) TableName() string { return "genres" }

type Language struct {
	ID   string `gorm:"type:varchar(2);primaryKey" json:"id"`
	Name string `gorm:"type:text;not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Language) TableName() string { return "languages" }

type Country struct {
	ID   string `gorm:"type:varchar(2);primaryKey" json:"id"`
	Name string `gorm:"type:text;not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Country) TableName() string { return "countries" }

type Provider struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:text;not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Provider) TableName() string { return "providers" }
