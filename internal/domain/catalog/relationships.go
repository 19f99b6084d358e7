package catalog

import "time"

// Relationship rows. Composite primary keys double as the uniqueness
// constraint the loader relies on: a duplicate insert surfaces as a
// unique-violation, which the loader treats as "already written".

type MovieGenre struct {
	MovieID int64 `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	GenreID int64 `gorm:"primaryKey;autoIncrement:false" json:"genre_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieGenre) TableName() string { return "movie_genres" }

type MovieLanguage struct {
	MovieID    int64  `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	LanguageID string `gorm:"type:varchar(2);primaryKey" json:"language_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieLanguage) TableName() string { return "movie_languages" }

type MovieCompany struct {
	MovieID   int64 `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	CompanyID int64 `gorm:"primaryKey;autoIncrement:false" json:"company_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieCompany) TableName() string { return "movie_companies" }

type MovieCountry struct {
	MovieID   int64  `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	CountryID string `gorm:"type:varchar(2);primaryKey" json:"country_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieCountry) TableName() string { return "movie_countries" }

// Offer types for MovieProviderOffer.
const (
	OfferTypeBuy          = "buy"
	OfferTypeRent         = "rent"
	OfferTypeSubscription = "subscription"
)

type MovieProviderOffer struct {
	MovieID    int64  `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	CountryID  string `gorm:"type:varchar(2);primaryKey" json:"country_id"`
	ProviderID int64  `gorm:"primaryKey;autoIncrement:false" json:"provider_id"`
	OfferType  string `gorm:"type:text;primaryKey" json:"offer_type"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieProviderOffer) TableName() string { return "movie_provider_offers" }

// Character and Job participate in the key: one person can hold several
// credits on the same movie. Empty values are stored as '' rather than NULL
// so the composite key stays total.
type MovieCast struct {
	MovieID   int64  `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	PersonID  int64  `gorm:"primaryKey;autoIncrement:false" json:"person_id"`
	Character string `gorm:"type:text;primaryKey;default:''" json:"character"`
	CastOrder int    `gorm:"not null;default:0" json:"cast_order"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieCast) TableName() string { return "movie_cast" }

type MovieCrew struct {
	MovieID    int64  `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	PersonID   int64  `gorm:"primaryKey;autoIncrement:false" json:"person_id"`
	Job        string `gorm:"type:text;primaryKey;default:''" json:"job"`
	Department string `gorm:"type:text;not null;default:''" json:"department"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (MovieCrew) TableName() string { return "movie_crew" }
