package domain

import (
	"github.com/yungbote/moviegraph-backend/internal/domain/catalog"
	"github.com/yungbote/moviegraph-backend/internal/domain/runs"
)

// Entities
type Movie = catalog.Movie
type Collection = catalog.Collection
type Company = catalog.Company
type Person = catalog.Person
type Genre = catalog.Genre
type Language = catalog.Language
type Country = catalog.Country
type Provider = catalog.Provider

// Relationships
type MovieGenre = catalog.MovieGenre
type MovieLanguage = catalog.MovieLanguage
type MovieCompany = catalog.MovieCompany
type MovieCountry = catalog.MovieCountry
type MovieProviderOffer = catalog.MovieProviderOffer
type MovieCast = catalog.MovieCast
type MovieCrew = catalog.MovieCrew

const (
	OfferTypeBuy          = catalog.OfferTypeBuy
	OfferTypeRent         = catalog.OfferTypeRent
	OfferTypeSubscription = catalog.OfferTypeSubscription
)

// Ratings
type IMDBRating = catalog.IMDBRating
type MetacriticRating = catalog.MetacriticRating
type RottenTomatoesRating = catalog.RottenTomatoesRating

// Runs
type IngestRun = runs.IngestRun

const (
	RunStatusRunning   = runs.RunStatusRunning
	RunStatusCompleted = runs.RunStatusCompleted
	RunStatusFailed    = runs.RunStatusFailed
)
