package db

import (
	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Entities
		// =========================
		&types.Collection{},
		&types.Movie{},
		&types.Company{},
		&types.Person{},
		&types.Genre{},
		&types.Language{},
		&types.Country{},
		&types.Provider{},

		// =========================
		// Relationships
		// =========================
		&types.MovieGenre{},
		&types.MovieLanguage{},
		&types.MovieCompany{},
		&types.MovieCountry{},
		&types.MovieProviderOffer{},
		&types.MovieCast{},
		&types.MovieCrew{},

		// =========================
		// Third-party ratings
		// =========================
		&types.IMDBRating{},
		&types.MetacriticRating{},
		&types.RottenTomatoesRating{},

		// =========================
		// Batch bookkeeping
		// =========================
		&types.IngestRun{},
	)
}
