package ingest

import (
	"strings"
	"time"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

// Normalization of raw catalog payloads into canonical rows. The feed uses
// empty strings and zeroes for "unknown"; canonical records use nil so
// downstream consumers never mistake a placeholder for a real value.

func NormalizeMovie(d *tmdb.MovieDetails) *types.Movie {
	m := &types.Movie{
		ID:          d.ID,
		ImdbID:      cleanString(d.ImdbID),
		Title:       strings.TrimSpace(d.Title),
		Overview:    cleanString(d.Overview),
		ReleaseDate: parseDate(d.ReleaseDate),
		Popularity:  cleanFloat(d.Popularity),
		VoteAverage: cleanFloat(d.VoteAverage),
		VoteCount:   cleanInt(d.VoteCount),
		Budget:      cleanInt(d.Budget),
		Revenue:     cleanInt(d.Revenue),
		Runtime:     cleanInt(d.Runtime),
	}
	if d.BelongsToCollection != nil && d.BelongsToCollection.ID != 0 {
		id := d.BelongsToCollection.ID
		m.CollectionID = &id
	}
	return m
}

func NormalizeCollection(c *tmdb.CollectionDetails) *types.Collection {
	return &types.Collection{
		ID:       c.ID,
		Name:     strings.TrimSpace(c.Name),
		Overview: cleanString(c.Overview),
	}
}

func NormalizeCompany(c *tmdb.CompanyDetails) *types.Company {
	company := &types.Company{
		ID:           c.ID,
		Name:         strings.TrimSpace(c.Name),
		Description:  cleanString(c.Description),
		CountryID:    cleanString(c.OriginCountry),
		Headquarters: cleanString(c.Headquarters),
	}
	if c.ParentCompany != nil && c.ParentCompany.ID != 0 {
		id := c.ParentCompany.ID
		company.ParentCompanyID = &id
	}
	return company
}

func NormalizePerson(p *tmdb.PersonDetails) *types.Person {
	return &types.Person{
		ID:           p.ID,
		ImdbID:       cleanString(p.ImdbID),
		Name:         strings.TrimSpace(p.Name),
		Gender:       GenderName(p.Gender),
		Biography:    cleanString(p.Biography),
		PlaceOfBirth: cleanString(p.PlaceOfBirth),
		Birthday:     parseDate(p.Birthday),
		Deathday:     parseDate(p.Deathday),
		Popularity:   cleanFloat(p.Popularity),
	}
}

// GenderName maps the feed's numeric gender code to the canonical label.
// Unknown codes collapse to "Not specified".
func GenderName(code int) string {
	switch code {
	case 1:
		return "Female"
	case 2:
		return "Male"
	case 3:
		return "Non-binary"
	default:
		return "Not specified"
	}
}

func GenreRows(refs []tmdb.GenreRef) []types.Genre {
	out := make([]types.Genre, 0, len(refs))
	for _, ref := range refs {
		if ref.ID == 0 || strings.TrimSpace(ref.Name) == "" {
			continue
		}
		out = append(out, types.Genre{ID: ref.ID, Name: strings.TrimSpace(ref.Name)})
	}
	return out
}

func LanguageRows(refs []tmdb.LanguageRef) []types.Language {
	out := make([]types.Language, 0, len(refs))
	for _, ref := range refs {
		code := strings.TrimSpace(ref.ISO6391)
		if code == "" {
			continue
		}
		name := strings.TrimSpace(ref.EnglishName)
		if name == "" {
			name = strings.TrimSpace(ref.Name)
		}
		out = append(out, types.Language{ID: code, Name: name})
	}
	return out
}

func CountryRows(refs []tmdb.CountryRef) []types.Country {
	out := make([]types.Country, 0, len(refs))
	for _, ref := range refs {
		code := strings.TrimSpace(ref.ISO31661)
		if code == "" {
			continue
		}
		out = append(out, types.Country{ID: code, Name: strings.TrimSpace(ref.Name)})
	}
	return out
}

// ProviderOffers flattens the per-country availability map into provider
// entities (deduplicated) and one offer row per (country, provider, type).
func ProviderOffers(movieID int64, wp *tmdb.WatchProviders) ([]types.Provider, []types.MovieProviderOffer) {
	if wp == nil {
		return nil, nil
	}
	seen := map[int64]bool{}
	var providers []types.Provider
	var offers []types.MovieProviderOffer

	collect := func(countryID, offerType string, refs []tmdb.ProviderRef) {
		for _, ref := range refs {
			if ref.ProviderID == 0 {
				continue
			}
			if !seen[ref.ProviderID] {
				seen[ref.ProviderID] = true
				providers = append(providers, types.Provider{
					ID:   ref.ProviderID,
					Name: strings.TrimSpace(ref.ProviderName),
				})
			}
			offers = append(offers, types.MovieProviderOffer{
				MovieID:    movieID,
				CountryID:  countryID,
				ProviderID: ref.ProviderID,
				OfferType:  offerType,
			})
		}
	}

	for countryID, cp := range wp.Results {
		countryID = strings.TrimSpace(countryID)
		if countryID == "" {
			continue
		}
		collect(countryID, types.OfferTypeBuy, cp.Buy)
		collect(countryID, types.OfferTypeRent, cp.Rent)
		collect(countryID, types.OfferTypeSubscription, cp.Flatrate)
	}
	return providers, offers
}

func CastRow(movieID int64, credit tmdb.CastCredit) types.MovieCast {
	return types.MovieCast{
		MovieID:   movieID,
		PersonID:  credit.ID,
		Character: strings.TrimSpace(credit.Character),
		CastOrder: credit.Order,
	}
}

func CrewRow(movieID int64, credit tmdb.CrewCredit) types.MovieCrew {
	return types.MovieCrew{
		MovieID:    movieID,
		PersonID:   credit.ID,
		Job:        strings.TrimSpace(credit.Job),
		Department: strings.TrimSpace(credit.Department),
	}
}

func cleanString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cleanInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func cleanFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
