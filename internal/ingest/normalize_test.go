package ingest

import (
	"testing"

	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

func TestNormalizeMovieZeroMeansUnknown(t *testing.T) {
	details := &tmdb.MovieDetails{
		ID:     1,
		Title:  "Zero Budget",
		Budget: 0,
	}
	movie := NormalizeMovie(details)
	if movie.Budget != nil {
		t.Fatalf("zero budget normalized to %v, want nil", *movie.Budget)
	}

	details.Budget = 1
	movie = NormalizeMovie(details)
	if movie.Budget == nil || *movie.Budget != 1 {
		t.Fatalf("one-unit budget lost: %v", movie.Budget)
	}
}

func TestNormalizeMovieEmptyStringsBecomeNil(t *testing.T) {
	movie := NormalizeMovie(&tmdb.MovieDetails{
		ID:          2,
		Title:       "  Sparse  ",
		Overview:    "   ",
		ImdbID:      "",
		ReleaseDate: "",
	})
	if movie.Title != "Sparse" {
		t.Fatalf("title = %q", movie.Title)
	}
	if movie.Overview != nil {
		t.Fatalf("overview = %v", *movie.Overview)
	}
	if movie.ImdbID != nil {
		t.Fatalf("imdb id = %v", *movie.ImdbID)
	}
	if movie.ReleaseDate != nil {
		t.Fatalf("release date = %v", movie.ReleaseDate)
	}
}

func TestNormalizeMovieBadDateDropped(t *testing.T) {
	movie := NormalizeMovie(&tmdb.MovieDetails{ID: 3, Title: "x", ReleaseDate: "not-a-date"})
	if movie.ReleaseDate != nil {
		t.Fatalf("release date = %v", movie.ReleaseDate)
	}
}

func TestGenderName(t *testing.T) {
	cases := map[int]string{
		0:  "Not specified",
		1:  "Female",
		2:  "Male",
		3:  "Non-binary",
		99: "Not specified",
	}
	for code, want := range cases {
		if got := GenderName(code); got != want {
			t.Fatalf("GenderName(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestLanguageRowsPreferEnglishName(t *testing.T) {
	rows := LanguageRows([]tmdb.LanguageRef{
		{ISO6391: "en", EnglishName: "English", Name: "English"},
		{ISO6391: "fr", EnglishName: "", Name: "Français"},
		{ISO6391: "", EnglishName: "Phantom"},
	})
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[1].Name != "Français" {
		t.Fatalf("fallback name = %q", rows[1].Name)
	}
}

func TestProviderOffersFlattening(t *testing.T) {
	providers, offers := ProviderOffers(20, &tmdb.WatchProviders{
		Results: map[string]tmdb.CountryProviders{
			"US": {
				Buy:      []tmdb.ProviderRef{{ProviderID: 2, ProviderName: "BuyHub"}},
				Flatrate: []tmdb.ProviderRef{{ProviderID: 8, ProviderName: "Streamflix"}},
			},
			"DE": {
				Rent: []tmdb.ProviderRef{{ProviderID: 2, ProviderName: "BuyHub"}},
			},
		},
	})

	if len(providers) != 2 {
		t.Fatalf("providers = %d", len(providers))
	}
	if len(offers) != 3 {
		t.Fatalf("offers = %d", len(offers))
	}
	types := map[string]bool{}
	for _, offer := range offers {
		types[offer.CountryID+"/"+offer.OfferType] = true
		if offer.MovieID != 20 {
			t.Fatalf("offer movie id = %d", offer.MovieID)
		}
	}
	for _, want := range []string{"US/buy", "US/subscription", "DE/rent"} {
		if !types[want] {
			t.Fatalf("missing offer %s in %v", want, types)
		}
	}
}

func TestProviderOffersNilPayload(t *testing.T) {
	providers, offers := ProviderOffers(1, nil)
	if providers != nil || offers != nil {
		t.Fatalf("expected empty results")
	}
}

func TestNormalizeCompanyParent(t *testing.T) {
	company := NormalizeCompany(&tmdb.CompanyDetails{
		ID: 2, Name: "Child", OriginCountry: "US",
		ParentCompany: &tmdb.ParentCompanyRef{ID: 5},
	})
	if company.ParentCompanyID == nil || *company.ParentCompanyID != 5 {
		t.Fatalf("parent = %v", company.ParentCompanyID)
	}
	if company.CountryID == nil || *company.CountryID != "US" {
		t.Fatalf("country = %v", company.CountryID)
	}

	orphan := NormalizeCompany(&tmdb.CompanyDetails{ID: 3, Name: "Indie", OriginCountry: ""})
	if orphan.ParentCompanyID != nil || orphan.CountryID != nil {
		t.Fatalf("orphan carries parent or country")
	}
}

func TestNormalizePersonDates(t *testing.T) {
	person := NormalizePerson(&tmdb.PersonDetails{
		ID: 1, Name: "Someone", Gender: 1, Birthday: "1970-05-01", Deathday: "",
	})
	if person.Birthday == nil || person.Birthday.Year() != 1970 {
		t.Fatalf("birthday = %v", person.Birthday)
	}
	if person.Deathday != nil {
		t.Fatalf("deathday = %v", person.Deathday)
	}
	if person.Gender != "Female" {
		t.Fatalf("gender = %q", person.Gender)
	}
}
