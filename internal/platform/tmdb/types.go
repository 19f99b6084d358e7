package tmdb

// Raw payload shapes as the catalog API returns them. Normalization into
// canonical records happens in the ingest layer, not here.

type DiscoverResult struct {
	ID int64 `json:"id"`
}

type DiscoverPage struct {
	Page         int              `json:"page"`
	Results      []DiscoverResult `json:"results"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
}

type CollectionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GenreRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type LanguageRef struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

type CountryRef struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

type CompanyRef struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

type CastCredit struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Gender    int    `json:"gender"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type CrewCredit struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Gender     int    `json:"gender"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Credits struct {
	Cast []CastCredit `json:"cast"`
	Crew []CrewCredit `json:"crew"`
}

type ProviderRef struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
}

type CountryProviders struct {
	Buy      []ProviderRef `json:"buy"`
	Rent     []ProviderRef `json:"rent"`
	Flatrate []ProviderRef `json:"flatrate"`
}

type WatchProviders struct {
	Results map[string]CountryProviders `json:"results"`
}

type ExternalIDs struct {
	ImdbID     string `json:"imdb_id"`
	WikidataID string `json:"wikidata_id"`
}

type MovieDetails struct {
	ID                  int64           `json:"id"`
	ImdbID              string          `json:"imdb_id"`
	Title               string          `json:"title"`
	Overview            string          `json:"overview"`
	ReleaseDate         string          `json:"release_date"`
	Popularity          float64         `json:"popularity"`
	VoteAverage         float64         `json:"vote_average"`
	VoteCount           int64           `json:"vote_count"`
	Budget              int64           `json:"budget"`
	Revenue             int64           `json:"revenue"`
	Runtime             int64           `json:"runtime"`
	BelongsToCollection *CollectionRef  `json:"belongs_to_collection"`
	Genres              []GenreRef      `json:"genres"`
	SpokenLanguages     []LanguageRef   `json:"spoken_languages"`
	ProductionCompanies []CompanyRef    `json:"production_companies"`
	ProductionCountries []CountryRef    `json:"production_countries"`
	Credits             Credits         `json:"credits"`
	WatchProviders      *WatchProviders `json:"watch/providers"`
	ExternalIDs         *ExternalIDs    `json:"external_ids"`
}

type CollectionDetails struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

type ParentCompanyRef struct {
	ID int64 `json:"id"`
}

type CompanyDetails struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Headquarters  string            `json:"headquarters"`
	OriginCountry string            `json:"origin_country"`
	ParentCompany *ParentCompanyRef `json:"parent_company"`
}

type PersonDetails struct {
	ID           int64   `json:"id"`
	ImdbID       string  `json:"imdb_id"`
	Name         string  `json:"name"`
	Gender       int     `json:"gender"`
	Biography    string  `json:"biography"`
	PlaceOfBirth string  `json:"place_of_birth"`
	Birthday     string  `json:"birthday"`
	Deathday     string  `json:"deathday"`
	Popularity   float64 `json:"popularity"`
}
