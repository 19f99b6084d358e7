package scrape

import (
	"errors"
	"testing"
)

func TestParseWikidataExternalRefs(t *testing.T) {
	markup := []byte(`<html><body>
		<a href="https://www.imdb.com/title/tt0133093/">tt0133093</a>
		<a href="https://www.metacritic.com/movie/the-matrix?ref=wd">the-matrix</a>
		<a href="https://www.rottentomatoes.com/m/matrix/">m/matrix</a>
	</body></html>`)

	refs, err := ParseWikidataExternalRefs("Q83495", markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if refs.WikidataID != "Q83495" {
		t.Fatalf("wikidata id = %q", refs.WikidataID)
	}
	if refs.ImdbID != "tt0133093" {
		t.Fatalf("imdb id = %q", refs.ImdbID)
	}
	if refs.MetacriticID != "movie/the-matrix" {
		t.Fatalf("metacritic id = %q", refs.MetacriticID)
	}
	if refs.RottenTomatoesID != "m/matrix" {
		t.Fatalf("rotten tomatoes id = %q", refs.RottenTomatoesID)
	}
}

func TestParseWikidataExternalRefsNoLinks(t *testing.T) {
	_, err := ParseWikidataExternalRefs("Q1", []byte(`<html><body><p>nothing here</p></body></html>`))
	if !errors.Is(err, ErrMarkupMismatch) {
		t.Fatalf("expected ErrMarkupMismatch, got %v", err)
	}
}

func TestParseIMDBRating(t *testing.T) {
	markup := []byte(`<html><head>
		<script type="application/ld+json">
			{"@type":"Movie","aggregateRating":{"ratingValue":8.7,"ratingCount":1900000}}
		</script>
	</head><body></body></html>`)

	rating, err := ParseIMDBRating("tt0133093", markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rating.Rating != 8.7 {
		t.Fatalf("rating = %v", rating.Rating)
	}
	if rating.VoteCount != 1900000 {
		t.Fatalf("vote count = %d", rating.VoteCount)
	}
}

func TestParseIMDBRatingMissingBlob(t *testing.T) {
	_, err := ParseIMDBRating("tt1", []byte(`<html><body><span>8.7</span></body></html>`))
	if !errors.Is(err, ErrMarkupMismatch) {
		t.Fatalf("expected ErrMarkupMismatch, got %v", err)
	}
}

func TestParseMetacriticRating(t *testing.T) {
	markup := []byte(`<html><body>
		<span class="c-siteReviewScore u-flexbox">73</span>
		<span class="c-siteReviewScore_user">7.8</span>
	</body></html>`)

	rating, err := ParseMetacriticRating("movie/the-matrix", markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rating.Metascore != 73 {
		t.Fatalf("metascore = %d", rating.Metascore)
	}
	if rating.UserScore != 7.8 {
		t.Fatalf("user score = %v", rating.UserScore)
	}
}

func TestParseRottenTomatoesScorecard(t *testing.T) {
	markup := []byte(`<html><body>
		<script id="media-scorecard-json" type="application/json">
			{"criticsScore":{"score":"83"},"audienceScore":{"score":"85"}}
		</script>
	</body></html>`)

	rating, err := ParseRottenTomatoesRating("m/matrix", markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rating.TomatoMeter != 83 {
		t.Fatalf("tomato meter = %d", rating.TomatoMeter)
	}
	if rating.AudienceScore != 85 {
		t.Fatalf("audience score = %d", rating.AudienceScore)
	}
}

func TestParseRottenTomatoesScoreBoardFallback(t *testing.T) {
	markup := []byte(`<html><body>
		<score-board tomatometerscore="88%" audiencescore="85"></score-board>
	</body></html>`)

	rating, err := ParseRottenTomatoesRating("m/matrix", markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rating.TomatoMeter != 88 {
		t.Fatalf("tomato meter = %d", rating.TomatoMeter)
	}
	if rating.AudienceScore != 85 {
		t.Fatalf("audience score = %d", rating.AudienceScore)
	}
}
