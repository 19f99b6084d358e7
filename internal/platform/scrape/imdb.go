package scrape

import (
	"encoding/json"

	"golang.org/x/net/html"
)

type IMDBRating struct {
	ImdbID    string
	Rating    float64
	VoteCount int64
}

// IMDb embeds an application/ld+json blob with the aggregate rating; that is
// far more stable than the rendered spans.
type imdbLinkedData struct {
	AggregateRating *struct {
		RatingValue float64 `json:"ratingValue"`
		RatingCount int64   `json:"ratingCount"`
	} `json:"aggregateRating"`
}

func ParseIMDBRating(imdbID string, markup []byte) (*IMDBRating, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	var out *IMDBRating
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "script" {
			return true
		}
		if attrVal(n, "type") != "application/ld+json" {
			return true
		}
		var ld imdbLinkedData
		if err := json.Unmarshal([]byte(textContent(n)), &ld); err != nil {
			return true
		}
		if ld.AggregateRating == nil || ld.AggregateRating.RatingValue == 0 {
			return true
		}
		out = &IMDBRating{
			ImdbID:    imdbID,
			Rating:    ld.AggregateRating.RatingValue,
			VoteCount: ld.AggregateRating.RatingCount,
		}
		return false
	})

	if out == nil {
		return nil, ErrMarkupMismatch
	}
	return out, nil
}
