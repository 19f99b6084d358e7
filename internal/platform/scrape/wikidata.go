package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// ExternalRefs are the rating-site identifiers extracted from a Wikidata
// entity page. Any field may be empty; a movie is not guaranteed to carry
// every identifier.
type ExternalRefs struct {
	WikidataID       string
	ImdbID           string
	MetacriticID     string
	RottenTomatoesID string
}

// ParseWikidataExternalRefs pulls rating-site ids out of the outbound links
// on a Wikidata entity page. The identifier statements render as anchors to
// the target sites, which survives restyling better than any class lookup.
func ParseWikidataExternalRefs(wikidataID string, markup []byte) (*ExternalRefs, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	refs := &ExternalRefs{WikidataID: wikidataID}
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "a" {
			return true
		}
		href := attrVal(n, "href")
		switch {
		case refs.ImdbID == "" && strings.Contains(href, "imdb.com/title/"):
			refs.ImdbID = trailingSegment(href, "imdb.com/title/")
		case refs.MetacriticID == "" && strings.Contains(href, "metacritic.com/"):
			refs.MetacriticID = trailingSegment(href, "metacritic.com/")
		case refs.RottenTomatoesID == "" && strings.Contains(href, "rottentomatoes.com/"):
			refs.RottenTomatoesID = trailingSegment(href, "rottentomatoes.com/")
		}
		return true
	})

	if refs.ImdbID == "" && refs.MetacriticID == "" && refs.RottenTomatoesID == "" {
		return nil, ErrMarkupMismatch
	}
	return refs, nil
}

func trailingSegment(href, marker string) string {
	idx := strings.Index(href, marker)
	if idx < 0 {
		return ""
	}
	seg := href[idx+len(marker):]
	seg = strings.TrimRight(seg, "/")
	if q := strings.IndexAny(seg, "?#"); q >= 0 {
		seg = seg[:q]
	}
	return seg
}
