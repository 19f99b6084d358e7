package scrape

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type MetacriticRating struct {
	MetacriticID string
	Metascore    int
	UserScore    float64
}

// ParseMetacriticRating reads the critic metascore and the user score from
// the review-score widgets. The first widget on the page is the title-level
// metascore; user scores render with a decimal point, which is how the two
// are told apart when class names shift.
func ParseMetacriticRating(metacriticID string, markup []byte) (*MetacriticRating, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	out := &MetacriticRating{MetacriticID: metacriticID}
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "span" {
			return true
		}
		if !classContains(n, "c-siteReviewScore") && !classContains(n, "metascore") {
			return true
		}
		txt := textContent(n)
		if strings.Contains(txt, ".") {
			if out.UserScore == 0 {
				if v, err := strconv.ParseFloat(txt, 64); err == nil && v > 0 && v <= 10 {
					out.UserScore = v
				}
			}
			return true
		}
		if out.Metascore == 0 {
			if v, err := strconv.Atoi(txt); err == nil && v > 0 && v <= 100 {
				out.Metascore = v
			}
		}
		return true
	})

	if out.Metascore == 0 && out.UserScore == 0 {
		return nil, ErrMarkupMismatch
	}
	return out, nil
}

func classContains(n *html.Node, fragment string) bool {
	return strings.Contains(attrVal(n, "class"), fragment)
}
