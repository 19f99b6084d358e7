package scrape

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

type RottenTomatoesRating struct {
	RottenTomatoesID string
	TomatoMeter      int
	AudienceScore    int
}

type rtScorecard struct {
	CriticsScore struct {
		Score string `json:"score"`
	} `json:"criticsScore"`
	AudienceScore struct {
		Score string `json:"score"`
	} `json:"audienceScore"`
}

// ParseRottenTomatoesRating prefers the media-scorecard JSON island and falls
// back to the older score-board element attributes.
func ParseRottenTomatoesRating(rtID string, markup []byte) (*RottenTomatoesRating, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	out := &RottenTomatoesRating{RottenTomatoesID: rtID}
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "script":
			if attrVal(n, "id") != "media-scorecard-json" {
				return true
			}
			var sc rtScorecard
			if err := json.Unmarshal([]byte(textContent(n)), &sc); err != nil {
				return true
			}
			out.TomatoMeter = parseScore(sc.CriticsScore.Score)
			out.AudienceScore = parseScore(sc.AudienceScore.Score)
			return false
		case "score-board":
			out.TomatoMeter = parseScore(attrVal(n, "tomatometerscore"))
			out.AudienceScore = parseScore(attrVal(n, "audiencescore"))
			return false
		}
		return true
	})

	if out.TomatoMeter == 0 && out.AudienceScore == 0 {
		return nil, ErrMarkupMismatch
	}
	return out, nil
}

func parseScore(raw string) int {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 100 {
		return 0
	}
	return v
}
