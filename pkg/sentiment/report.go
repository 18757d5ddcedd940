// Package sentiment builds the political-perspective prompt, runs it against
// a search-enabled model and extracts a Report from the reply.
package sentiment

import (
	"encoding/json"
	"fmt"
)

// Citation is one social-media post cited as evidence.
type Citation struct {
	Account string `json:"account" yaml:"account"`
	Text    string `json:"text" yaml:"text"`
	URL     string `json:"url" yaml:"url"`
}

// Perspective is the sentiment of one political group.
type Perspective struct {
	// Sentiment is expected in [-1, 1] but is not clamped.
	Sentiment float64    `json:"sentiment" yaml:"sentiment"`
	Summary   string     `json:"summary" yaml:"summary"`
	Tweets    []Citation `json:"tweets" yaml:"tweets"`
}

// MarshalJSON emits an empty list rather than null for missing tweets.
func (p Perspective) MarshalJSON() ([]byte, error) {
	type plain Perspective
	if p.Tweets == nil {
		p.Tweets = []Citation{}
	}
	return json.Marshal(plain(p))
}

// Report is the full left/center/right breakdown.
type Report struct {
	NonBiasedSummary string      `json:"nonBiasedSummary" yaml:"nonBiasedSummary"`
	Left             Perspective `json:"left" yaml:"left"`
	Center           Perspective `json:"center" yaml:"center"`
	Right            Perspective `json:"right" yaml:"right"`
}

// NewReport returns the all-defaults report.
func NewReport() Report {
	return Report{
		Left:   Perspective{Tweets: []Citation{}},
		Center: Perspective{Tweets: []Citation{}},
		Right:  Perspective{Tweets: []Citation{}},
	}
}

// Group names a political perspective.
type Group string

const (
	Left   Group = "Left"
	Center Group = "Center"
	Right  Group = "Right"
)

// Groups lists the perspectives in report order.
var Groups = []Group{Left, Center, Right}

// Perspective returns a pointer to the named perspective.
func (r *Report) Perspective(g Group) *Perspective {
	switch g {
	case Left:
		return &r.Left
	case Center:
		return &r.Center
	case Right:
		return &r.Right
	default:
		panic(fmt.Sprintf("sentiment: unknown group %q", string(g)))
	}
}
