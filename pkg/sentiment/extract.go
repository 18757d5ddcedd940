package sentiment

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	headingMarker   = "###"
	tweetsMarker    = "**Example Tweets:**"
	rationaleMarker = "**Example Tweets"
)

var (
	summaryHeadingRE = regexp.MustCompile(`### Non-Biased Review[^\n]*\n`)

	// Numbered entry with the three labels on their own lines. The link runs
	// to the next whitespace; <url> and [url](url) wrappers are removed by
	// cleanLink.
	citationRE = regexp.MustCompile(`\d+\.\s+\*\*Account:\*\*\s*([^\n]+)\s+\*\*Tweet Text:\*\*\s*([^\n]+)\s+\*\*Link:\*\*\s*([<\[]?https?://\S+)`)

	// Leading number of a score line, so trailing punctuation or notes such
	// as "-0.3." or "0.4 (mixed)" still parse.
	scoreRE = regexp.MustCompile(`^[-+]?(?:\d+(?:\.\d*)?|\.\d+)`)

	stanceREs  = map[Group]*regexp.Regexp{}
	headingREs = map[Group]*regexp.Regexp{}
)

func init() {
	for _, g := range Groups {
		name := regexp.QuoteMeta(string(g))
		stanceREs[g] = regexp.MustCompile(`### ` + name + `\b[^\n]*\n\s*\*\*Score:\*\*[ \t]*([^\n]*)\n`)
		headingREs[g] = regexp.MustCompile(`### ` + name + `\b`)
	}
}

// Extract parses a Markdown reply into a Report. Each field is located
// independently; anything not found keeps its default. Extract never fails.
//
// When a heading appears more than once the first occurrence is used.
func Extract(content string) Report {
	r := NewReport()
	r.NonBiasedSummary = extractSummary(content)

	for _, g := range Groups {
		p := r.Perspective(g)
		if score, summary, ok := extractStance(content, g); ok {
			p.Sentiment = score
			p.Summary = summary
		}
		p.Tweets = extractCitations(content, g)
	}

	return r
}

// extractSummary returns the text under the non-biased review heading, up to
// the next heading or end of text.
func extractSummary(content string) string {
	loc := summaryHeadingRE.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(untilHeading(content[loc[1]:]))
}

// extractStance returns the score and rationale for g. The rationale runs
// from the line after the score up to the example-tweets marker; without the
// marker nothing is extracted. A score line that does not start with a number
// yields 0.
func extractStance(content string, g Group) (float64, string, bool) {
	m := stanceREs[g].FindStringSubmatchIndex(content)
	if m == nil {
		return 0, "", false
	}

	rest := content[m[1]:]
	end := strings.Index(rest, rationaleMarker)
	if end < 0 {
		return 0, "", false
	}

	return parseScore(content[m[2]:m[3]]), strings.TrimSpace(rest[:end]), true
}

func parseScore(line string) float64 {
	num := scoreRE.FindString(strings.TrimSpace(line))
	if num == "" {
		return 0
	}
	score, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return score
}

// extractCitations returns every well-formed numbered citation listed after
// the example-tweets marker within g's section. Entries missing a label are
// skipped without affecting their neighbours.
func extractCitations(content string, g Group) []Citation {
	citations := []Citation{}

	loc := headingREs[g].FindStringIndex(content)
	if loc == nil {
		return citations
	}

	section := untilHeading(content[loc[1]:])
	start := strings.Index(section, tweetsMarker)
	if start < 0 {
		return citations
	}

	for _, m := range citationRE.FindAllStringSubmatch(section[start+len(tweetsMarker):], -1) {
		citations = append(citations, Citation{
			Account: strings.TrimSpace(m[1]),
			Text:    strings.TrimSpace(m[2]),
			URL:     cleanLink(m[3]),
		})
	}
	return citations
}

// cleanLink unwraps <url> and [url](url) and drops trailing sentence
// punctuation. Parentheses inside a bare URL are kept.
func cleanLink(s string) string {
	switch {
	case strings.HasPrefix(s, "<"):
		s = strings.TrimPrefix(s, "<")
		if i := strings.IndexByte(s, '>'); i >= 0 {
			s = s[:i]
		}
	case strings.HasPrefix(s, "["):
		s = strings.TrimPrefix(s, "[")
		if i := strings.IndexByte(s, ']'); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimRight(s, ".,;")
}

// untilHeading cuts s at the first heading marker.
func untilHeading(s string) string {
	if i := strings.Index(s, headingMarker); i >= 0 {
		return s[:i]
	}
	return s
}
