package sentiment

import (
	"encoding/json"
	"strings"
)

// Parse accepts either a JSON object shaped like Report (optionally wrapped
// in a code fence, with or without prose around it) or the Markdown layout
// understood by Extract.
func Parse(content string) Report {
	if r, ok := decodeReport(content); ok {
		return r
	}
	return Extract(content)
}

func decodeReport(content string) (Report, bool) {
	s := jsonObject(stripCodeFence(content))
	if s == "" {
		return Report{}, false
	}

	r := NewReport()
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Report{}, false
	}

	for _, g := range Groups {
		p := r.Perspective(g)
		p.Tweets = completeCitations(p.Tweets)
	}
	r.NonBiasedSummary = strings.TrimSpace(r.NonBiasedSummary)
	return r, true
}

// completeCitations drops entries missing a field or carrying a non-http URL,
// matching what Extract would have accepted.
func completeCitations(in []Citation) []Citation {
	out := make([]Citation, 0, len(in))
	for _, c := range in {
		c.Account = strings.TrimSpace(c.Account)
		c.Text = strings.TrimSpace(c.Text)
		c.URL = strings.TrimSpace(c.URL)
		if c.Account == "" || c.Text == "" {
			continue
		}
		if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
			continue
		}
		out = append(out, c)
	}
	return out
}

// jsonObject returns the span from the first '{' to the last '}', which
// drops any prose and fence markers around the object.
func jsonObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// stripCodeFence removes a ```json ... ``` wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	default:
		return s
	}

	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
