// Package reviewtext isolates the parsing of the package manager's
// human-readable publish and status output. It is the only place that knows
// the text grammar, so format drift in the external tool stays contained here.
//
// Grammar:
//
//	review id     any "/pull/<digits>" path segment, first occurrence wins
//	number token  a run of digits that starts a word or follows "/" or "#",
//	              and ends the word ("1.0.0", "v=12" and "12:" are not)
//	status line   a line with the id as a number token, carrying
//	              Checks_Passed or Checks_Failed
package reviewtext

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/indexpub/pkg/errors"
	"github.com/arthur-debert/indexpub/pkg/types"
)

const (
	TokenChecksPassed = "Checks_Passed"
	TokenChecksFailed = "Checks_Failed"
)

var (
	pullPattern = regexp.MustCompile(`/pull/(\d+)`)
	urlPattern  = regexp.MustCompile(`https?://[^\s"'<>]*/pull/\d+`)
)

// ExtractID finds the review request id in publish output. The URL is
// returned when the id appears inside one.
func ExtractID(output string) (id string, url string, err error) {
	match := pullPattern.FindStringSubmatch(output)
	if match == nil {
		return "", "", errors.New(errors.ErrReviewRequestIDNotFound,
			"publish output does not reference a review request (no /pull/<id>)")
	}
	id = match[1]
	for _, candidate := range urlPattern.FindAllString(output, -1) {
		if strings.HasSuffix(candidate, "/pull/"+id) {
			url = candidate
			break
		}
	}
	return id, url, nil
}

// Classify reports the status of review id within a status query's output.
// Only lines carrying id as a number token are considered. A failure on
// any such line wins over a pass; anything else is pending.
func Classify(output, id string) types.ReviewStatus {
	if id == "" {
		return types.ReviewPending
	}

	passed := false
	for _, line := range strings.Split(output, "\n") {
		if !mentions(line, id) {
			continue
		}
		if strings.Contains(line, TokenChecksFailed) {
			return types.ReviewChecksFailed
		}
		if strings.Contains(line, TokenChecksPassed) {
			passed = true
		}
	}
	if passed {
		return types.ReviewChecksPassed
	}
	return types.ReviewPending
}

func mentions(line, id string) bool {
	for _, n := range numberTokens(line) {
		if n == id {
			return true
		}
	}
	return false
}

// numberTokens lists the number tokens of s in order
func numberTokens(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		tail := word[strings.LastIndexAny(word, "/#")+1:]
		if tail != "" && strings.Trim(tail, "0123456789") == "" {
			tokens = append(tokens, tail)
		}
	}
	return tokens
}

// StatusLine is one review request reported by a status query
type StatusLine struct {
	ID     string             `json:"id" yaml:"id"`
	Status types.ReviewStatus `json:"status" yaml:"status"`
	Raw    string             `json:"raw" yaml:"raw"`
}

// ParseStatusLines lists every review request mentioned in a status query.
// The id is the last number token before the status token, or the last one
// on the line when no token is present.
func ParseStatusLines(output string) []StatusLine {
	var lines []StatusLine
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		status := types.ReviewPending
		head := line
		if idx := strings.Index(line, TokenChecksFailed); idx >= 0 {
			status = types.ReviewChecksFailed
			head = line[:idx]
		} else if idx := strings.Index(line, TokenChecksPassed); idx >= 0 {
			status = types.ReviewChecksPassed
			head = line[:idx]
		}

		ids := numberTokens(head)
		if len(ids) == 0 {
			continue
		}
		lines = append(lines, StatusLine{
			ID:     ids[len(ids)-1],
			Status: status,
			Raw:    line,
		})
	}
	return lines
}
