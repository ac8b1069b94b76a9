package rank

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// ParseScores extracts per-article scores from a model reply for a batch of
// n articles. The reply is treated line by line: a line is expected to look
// like "Article 3: 8", where the numeral after "Article" is the 1-based
// index and the first run of digits after the colon is the score. Only
// scores in [1,10] are accepted.
//
// Model output is not contractually well-formed: every malformed line
// (missing colon, non-numeric index, index out of range, no digits,
// out-of-range score) is skipped silently and the matching slot stays nil.
func ParseScores(reply string, n int) []*int {
	scores := make([]*int, n)

	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		label, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		idxText := strings.TrimSpace(strings.ReplaceAll(label, "Article", ""))
		idx, err := strconv.Atoi(idxText)
		if err != nil {
			continue
		}
		idx-- // 1-based label
		if idx < 0 || idx >= n {
			continue
		}

		digits := digitRun.FindString(rest)
		if digits == "" {
			continue
		}
		score, err := strconv.Atoi(digits)
		if err != nil || score < 1 || score > 10 {
			continue
		}

		s := score
		scores[idx] = &s
	}

	return scores
}
