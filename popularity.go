package boardcrawl

import (
	"regexp"
	"strconv"
)

// HotPopularity is the score given to the board's "hot" marker. The board
// stops printing numbers once a post passes its display cap, so this value
// means "at least 100" rather than an exact count.
const HotPopularity = 100

// HotMarker is the token the board shows instead of a number for hot posts.
const HotMarker = "爆"

var (
	downvotedPattern = regexp.MustCompile(`^X([0-9]+)$`)
	countPattern     = regexp.MustCompile(`^[0-9]+$`)
)

// EncodePopularity maps a raw popularity token from a listing page to a
// signed score. "爆" is HotPopularity, "X<n>" is -n, a plain number is
// itself, and anything else (including numbers too large for an int) is 0.
func EncodePopularity(token string) int {
	if token == HotMarker {
		return HotPopularity
	}

	if m := downvotedPattern.FindStringSubmatch(token); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		return -n
	}

	if countPattern.MatchString(token) {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0
		}
		return n
	}

	return 0
}
