package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MarkerPrefix is the literal branch-name prefix for review rounds:
// "version1", "version2", ... with no separator before the number.
const MarkerPrefix = "version"

// ErrNoRounds is returned when an operation requires an existing review
// round but the package has no version markers yet.
var ErrNoRounds = errors.New("no review rounds exist for this package")

// ParseMarker extracts the round number from a branch/tag marker.
// Remote-tracking prefixes like "origin/" are stripped first.
// Returns 0 and false for anything that is not version<N> with N >= 1.
func ParseMarker(marker string) (int, bool) {
	if i := strings.LastIndex(marker, "/"); i >= 0 {
		marker = marker[i+1:]
	}
	if !strings.HasPrefix(marker, MarkerPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(marker[len(MarkerPrefix):])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CurrentRound returns the highest round number found among the given
// markers, or 0 if none are well-formed version markers. Gaps in the
// numbering are tolerated; the maximum is authoritative.
func CurrentRound(markers []string) int {
	max := 0
	for _, m := range markers {
		if n, ok := ParseMarker(m); ok && n > max {
			max = n
		}
	}
	return max
}

// RequireCurrentRound is CurrentRound for contexts that presuppose an
// existing review (revise, accept). Returns ErrNoRounds when no marker
// exists.
func RequireCurrentRound(markers []string) (int, error) {
	r := CurrentRound(markers)
	if r == 0 {
		return 0, ErrNoRounds
	}
	return r, nil
}

// NextRound returns the round number the next revision would get.
func NextRound(current int) int {
	return current + 1
}

// Marker returns the branch name for a round, e.g. Marker(2) == "version2".
func Marker(round int) string {
	return fmt.Sprintf("%s%d", MarkerPrefix, round)
}
