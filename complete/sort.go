package complete

import (
	"slices"

	"github.com/teranos/rankd/proposal"
)

// Compare orders candidates for presentation; a negative result means a
// ranks before b. Higher relevance wins, then the lower kind tag, then the
// completion text compared character by character, where a text ranks
// before its own strict prefixes.
func Compare(a, b proposal.Candidate) int {
	if a.Relevance != b.Relevance {
		if a.Relevance > b.Relevance {
			return -1
		}
		return 1
	}
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	return compareText(a.Completion, b.Completion)
}

// compareText works on UTF-8 bytes; byte order equals code point order and
// prefixes are preserved, so this agrees with a per-character comparison.
func compareText(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	// Longer text first when one is a prefix of the other.
	switch {
	case len(a) > len(b):
		return -1
	case len(a) < len(b):
		return 1
	default:
		return 0
	}
}

// Sort orders candidates in place. Ties on the full key keep acceptance order.
func Sort(candidates []proposal.Candidate) {
	slices.SortStableFunc(candidates, Compare)
}

// Truncate returns how many of count candidates to keep under maxResults,
// and whether the kept prefix is the complete result.
func Truncate(count, maxResults int) (limit int, complete bool) {
	if maxResults <= 0 || count <= maxResults {
		return count, true
	}
	return maxResults, false
}
