package timeclock

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// NameMatcher decides whether a roster name refers to the employee named
// on a punch.
type NameMatcher interface {
	Match(rosterName, punchName string) bool
}

const (
	MatcherSubstring = "substring"
	MatcherExact     = "exact"
	MatcherFuzzy     = "fuzzy"
)

// NewNameMatcher builds a matcher by strategy name. maxDistance only
// applies to the fuzzy strategy.
func NewNameMatcher(strategy string, maxDistance int) (NameMatcher, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", MatcherSubstring:
		return SubstringMatcher{}, nil
	case MatcherExact:
		return ExactMatcher{}, nil
	case MatcherFuzzy:
		if maxDistance < 0 {
			return nil, fmt.Errorf("fuzzy matcher distance must not be negative: %d", maxDistance)
		}
		return FuzzyMatcher{MaxDistance: maxDistance}, nil
	default:
		return nil, fmt.Errorf("unknown name matcher: %q", strategy)
	}
}

// SubstringMatcher matches when either folded name contains the other.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(rosterName, punchName string) bool {
	r, p := foldName(rosterName), foldName(punchName)
	if r == "" || p == "" {
		return false
	}
	return strings.Contains(r, p) || strings.Contains(p, r)
}

// ExactMatcher matches case-insensitively after collapsing whitespace.
type ExactMatcher struct{}

func (ExactMatcher) Match(rosterName, punchName string) bool {
	r, p := foldName(rosterName), foldName(punchName)
	return r != "" && r == p
}

// FuzzyMatcher matches names within MaxDistance edits of each other.
type FuzzyMatcher struct {
	MaxDistance int
}

func (m FuzzyMatcher) Match(rosterName, punchName string) bool {
	r, p := foldName(rosterName), foldName(punchName)
	if r == "" || p == "" {
		return false
	}
	return levenshtein([]rune(r), []rune(p)) <= m.MaxDistance
}

func foldName(s string) string {
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
