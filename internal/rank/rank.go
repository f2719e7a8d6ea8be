// Package rank orders candidate branches by score and decides which one, if
// any, a query selects. It performs no I/O; see Prompt for the interactive
// adapter.
package rank

import (
	"cmp"
	"slices"
)

// MaxResults is the number of ranked entries kept.
const MaxResults = 20

// Ranked is a candidate with its score.
type Ranked struct {
	Branch string
	Score  float64
}

// ScoreFunc scores a branch at a point in time.
type ScoreFunc func(branch string, now int64) float64

// Rank scores candidates and sorts them highest first, keeping the
// candidates' relative order on ties. The result holds at most MaxResults
// entries.
func Rank(candidates []string, score ScoreFunc, now int64) []Ranked {
	return RankN(candidates, score, now, MaxResults)
}

// RankN is Rank with an explicit limit; limit <= 0 means MaxResults.
func RankN(candidates []string, score ScoreFunc, now int64, limit int) []Ranked {
	if len(candidates) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = MaxResults
	}

	ranked := make([]Ranked, len(candidates))
	for i, name := range candidates {
		ranked[i] = Ranked{Branch: name, Score: score(name, now)}
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Branches returns the branch names of ranked, in order.
func Branches(ranked []Ranked) []string {
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Branch
	}
	return names
}

// Kind describes the outcome of Select.
type Kind int

const (
	// KindNone means there were no candidates.
	KindNone Kind = iota
	// KindSingle means exactly one candidate matched.
	KindSingle
	// KindListOnly means several matched and the caller only wants a list.
	KindListOnly
	// KindMostUsed means several matched and the top one was picked.
	KindMostUsed
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSingle:
		return "single"
	case KindListOnly:
		return "list-only"
	case KindMostUsed:
		return "most-used"
	default:
		return "unknown"
	}
}

// Selection is the result of applying the selection policy.
type Selection struct {
	Kind   Kind
	Branch string // Empty for KindNone and KindListOnly
	Count  int    // Number of ranked entries considered
}

// Select applies the selection policy to an already ranked list. A single
// candidate is always KindSingle, even when listOnly is set; callers that
// must never switch check their own list-only flag first.
func Select(ranked []Ranked, listOnly bool) Selection {
	switch {
	case len(ranked) == 0:
		return Selection{Kind: KindNone}
	case len(ranked) == 1:
		return Selection{Kind: KindSingle, Branch: ranked[0].Branch, Count: 1}
	case listOnly:
		return Selection{Kind: KindListOnly, Count: len(ranked)}
	default:
		return Selection{Kind: KindMostUsed, Branch: ranked[0].Branch, Count: len(ranked)}
	}
}
