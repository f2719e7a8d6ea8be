package picker

import (
	"context"
	"strings"

	"github.com/runger/hop/internal/rank"
	"github.com/runger/hop/internal/score"
)

// RankedProvider serves an already ranked candidate list, narrowing it by
// the picker query. Order is preserved, so the best match stays on top.
type RankedProvider struct {
	items []Item
}

var _ Provider = (*RankedProvider)(nil)

// NewRankedProvider wraps ranked. current marks the checked-out branch.
func NewRankedProvider(ranked []rank.Ranked, current string) *RankedProvider {
	items := make([]Item, len(ranked))
	for i, r := range ranked {
		items[i] = Item{
			Branch:  r.Branch,
			Score:   r.Score,
			Stars:   score.Stars(r.Score),
			Current: r.Branch == current,
		}
	}
	return &RankedProvider{items: items}
}

// Fetch returns the entries whose branch contains the query, ignoring case.
func (p *RankedProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	query := strings.ToLower(req.Query)
	var items []Item
	for _, it := range p.items {
		if query != "" && !strings.Contains(strings.ToLower(it.Branch), query) {
			continue
		}
		items = append(items, it)
		if req.Limit > 0 && len(items) >= req.Limit {
			break
		}
	}
	return Response{RequestID: req.RequestID, Items: items}, nil
}
