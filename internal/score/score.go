// Package score computes decayed usage scores for branches from the switch
// log. Every switch contributes exp(-age/TimeConstantSeconds), so recent
// switches weigh close to 1 and old ones fade toward 0.
package score

import (
	"iter"
	"math"

	"github.com/runger/hop/internal/history"
)

// TimeConstantSeconds is the decay time constant (7 days). Weight falls by
// a factor of e, not 2, per time constant.
const TimeConstantSeconds = 7 * 24 * 60 * 60

// Star thresholds used for display.
const (
	ThreeStarMin = 3.0
	TwoStarMin   = 1.0
)

// Source yields switch events. *history.Store and history.Log implement it.
type Source interface {
	Events() iter.Seq[history.Event]
}

// Engine scores branches against a Source. It holds no cached state; every
// call rescans the source.
type Engine struct {
	src Source
}

// NewEngine creates an engine over src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Weight returns the contribution of one switch that happened age seconds
// ago. Future timestamps (negative age) count as age 0.
func Weight(age int64) float64 {
	if age < 0 {
		age = 0
	}
	return math.Exp(-float64(age) / TimeConstantSeconds)
}

// elapsed returns now - ts, saturating at math.MaxInt64 instead of
// overflowing. Future timestamps give 0.
func elapsed(now, ts int64) int64 {
	if ts >= now {
		return 0
	}
	if age := now - ts; age > 0 {
		return age
	}
	return math.MaxInt64
}

// Score sums the weights of every event for exactly branch at time now.
// Branches with no events score 0.
func (e *Engine) Score(branch string, now int64) float64 {
	var total float64
	for ev := range e.src.Events() {
		if ev.Branch == branch {
			total += Weight(elapsed(now, ev.Timestamp))
		}
	}
	return total
}

// ScoreAll scores every tracked branch in one pass.
func (e *Engine) ScoreAll(now int64) map[string]float64 {
	scores := make(map[string]float64)
	for ev := range e.src.Events() {
		scores[ev.Branch] += Weight(elapsed(now, ev.Timestamp))
	}
	return scores
}

// Stars maps a score to a 0-3 star rating.
func Stars(score float64) int {
	switch {
	case score >= ThreeStarMin:
		return 3
	case score >= TwoStarMin:
		return 2
	case score > 0:
		return 1
	default:
		return 0
	}
}
