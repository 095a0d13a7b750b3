package service

import (
	"math/rand"

	"sciannotate/internal/model"
)

// Strategy names an assignment-selection policy
type Strategy string

const (
	// StrategySequential advances in pool order, falling back to a uniform
	// random pick among remaining questions when none are left ahead.
	StrategySequential Strategy = "sequential"

	// StrategyMinCount picks uniformly at random among the questions with the
	// lowest review count, load-balancing reviews across the pool.
	StrategyMinCount Strategy = "min-count"
)

// ParseStrategy maps a config string to a strategy, defaulting to min-count.
func ParseStrategy(s string) Strategy {
	if Strategy(s) == StrategySequential {
		return StrategySequential
	}
	return StrategyMinCount
}

// ParseCountSource maps a config string to a count source, defaulting to
// global.
func ParseCountSource(s string) model.CountSource {
	if model.CountSource(s) == model.CountLocal {
		return model.CountLocal
	}
	return model.CountGlobal
}

// Selector picks the next question to present from a session's pool.
type Selector struct {
	strategy  Strategy
	source    model.CountSource
	reviewCap int
	rng       *rand.Rand
}

// NewSelector creates a selector. The random source is injected so tie-break
// behavior is testable.
func NewSelector(strategy Strategy, source model.CountSource, reviewCap int, rng *rand.Rand) *Selector {
	if reviewCap <= 0 {
		reviewCap = model.DefaultReviewCap
	}
	return &Selector{strategy: strategy, source: source, reviewCap: reviewCap, rng: rng}
}

// Next returns the pool index of the next question to present, or -1 when the
// pool is exhausted. Questions completed this session or at the review cap are
// never returned. The current question is only re-picked when it is the sole
// remaining candidate, so a skip lands on a different question whenever one
// exists.
func (s *Selector) Next(state *model.SessionState) int {
	candidates := s.candidates(state)
	if len(candidates) == 0 {
		return -1
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	// More than one candidate: never re-present the current question.
	filtered := candidates[:0]
	for _, idx := range candidates {
		if idx != state.CurrentIndex {
			filtered = append(filtered, idx)
		}
	}
	candidates = filtered

	switch s.strategy {
	case StrategySequential:
		return s.nextSequential(state, candidates)
	default:
		return s.nextMinCount(state, candidates)
	}
}

// candidates lists pool indices still assignable: not completed this session
// and under the review cap counting this session's recordings.
func (s *Selector) candidates(state *model.SessionState) []int {
	var out []int
	for i := range state.Pool {
		id := state.Pool[i].ID
		if state.IsCompleted(id) {
			continue
		}
		if state.Count(id).Effective(model.CountGlobal) >= s.reviewCap {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (s *Selector) nextSequential(state *model.SessionState, candidates []int) int {
	for _, idx := range candidates {
		if idx > state.CurrentIndex {
			return idx
		}
	}
	// Nothing ahead in pool order; fall back to a uniform random pick.
	return candidates[s.rng.Intn(len(candidates))]
}

func (s *Selector) nextMinCount(state *model.SessionState, candidates []int) int {
	minCount := -1
	for _, idx := range candidates {
		count := state.Count(state.Pool[idx].ID).Effective(s.source)
		if minCount == -1 || count < minCount {
			minCount = count
		}
	}

	var tied []int
	for _, idx := range candidates {
		if state.Count(state.Pool[idx].ID).Effective(s.source) == minCount {
			tied = append(tied, idx)
		}
	}

	// Uniform random among tied candidates, never first-match.
	return tied[s.rng.Intn(len(tied))]
}
