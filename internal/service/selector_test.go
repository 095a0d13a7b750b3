package service

import (
	"math/rand"
	"testing"

	"sciannotate/internal/model"

	"github.com/stretchr/testify/assert"
)

func poolOf(ids ...string) []model.Question {
	pool := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		pool = append(pool, model.Question{ID: id, Text: "question " + id})
	}
	return pool
}

func newTestState(ids ...string) *model.SessionState {
	return &model.SessionState{
		ID:           "test-session",
		Domain:       "knowledge-distillation",
		Phase:        model.PhasePresenting,
		Pool:         poolOf(ids...),
		GlobalCounts: make(map[string]int),
		CurrentIndex: -1,
		Completed:    make(map[string]bool),
		LocalCounts:  make(map[string]int),
	}
}

func TestSelectorMinCount(t *testing.T) {
	t.Run("picks the question with the lowest count", func(t *testing.T) {
		sel := NewSelector(StrategyMinCount, model.CountGlobal, 3, rand.New(rand.NewSource(1)))

		state := newTestState("q1", "q2", "q3")
		state.GlobalCounts = map[string]int{"q1": 0, "q2": 2, "q3": 3}

		// q3 sits at the cap and must never be assigned; q1 is the unique
		// minimum among the rest.
		idx := sel.Next(state)
		assert.Equal(t, 0, idx)
		assert.Equal(t, "q1", state.Pool[idx].ID)
	})

	t.Run("recording advances the effective count", func(t *testing.T) {
		sel := NewSelector(StrategyMinCount, model.CountGlobal, 3, rand.New(rand.NewSource(1)))

		state := newTestState("q1", "q2")
		state.GlobalCounts = map[string]int{"q1": 0, "q2": 2}
		state.CurrentIndex = 0
		state.RecordLocal("q1")

		// q1 now has effective count 1, still below q2's 2, but it was
		// recorded this session so only q2 remains.
		idx := sel.Next(state)
		assert.Equal(t, "q2", state.Pool[idx].ID)
	})

	t.Run("ties break uniformly at random", func(t *testing.T) {
		sel := NewSelector(StrategyMinCount, model.CountGlobal, 3, rand.New(rand.NewSource(42)))

		picked := make(map[string]int)
		for i := 0; i < 300; i++ {
			state := newTestState("q1", "q2", "q3")
			idx := sel.Next(state)
			picked[state.Pool[idx].ID]++
		}

		// All three are tied at zero; every one should be picked sometimes,
		// not just the first in pool order.
		assert.Len(t, picked, 3)
		for id, n := range picked {
			assert.Greater(t, n, 0, "question %s was never picked", id)
		}
	})

	t.Run("local count source ignores the global snapshot", func(t *testing.T) {
		sel := NewSelector(StrategyMinCount, model.CountLocal, 3, rand.New(rand.NewSource(1)))

		state := newTestState("q1", "q2")
		state.GlobalCounts = map[string]int{"q1": 2, "q2": 0}
		state.LocalCounts = map[string]int{"q2": 1}

		// Under the local source q1 has count 0 and wins despite its higher
		// global count.
		idx := sel.Next(state)
		assert.Equal(t, "q1", state.Pool[idx].ID)
	})
}

func TestSelectorSequential(t *testing.T) {
	sel := NewSelector(StrategySequential, model.CountGlobal, 3, rand.New(rand.NewSource(1)))

	t.Run("advances in pool order", func(t *testing.T) {
		state := newTestState("q1", "q2", "q3")
		state.CurrentIndex = 0
		assert.Equal(t, 1, sel.Next(state))

		state.CurrentIndex = 1
		assert.Equal(t, 2, sel.Next(state))
	})

	t.Run("falls back to a random remaining question when nothing is ahead", func(t *testing.T) {
		state := newTestState("q1", "q2", "q3")
		state.CurrentIndex = 2
		state.RecordLocal("q3")

		idx := sel.Next(state)
		assert.Contains(t, []int{0, 1}, idx)
	})

	t.Run("skips completed questions", func(t *testing.T) {
		state := newTestState("q1", "q2", "q3")
		state.CurrentIndex = 0
		state.RecordLocal("q2")

		assert.Equal(t, 2, sel.Next(state))
	})
}

func TestSelectorSkipSemantics(t *testing.T) {
	sel := NewSelector(StrategyMinCount, model.CountGlobal, 3, rand.New(rand.NewSource(7)))

	t.Run("never re-presents the current question while others remain", func(t *testing.T) {
		state := newTestState("q1", "q2", "q3")
		state.CurrentIndex = 1

		for i := 0; i < 100; i++ {
			idx := sel.Next(state)
			assert.NotEqual(t, 1, idx)
		}
	})

	t.Run("re-presents the sole remaining question", func(t *testing.T) {
		state := newTestState("q1", "q2", "q3")
		state.RecordLocal("q1")
		state.RecordLocal("q3")
		state.CurrentIndex = 1

		assert.Equal(t, 1, sel.Next(state))
	})
}

func TestSelectorExhaustion(t *testing.T) {
	sel := NewSelector(StrategyMinCount, model.CountGlobal, 3, rand.New(rand.NewSource(1)))

	t.Run("empty pool", func(t *testing.T) {
		state := newTestState()
		assert.Equal(t, -1, sel.Next(state))
	})

	t.Run("all completed", func(t *testing.T) {
		state := newTestState("q1", "q2")
		state.RecordLocal("q1")
		state.RecordLocal("q2")
		assert.Equal(t, -1, sel.Next(state))
	})

	t.Run("all at cap", func(t *testing.T) {
		state := newTestState("q1", "q2")
		state.GlobalCounts = map[string]int{"q1": 3, "q2": 5}
		assert.Equal(t, -1, sel.Next(state))
	})
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategySequential, ParseStrategy("sequential"))
	assert.Equal(t, StrategyMinCount, ParseStrategy("min-count"))
	assert.Equal(t, StrategyMinCount, ParseStrategy(""))

	assert.Equal(t, model.CountLocal, ParseCountSource("local"))
	assert.Equal(t, model.CountGlobal, ParseCountSource("global"))
	assert.Equal(t, model.CountGlobal, ParseCountSource("bogus"))
}
