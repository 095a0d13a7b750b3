package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainBySlug(t *testing.T) {
	t.Run("by slug", func(t *testing.T) {
		d := DomainBySlug("knowledge-distillation")
		require.NotNil(t, d)
		assert.Equal(t, "Knowledge Distillation", d.Name)
		assert.Equal(t, DomainRating, d.Kind)
		assert.Equal(t, 5, d.ScaleMax)
	})

	t.Run("by display name", func(t *testing.T) {
		d := DomainBySlug("Response Preference")
		require.NotNil(t, d)
		assert.Equal(t, DomainPreference, d.Kind)
		assert.Equal(t, 7, d.ScaleMax)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Nil(t, DomainBySlug("astrology"))
	})

	t.Run("returns a copy", func(t *testing.T) {
		d := DomainBySlug("knowledge-distillation")
		d.ReviewCap = 99
		assert.Equal(t, DefaultReviewCap, DomainBySlug("knowledge-distillation").ReviewCap)
	})
}

func TestRatingValidate(t *testing.T) {
	d := DomainBySlug("knowledge-distillation")

	t.Run("overall is required", func(t *testing.T) {
		assert.Error(t, Rating{}.Validate(d))
		assert.Error(t, Rating{"overall": 0}.Validate(d))
		assert.NoError(t, Rating{"overall": 3}.Validate(d))
	})

	t.Run("scores stay on the scale", func(t *testing.T) {
		assert.Error(t, Rating{"overall": 6}.Validate(d))
		assert.Error(t, Rating{"overall": 3, "accuracy": -1}.Validate(d))
		assert.NoError(t, Rating{"overall": 5, "accuracy": 1}.Validate(d))
	})

	t.Run("preference scale reaches seven", func(t *testing.T) {
		p := DomainBySlug("response-preference")
		assert.NoError(t, Rating{"overall": 7}.Validate(p))
		assert.Error(t, Rating{"overall": 8}.Validate(p))
	})
}

func TestSessionStateCounters(t *testing.T) {
	state := &SessionState{
		GlobalCounts: map[string]int{"q1": 2},
	}

	state.RecordLocal("q1")
	state.RecordLocal("q2")

	assert.True(t, state.IsCompleted("q1"))
	assert.False(t, state.IsCompleted("q3"))

	assert.Equal(t, 3, state.Count("q1").Effective(CountGlobal))
	assert.Equal(t, 1, state.Count("q1").Effective(CountLocal))
	assert.Equal(t, 1, state.Count("q2").Effective(CountGlobal))
	assert.Equal(t, 0, state.Count("q3").Effective(CountGlobal))
}
