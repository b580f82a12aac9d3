package simrand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedProducesIdenticalSequence(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestUniformRangeStaysWithinBounds(t *testing.T) {
	s := New(1)
	for i := 0; i < 50; i++ {
		v := s.UniformRange(5, 10)
		assert.GreaterOrEqual(t, v, 5.0)
		assert.Less(t, v, 10.0)
	}
}

func TestUniformRangeDegenerateBoundsReturnsMin(t *testing.T) {
	s := New(1)
	assert.Equal(t, 5.0, s.UniformRange(5, 5))
	assert.Equal(t, 5.0, s.UniformRange(5, 4))
}

func TestIntRangeInclusiveBounds(t *testing.T) {
	s := New(1)
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		v := s.IntRange(1, 3)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 3, "should hit every value in a small inclusive range given enough draws")
}

func TestBernoulliAlwaysFalseAtZeroProbability(t *testing.T) {
	s := New(1)
	for i := 0; i < 20; i++ {
		assert.False(t, s.Bernoulli(0))
	}
}

func TestBernoulliAlwaysTrueAtProbabilityOne(t *testing.T) {
	s := New(1)
	for i := 0; i < 20; i++ {
		assert.True(t, s.Bernoulli(1))
	}
}

func TestWeightedIndexZeroTotalReturnsFirst(t *testing.T) {
	s := New(1)
	assert.Equal(t, 0, s.WeightedIndex([]float64{0, 0, 0}))
}

func TestWeightedIndexOnlyPicksNonZeroWeight(t *testing.T) {
	s := New(1)
	for i := 0; i < 20; i++ {
		assert.Equal(t, 1, s.WeightedIndex([]float64{0, 1, 0}))
	}
}
