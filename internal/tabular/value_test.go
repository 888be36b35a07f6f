package tabular

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCompare_BothNullish tests that two absent values are equal.
func TestCompare_BothNullish(t *testing.T) {
	assert.Equal(t, 0, Compare(nil, nil))

	var p *time.Time
	assert.Equal(t, 0, Compare(nil, p))
}

// TestCompare_NullishSortsLast tests that a nullish operand compares
// greater than any non-nullish value, independent of direction.
func TestCompare_NullishSortsLast(t *testing.T) {
	assert.Equal(t, 1, Compare(nil, "a"))
	assert.Equal(t, -1, Compare("a", nil))
	assert.Equal(t, 1, Compare(nil, 0))
	assert.Equal(t, -1, Compare(42, nil))

	var p *time.Time
	assert.Equal(t, 1, Compare(p, "x"))
}

// TestCompare_Strings tests locale-aware, case-insensitive comparison.
func TestCompare_Strings(t *testing.T) {
	assert.Negative(t, Compare("apple", "Banana"))
	assert.Positive(t, Compare("cherry", "APPLE"))
	assert.Equal(t, 0, Compare("Alpha", "alpha"))
}

// TestCompare_Numbers tests arithmetic comparison across numeric kinds.
func TestCompare_Numbers(t *testing.T) {
	assert.Equal(t, -1, Compare(1, 2))
	assert.Equal(t, 1, Compare(10, 2))
	assert.Equal(t, 0, Compare(7, 7))
	assert.Equal(t, -1, Compare(int64(3), 4.5))
	assert.Equal(t, 1, Compare(2.5, int32(2)))
}

// TestCompare_Times tests comparison of instants.
func TestCompare_Times(t *testing.T) {
	earlier := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, -1, Compare(earlier, later))
	assert.Equal(t, 1, Compare(later, earlier))
	assert.Equal(t, 0, Compare(earlier, earlier))
	assert.Equal(t, -1, Compare(&earlier, &later))
}

// TestCompare_MixedTypesFallBackToStrings tests the stringify fallback.
func TestCompare_MixedTypesFallBackToStrings(t *testing.T) {
	// "10" vs "9" compares as text, not arithmetic.
	assert.Negative(t, Compare("10", 9))
	assert.Equal(t, 0, Compare(true, "true"))
}

// TestIsNullish tests the nullish classification.
func TestIsNullish(t *testing.T) {
	assert.True(t, isNullish(nil))

	var p *int
	assert.True(t, isNullish(p))

	var m map[string]int
	assert.True(t, isNullish(m))

	assert.False(t, isNullish(""))
	assert.False(t, isNullish(0))
	assert.False(t, isNullish(false))
}
