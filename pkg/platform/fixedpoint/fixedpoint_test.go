package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatSub(t *testing.T) {
	t.Run("subtracts normally", func(t *testing.T) {
		assert.Equal(t, uint64(7), SatSub(10, 3))
	})

	t.Run("floors at zero instead of wrapping", func(t *testing.T) {
		assert.Equal(t, uint64(0), SatSub(3, 10))
		assert.Equal(t, uint64(0), SatSub(0, 1))
	})
}

func TestSatAdd(t *testing.T) {
	t.Run("adds normally", func(t *testing.T) {
		assert.Equal(t, uint64(13), SatAdd(10, 3))
	})

	t.Run("caps at max instead of wrapping", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxUint64), SatAdd(math.MaxUint64, 1))
		assert.Equal(t, uint64(math.MaxUint64), SatAdd(math.MaxUint64-2, 5))
	})
}

func TestMulDiv(t *testing.T) {
	t.Run("multiplies before dividing", func(t *testing.T) {
		// 1*100/3 = 33 floored; dividing first would lose everything.
		assert.Equal(t, uint64(33), MulDiv(1, 100, 3))
	})

	t.Run("floors the quotient", func(t *testing.T) {
		assert.Equal(t, uint64(66), MulDiv(2, 100, 3))
	})

	t.Run("survives products beyond 64 bits", func(t *testing.T) {
		// a*b overflows uint64 but the quotient fits.
		assert.Equal(t, uint64(math.MaxUint64/2), MulDiv(math.MaxUint64/2, 100, 100))
		assert.Equal(t, uint64(math.MaxUint64), MulDiv(math.MaxUint64, 100, 100))
	})

	t.Run("saturates when the quotient cannot fit", func(t *testing.T) {
		assert.Equal(t, uint64(math.MaxUint64), MulDiv(math.MaxUint64, 100, 1))
	})

	t.Run("zero numerator yields zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), MulDiv(0, 100, 7))
	})
}

func TestScalePercent(t *testing.T) {
	t.Run("full ratio is one hundred", func(t *testing.T) {
		assert.Equal(t, uint64(100), ScalePercent(5, 5))
	})

	t.Run("two of three floors to sixty-six", func(t *testing.T) {
		assert.Equal(t, uint64(66), ScalePercent(2, 3))
	})

	t.Run("zero part is zero", func(t *testing.T) {
		assert.Equal(t, uint64(0), ScalePercent(0, 4))
	})
}
