package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensityField_Deterministic(t *testing.T) {
	a := NewDensityField(12345, DefaultParams())
	b := NewDensityField(12345, DefaultParams())

	for i := 0; i < 200; i++ {
		x, y, z := i*7+3, i*13-50, 91-i*5
		require.Equal(t, a.Sample(x, y, z), b.Sample(x, y, z), "шум не детерминирован в (%d,%d,%d)", x, y, z)
		require.Equal(t, a.Solid(x, y, z), b.Solid(x, y, z))
	}
}

func TestDensityField_SeedMatters(t *testing.T) {
	params := DefaultParams()
	params.Scale = 0.037
	a := NewDensityField(1, params)
	b := NewDensityField(2, params)

	differs := false
	for i := 0; i < 200 && !differs; i++ {
		x, y, z := i*7+3, i*13-50, 91-i*5
		differs = a.Sample(x, y, z) != b.Sample(x, y, z)
	}
	assert.True(t, differs, "разные сиды должны давать разные поля")
}

func TestDensityField_Threshold(t *testing.T) {
	params := DefaultParams()

	params.Threshold = 100
	allSolid := NewDensityField(7, params)
	params.Threshold = -100
	allEmpty := NewDensityField(7, params)

	for x := -4; x < 4; x++ {
		for z := -4; z < 4; z++ {
			assert.True(t, allSolid.Solid(x, 3, z))
			assert.False(t, allEmpty.Solid(x, 3, z))
		}
	}
}

func TestDensityField_Defaults(t *testing.T) {
	d := NewDensityField(9, Params{})
	p := d.Params()

	assert.Equal(t, DefaultScale, p.Scale)
	assert.Equal(t, DefaultAlpha, p.Alpha)
	assert.Equal(t, DefaultBeta, p.Beta)
	assert.Equal(t, int32(DefaultOctaves), p.Octaves)
	assert.Equal(t, int64(9), d.Seed())
}

func TestRandomSeed(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.NotZero(t, RandomSeed())
	}
}
