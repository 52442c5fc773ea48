package world

import (
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestToChunkCoord(t *testing.T) {
	cases := []struct {
		pos  mgl32.Vec3
		want vec.Vec3
	}{
		{mgl32.Vec3{0, 0, 0}, vec.New(0, 0, 0)},
		{mgl32.Vec3{15.9, 0.5, 1}, vec.New(0, 0, 0)},
		{mgl32.Vec3{16, 32, 47.99}, vec.New(1, 2, 2)},
		// Отрицательные позиции округляются вниз
		{mgl32.Vec3{-0.1, -16, -16.1}, vec.New(-1, -1, -2)},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ToChunkCoord(c.pos, 16), "позиция %v", c.pos)
	}
}

func TestToWorldOrigin(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{-16, 32, 0}, ToWorldOrigin(vec.New(-1, 2, 0), 16))

	// Начало чанка принадлежит самому чанку
	c := vec.New(-3, 4, -1)
	assert.Equal(t, c, ToChunkCoord(ToWorldOrigin(c, 8), 8))
}

func TestVoxelWorldPos(t *testing.T) {
	got := VoxelWorldPos(vec.New(-1, 0, 2), LocalPos{X: 15, Y: 1, Z: 0}, 16)
	assert.Equal(t, vec.New(-1, 1, 32), got)
}

func TestChunkBounds(t *testing.T) {
	b := ChunkBounds(vec.New(0, 0, 0), 16)
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, b.Min)
	assert.Equal(t, mgl32.Vec3{15.5, 15.5, 15.5}, b.Max)

	b = ChunkBounds(vec.New(-1, 1, 0), 16)
	assert.Equal(t, mgl32.Vec3{-16.5, 15.5, -0.5}, b.Min)
	assert.Equal(t, mgl32.Vec3{-0.5, 31.5, 15.5}, b.Max)
}

func TestValidateChunkWidth(t *testing.T) {
	assert.NoError(t, ValidateChunkWidth(1))
	assert.NoError(t, ValidateChunkWidth(16))
	assert.NoError(t, ValidateChunkWidth(MaxChunkWidth))

	assert.ErrorIs(t, ValidateChunkWidth(0), ErrInvalidChunkWidth)
	assert.ErrorIs(t, ValidateChunkWidth(-4), ErrInvalidChunkWidth)
	assert.ErrorIs(t, ValidateChunkWidth(MaxChunkWidth+1), ErrInvalidChunkWidth)
}
