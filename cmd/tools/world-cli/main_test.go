package main

import (
	"bytes"
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/annel0/voxel-world/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVec3(t *testing.T) {
	v, err := parseVec3(" 1.5, -2,3 ")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1.5, -2, 3}, v)

	_, err = parseVec3("1,2")
	assert.Error(t, err)
	_, err = parseVec3("1,x,2")
	assert.Error(t, err)
}

func TestWriteOBJ(t *testing.T) {
	voxels := make([]block.BlockID, 1)
	voxels[0] = block.StoneBlockID
	mesh := world.BuildMesh(world.NewChunk(vec.Vec3{}, 1, voxels))

	var buf bytes.Buffer
	require.NoError(t, writeOBJ(&buf, mesh))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var vs, vns, fs int
	for _, l := range lines {
		switch {
		case bytes.HasPrefix(l, []byte("v ")):
			vs++
		case bytes.HasPrefix(l, []byte("vn ")):
			vns++
		case bytes.HasPrefix(l, []byte("f ")):
			fs++
		}
	}
	assert.Equal(t, 24, vs)
	assert.Equal(t, 24, vns)
	assert.Equal(t, 12, fs)
	assert.Contains(t, buf.String(), "f 3//3 1//1 2//2")
}
