package world

import (
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// newEmptyChunk создаёт чанк, целиком заполненный воздухом
func newEmptyChunk(coords vec.Vec3, width int) *Chunk {
	return NewChunk(coords, width, make([]block.BlockID, ChunkVolume(width)))
}

func TestLocalIndexRoundTrip(t *testing.T) {
	const width = 16

	for i := 0; i < ChunkVolume(width); i++ {
		p := LocalPosition(i, width)
		if got := LocalIndex(p, width); got != i {
			t.Fatalf("Индекс %d: позиция %+v даёт индекс %d", i, p, got)
		}
	}

	// z*W*W + y*W + x
	p := LocalPos{X: 3, Y: 2, Z: 1}
	if got := LocalIndex(p, width); got != 1*256+2*16+3 {
		t.Errorf("Ожидался индекс %d, получен %d", 1*256+2*16+3, got)
	}
}

func TestChunkCreateAndGetVoxel(t *testing.T) {
	coords := vec.New(5, -10, 2)
	voxels := make([]block.BlockID, ChunkVolume(4))
	voxels[LocalIndex(LocalPos{X: 1, Y: 2, Z: 3}, 4)] = block.StoneBlockID

	chunk := NewChunk(coords, 4, voxels)

	if chunk.Coords() != coords {
		t.Errorf("Ожидались координаты %v, получено %v", coords, chunk.Coords())
	}
	if chunk.Len() != 64 {
		t.Errorf("Ожидалось 64 вокселя, получено %d", chunk.Len())
	}
	if chunk.Voxel(LocalPos{X: 1, Y: 2, Z: 3}) != block.StoneBlockID {
		t.Error("Ожидался StoneBlockID в позиции (1,2,3)")
	}
	if chunk.Voxel(LocalPos{}) != block.AirBlockID {
		t.Error("Ожидался воздух в позиции (0,0,0)")
	}
	if chunk.SolidCount() != 1 {
		t.Errorf("Ожидался 1 твердый воксель, получено %d", chunk.SolidCount())
	}
}

func TestChunkInBounds(t *testing.T) {
	chunk := newEmptyChunk(vec.Vec3{}, 3)

	if !chunk.InBounds(0, 0, 0) || !chunk.InBounds(2, 2, 2) {
		t.Error("Углы чанка должны быть внутри границ")
	}
	if chunk.InBounds(-1, 0, 0) || chunk.InBounds(0, 3, 0) || chunk.InBounds(0, 0, 3) {
		t.Error("Позиции за пределами чанка должны быть вне границ")
	}
}

func TestNewChunkPanicsOnWrongSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Ожидалась паника при неверном размере буфера")
		}
	}()
	NewChunk(vec.Vec3{}, 4, make([]block.BlockID, 10))
}
