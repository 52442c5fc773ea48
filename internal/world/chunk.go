package world

import (
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// Chunk - плотный массив вокселей width^3 в порядке LocalIndex.
// Создаётся генератором один раз и дальше только читается, поэтому
// параллельное чтение (меш, запросы соседей) не требует блокировок.
type Chunk struct {
	coords vec.Vec3        // Координата чанка на сетке
	width  int             // Ширина чанка в вокселях
	voxels []block.BlockID // width^3 вокселей
}

// NewChunk создаёт чанк из готового буфера вокселей.
// Буфер передаётся во владение чанку и не должен меняться после вызова.
func NewChunk(coords vec.Vec3, width int, voxels []block.BlockID) *Chunk {
	if len(voxels) != ChunkVolume(width) {
		panic("world: размер буфера вокселей не совпадает с width^3")
	}
	return &Chunk{
		coords: coords,
		width:  width,
		voxels: voxels,
	}
}

// Coords возвращает координату чанка
func (c *Chunk) Coords() vec.Vec3 {
	return c.coords
}

// Width возвращает ширину чанка
func (c *Chunk) Width() int {
	return c.width
}

// Len возвращает количество вокселей
func (c *Chunk) Len() int {
	return len(c.voxels)
}

// At возвращает воксель по плоскому индексу
func (c *Chunk) At(index int) block.BlockID {
	return c.voxels[index]
}

// Voxel возвращает воксель по локальной позиции
func (c *Chunk) Voxel(p LocalPos) block.BlockID {
	return c.voxels[LocalIndex(p, c.width)]
}

// InBounds проверяет, лежит ли локальная позиция (со знаком) внутри чанка
func (c *Chunk) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < c.width && y < c.width && z < c.width
}

// SolidCount возвращает количество твердых вокселей
func (c *Chunk) SolidCount() int {
	n := 0
	for _, v := range c.voxels {
		if v.IsSolid() {
			n++
		}
	}
	return n
}
