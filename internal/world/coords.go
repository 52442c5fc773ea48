package world

import (
	"fmt"
	"math"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultChunkWidth - ширина чанка по умолчанию (в вокселях)
const DefaultChunkWidth = 16

// MaxChunkWidth ограничен размером компоненты LocalPos
const MaxChunkWidth = math.MaxUint8

// ValidateChunkWidth проверяет, что ширина чанка допустима
func ValidateChunkWidth(width int) error {
	if width < 1 || width > MaxChunkWidth {
		return fmt.Errorf("%w: %d (допустимо 1..%d)", ErrInvalidChunkWidth, width, MaxChunkWidth)
	}
	return nil
}

// LocalPos - позиция вокселя внутри чанка, каждая компонента в [0, width).
// Без координаты чанка мировую позицию вычислить нельзя.
type LocalPos struct {
	X, Y, Z uint8
}

// ChunkVolume возвращает количество вокселей в чанке: width^3
func ChunkVolume(width int) int {
	return width * width * width
}

// LocalIndex переводит локальную позицию в индекс плоского массива: z*W*W + y*W + x
func LocalIndex(p LocalPos, width int) int {
	return int(p.Z)*width*width + int(p.Y)*width + int(p.X)
}

// LocalPosition - обратное к LocalIndex преобразование
func LocalPosition(index, width int) LocalPos {
	return LocalPos{
		X: uint8(index % width),
		Y: uint8((index / width) % width),
		Z: uint8(index / (width * width)),
	}
}

// ToChunkCoord переводит непрерывную позицию в мире в координату чанка.
// Используется деление с округлением вниз, поэтому чанк (-1) покрывает [-width, 0).
func ToChunkCoord(pos mgl32.Vec3, width int) vec.Vec3 {
	w := float64(width)
	return vec.Vec3{
		X: int(math.Floor(float64(pos.X()) / w)),
		Y: int(math.Floor(float64(pos.Y()) / w)),
		Z: int(math.Floor(float64(pos.Z()) / w)),
	}
}

// ToWorldOrigin возвращает мировую позицию начала чанка: coord * width
func ToWorldOrigin(c vec.Vec3, width int) mgl32.Vec3 {
	o := c.Scale(width)
	return mgl32.Vec3{float32(o.X), float32(o.Y), float32(o.Z)}
}

// VoxelWorldPos возвращает целочисленную мировую позицию локального вокселя чанка
func VoxelWorldPos(c vec.Vec3, p LocalPos, width int) vec.Vec3 {
	return c.Scale(width).Add(vec.Vec3{X: int(p.X), Y: int(p.Y), Z: int(p.Z)})
}

// Bounds - ограничивающий параллелепипед чанка в мировых координатах
type Bounds struct {
	Min mgl32.Vec3 `json:"min"`
	Max mgl32.Vec3 `json:"max"`
}

// ChunkBounds возвращает границы чанка. Центры вокселей лежат в целых точках,
// поэтому границы сдвинуты на полвокселя и совпадают с экстентом меша.
func ChunkBounds(c vec.Vec3, width int) Bounds {
	origin := ToWorldOrigin(c, width)
	half := mgl32.Vec3{0.5, 0.5, 0.5}
	w := float32(width)
	return Bounds{
		Min: origin.Sub(half),
		Max: origin.Add(mgl32.Vec3{w, w, w}).Sub(half),
	}
}
