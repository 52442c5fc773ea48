package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
)

// CubeFace - одна из шести граней куба вокселя
type CubeFace uint8

// Порядок граней задаёт порядок их обхода при построении меша
const (
	FaceTop    CubeFace = iota // +Y
	FaceBottom                 // -Y
	FaceLeft                   // -X
	FaceRight                  // +X
	FaceFront                  // -Z
	FaceBack                   // +Z
)

// CubeFaces - все грани в порядке обхода
var CubeFaces = [6]CubeFace{FaceTop, FaceBottom, FaceLeft, FaceRight, FaceFront, FaceBack}

var faceDirections = [6]vec.Vec3{
	FaceTop:    {X: 0, Y: 1, Z: 0},
	FaceBottom: {X: 0, Y: -1, Z: 0},
	FaceLeft:   {X: -1, Y: 0, Z: 0},
	FaceRight:  {X: 1, Y: 0, Z: 0},
	FaceFront:  {X: 0, Y: 0, Z: -1},
	FaceBack:   {X: 0, Y: 0, Z: 1},
}

// neighbourOffsets - смещения к шести соседям вокселя в порядке CubeFaces
var neighbourOffsets = func() [6]vec.Vec3 {
	var out [6]vec.Vec3
	for i, f := range CubeFaces {
		out[i] = f.Direction()
	}
	return out
}()

// Углы единичного куба с центром в начале координат
var (
	cornerBottomLeftFront  = mgl32.Vec3{-0.5, -0.5, -0.5}
	cornerBottomLeftBack   = mgl32.Vec3{-0.5, -0.5, 0.5}
	cornerBottomRightFront = mgl32.Vec3{0.5, -0.5, -0.5}
	cornerBottomRightBack  = mgl32.Vec3{0.5, -0.5, 0.5}
	cornerTopLeftFront     = mgl32.Vec3{-0.5, 0.5, -0.5}
	cornerTopLeftBack      = mgl32.Vec3{-0.5, 0.5, 0.5}
	cornerTopRightFront    = mgl32.Vec3{0.5, 0.5, -0.5}
	cornerTopRightBack     = mgl32.Vec3{0.5, 0.5, 0.5}
)

var faceCorners = [6][4]mgl32.Vec3{
	FaceTop:    {cornerTopLeftFront, cornerTopLeftBack, cornerTopRightFront, cornerTopRightBack},
	FaceBottom: {cornerBottomLeftFront, cornerBottomLeftBack, cornerBottomRightFront, cornerBottomRightBack},
	FaceLeft:   {cornerBottomLeftFront, cornerBottomLeftBack, cornerTopLeftFront, cornerTopLeftBack},
	FaceRight:  {cornerBottomRightFront, cornerBottomRightBack, cornerTopRightFront, cornerTopRightBack},
	FaceFront:  {cornerBottomLeftFront, cornerBottomRightFront, cornerTopLeftFront, cornerTopRightFront},
	FaceBack:   {cornerBottomLeftBack, cornerBottomRightBack, cornerTopLeftBack, cornerTopRightBack},
}

// Обход треугольников против часовой стрелки снаружи грани (для отсечения задних граней).
// НЕ МЕНЯТЬ: порядок подобран под углы из faceCorners.
var faceIndices = [6][6]uint32{
	FaceTop:    {2, 0, 1, 1, 3, 2},
	FaceBottom: {3, 1, 0, 0, 2, 3},
	FaceLeft:   {0, 1, 3, 3, 2, 0},
	FaceRight:  {1, 0, 2, 2, 3, 1},
	FaceFront:  {1, 0, 2, 2, 3, 1},
	FaceBack:   {0, 1, 3, 3, 2, 0},
}

// FaceFromDirection возвращает грань по каноническому направлению.
// Любое другое направление - ошибка программиста, поэтому panic.
func FaceFromDirection(d vec.Vec3) CubeFace {
	for i, dir := range faceDirections {
		if dir == d {
			return CubeFace(i)
		}
	}
	panic(fmt.Sprintf("world: неканоническое направление грани %v", d))
}

// Direction возвращает направление к соседу через эту грань
func (f CubeFace) Direction() vec.Vec3 {
	return faceDirections[f]
}

// Normal возвращает внешнюю нормаль грани
func (f CubeFace) Normal() mgl32.Vec3 {
	d := f.Direction()
	return mgl32.Vec3{float32(d.X), float32(d.Y), float32(d.Z)}
}

// Corners возвращает 4 угла грани относительно центра вокселя
func (f CubeFace) Corners() [4]mgl32.Vec3 {
	return faceCorners[f]
}

// Indices возвращает 6 индексов (2 треугольника), сдвинутых на base - число уже добавленных вершин
func (f CubeFace) Indices(base uint32) [6]uint32 {
	out := faceIndices[f]
	for i := range out {
		out[i] += base
	}
	return out
}

// String возвращает имя грани
func (f CubeFace) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	default:
		return "unknown"
	}
}
