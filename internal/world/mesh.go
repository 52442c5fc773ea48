package world

import "github.com/go-gl/mathgl/mgl32"

// Mesh - геометрия чанка для внешнего рендера: позиции, нормали (по одной на вершину)
// и индексы треугольников. Позиции локальны относительно начала чанка.
type Mesh struct {
	Positions []mgl32.Vec3 `json:"positions"`
	Normals   []mgl32.Vec3 `json:"normals"`
	Indices   []uint32     `json:"indices"`
}

// Empty возвращает true, если в меше нет ни одной грани
func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// VertexCount возвращает количество вершин
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// FaceCount возвращает количество граней (по 4 вершины на грань)
func (m *Mesh) FaceCount() int {
	return len(m.Positions) / 4
}

// appendFace добавляет 4 вершины, 4 нормали и 6 индексов одной грани
func (m *Mesh) appendFace(f CubeFace, center mgl32.Vec3) {
	base := uint32(len(m.Positions))
	normal := f.Normal()

	for _, corner := range f.Corners() {
		m.Positions = append(m.Positions, center.Add(corner))
		m.Normals = append(m.Normals, normal)
	}
	idx := f.Indices(base)
	m.Indices = append(m.Indices, idx[:]...)
}

// BuildMesh строит меш чанка отсечением граней. Для каждого твердого вокселя
// (по возрастанию индекса) и каждого соседа (в порядке CubeFaces) грань к соседу
// выводится, если сосед вне границ чанка или не твердый. Соседние чанки не
// проверяются, поэтому грани на границе чанка выводятся всегда.
func BuildMesh(c *Chunk) *Mesh {
	m := &Mesh{}

	for i := 0; i < c.Len(); i++ {
		if !c.At(i).IsSolid() {
			continue
		}

		p := LocalPosition(i, c.Width())
		x, y, z := int(p.X), int(p.Y), int(p.Z)
		center := mgl32.Vec3{float32(x), float32(y), float32(z)}

		for _, d := range neighbourOffsets {
			nx, ny, nz := x+d.X, y+d.Y, z+d.Z

			if c.InBounds(nx, ny, nz) && c.Voxel(LocalPos{X: uint8(nx), Y: uint8(ny), Z: uint8(nz)}).IsSolid() {
				continue
			}
			m.appendFace(FaceFromDirection(d), center)
		}
	}

	return m
}
