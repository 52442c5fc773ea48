package vec

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Используется как координата чанка на сетке чанков.
type Vec3 struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// New создает Vec3 из трех компонент
func New(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Scale умножает каждую компоненту на скаляр
func (v Vec3) Scale(k int) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// LengthSq возвращает квадрат евклидовой длины
func (v Vec3) LengthSq() int {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// WithinRadius сообщает, лежит ли other не дальше radius от v (евклидово расстояние)
func (v Vec3) WithinRadius(other Vec3, radius int) bool {
	return v.Sub(other).LengthSq() <= radius*radius
}

// Less задает лексикографический порядок (X, затем Y, затем Z)
func (v Vec3) Less(other Vec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}
