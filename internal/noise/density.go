package noise

import (
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
)

// Значения по умолчанию для поля плотности
const (
	DefaultScale     = 0.01 // Масштаб координат мира в пространство шума
	DefaultThreshold = 0.0  // Ниже порога - твердый воксель
	DefaultAlpha     = 2.0  // Сглаживание шума
	DefaultBeta      = 2.0  // Частота шума
	DefaultOctaves   = 3    // Количество октав
)

// Params настраивает поле плотности
type Params struct {
	Scale     float64 `json:"scale"`
	Threshold float64 `json:"threshold"`
	Alpha     float64 `json:"alpha"`
	Beta      float64 `json:"beta"`
	Octaves   int32   `json:"octaves"`
}

// DefaultParams возвращает параметры по умолчанию
func DefaultParams() Params {
	return Params{
		Scale:     DefaultScale,
		Threshold: DefaultThreshold,
		Alpha:     DefaultAlpha,
		Beta:      DefaultBeta,
		Octaves:   DefaultOctaves,
	}
}

// DensityField - детерминированное 3D скалярное поле на основе шума Перлина.
// После создания только читается, поэтому безопасно для параллельных вызовов.
type DensityField struct {
	seed   int64
	params Params
	perlin *perlin.Perlin
}

// NewDensityField создаёт поле плотности с указанным сидом
func NewDensityField(seed int64, params Params) *DensityField {
	if params.Scale == 0 {
		params.Scale = DefaultScale
	}
	if params.Alpha == 0 {
		params.Alpha = DefaultAlpha
	}
	if params.Beta == 0 {
		params.Beta = DefaultBeta
	}
	if params.Octaves <= 0 {
		params.Octaves = DefaultOctaves
	}

	return &DensityField{
		seed:   seed,
		params: params,
		perlin: perlin.NewPerlin(params.Alpha, params.Beta, params.Octaves, seed),
	}
}

// RandomSeed возвращает случайный сид для мира без заданного сида
func RandomSeed() int64 {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	// Избегаем нуля: ноль в конфиге означает "сид не задан"
	for {
		if s := rng.Int63(); s != 0 {
			return s
		}
	}
}

// Seed возвращает сид поля
func (d *DensityField) Seed() int64 {
	return d.seed
}

// Params возвращает параметры поля
func (d *DensityField) Params() Params {
	return d.params
}

// Sample возвращает значение шума в целочисленной точке мира (примерно от -1 до 1)
func (d *DensityField) Sample(x, y, z int) float64 {
	s := d.params.Scale
	return d.perlin.Noise3D(float64(x)*s, float64(y)*s, float64(z)*s)
}

// Solid классифицирует точку мира: true - твердый воксель, false - пустой
func (d *DensityField) Solid(x, y, z int) bool {
	return d.Sample(x, y, z) < d.params.Threshold
}
