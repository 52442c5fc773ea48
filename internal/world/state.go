package world

import (
	"github.com/annel0/voxel-world/internal/noise"
	"github.com/annel0/voxel-world/internal/vec"
)

// Renderer - внешний коллаборатор рендеринга. Ядро передаёт ему готовую
// геометрию и просит освободить ресурсы при выгрузке, ничего не зная о GPU.
type Renderer interface {
	// Upload принимает меш чанка
	Upload(h ChunkHandle, coords vec.Vec3, mesh *Mesh)
	// Release освобождает ресурсы, связанные с хэндлом (если они были)
	Release(h ChunkHandle)
}

// NopRenderer ничего не делает; используется, когда рендер не подключён
type NopRenderer struct{}

// Upload реализует Renderer
func (NopRenderer) Upload(ChunkHandle, vec.Vec3, *Mesh) {}

// Release реализует Renderer
func (NopRenderer) Release(ChunkHandle) {}

// State - явный контекст мира, передаваемый в каждую фазу тика:
// реестр, три очереди, поле плотности и рендер.
type State struct {
	Width    int
	Registry *Registry
	Load     *LoadQueue
	Unload   *UnloadQueue
	Render   *RenderQueue
	Density  *noise.DensityField
	Renderer Renderer
}

// NewState создаёт контекст мира с пустым реестром и очередями
func NewState(width int, density *noise.DensityField, renderer Renderer) (*State, error) {
	if err := ValidateChunkWidth(width); err != nil {
		return nil, err
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}

	return &State{
		Width:    width,
		Registry: NewRegistry(),
		Load:     NewQueue[vec.Vec3](),
		Unload:   NewQueue[UnloadRequest](),
		Render:   NewQueue[ChunkHandle](),
		Density:  density,
		Renderer: renderer,
	}, nil
}
