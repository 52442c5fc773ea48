package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Значения по умолчанию для наблюдателя
const (
	DefaultRenderDistance = 5
	DefaultUnloadMargin   = 2

	// MaxRenderDistance ограничивает R и M: скан загрузки обходит (2R+1)^3 чанков под блокировкой тика
	MaxRenderDistance = 64
)

// Observer - внешняя сущность (камера, игрок), вокруг которой подгружаются чанки
type Observer struct {
	ID             uuid.UUID  `json:"id"`
	Position       mgl32.Vec3 `json:"position"`        // Непрерывная позиция в мире
	RenderDistance uint32     `json:"render_distance"` // R: радиус загрузки в чанках
	UnloadMargin   uint32     `json:"unload_margin"`   // M: запас сверх R до выгрузки
}

// NewObserver создаёт наблюдателя с новым ID
func NewObserver(pos mgl32.Vec3, renderDistance, unloadMargin uint32) Observer {
	return Observer{
		ID:             uuid.New(),
		Position:       pos,
		RenderDistance: renderDistance,
		UnloadMargin:   unloadMargin,
	}
}

// Origin возвращает координату чанка, в котором находится наблюдатель
func (o Observer) Origin(width int) vec.Vec3 {
	return ToChunkCoord(o.Position, width)
}

// RetainRadius возвращает R + M - радиус, за которым чанк можно выгружать
func (o Observer) RetainRadius() int {
	return int(o.RenderDistance) + int(o.UnloadMargin)
}

// Validate проверяет радиусы наблюдателя
func (o Observer) Validate() error {
	if o.RenderDistance > MaxRenderDistance {
		return fmt.Errorf("%w: render_distance %d больше %d", ErrInvalidObserver, o.RenderDistance, MaxRenderDistance)
	}
	if o.UnloadMargin > MaxRenderDistance {
		return fmt.Errorf("%w: unload_margin %d больше %d", ErrInvalidObserver, o.UnloadMargin, MaxRenderDistance)
	}
	return nil
}
