package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/logging"
)

// Mesher разбирает очередь рендера: строит меш каждого чанка и передаёт его рендеру
type Mesher struct {
	logger *logging.Logger
}

// NewMesher создаёт мешер
func NewMesher() *Mesher {
	return &Mesher{
		logger: logging.GetComponentLogger("mesher"),
	}
}

// Drain полностью разбирает очередь рендера в порядке FIFO.
// Хэндл, которого уже нет в реестре, молча отбрасывается (ErrStaleRenderTarget).
func (m *Mesher) Drain(st *State) PhaseResult {
	var res PhaseResult

	for {
		handle, ok := st.Render.Pop()
		if !ok {
			break
		}

		chunk, ok := st.Registry.Get(handle)
		if !ok {
			err := fmt.Errorf("меш для хэндла %s: %w", handle, ErrStaleRenderTarget)
			m.logger.Debug("Запрос рендера отброшен: %v", err)
			res.Errors = append(res.Errors, err)
			continue
		}

		mesh := BuildMesh(chunk)
		st.Renderer.Upload(handle, chunk.Coords(), mesh)
		res.Processed++
	}

	return res
}
