package world

import (
	"fmt"

	"github.com/annel0/voxel-world/internal/logging"
)

// Unloader разбирает очередь выгрузки: освобождает ресурсы рендера и удаляет чанк из реестра
type Unloader struct {
	logger *logging.Logger
}

// NewUnloader создаёт выгрузчик
func NewUnloader() *Unloader {
	return &Unloader{
		logger: logging.GetComponentLogger("unloader"),
	}
}

// Drain полностью разбирает очередь выгрузки в порядке FIFO.
// Недействительный хэндл (ErrMissingChunkHandle) пропускается, остальные элементы обрабатываются.
func (u *Unloader) Drain(st *State) PhaseResult {
	var res PhaseResult

	for {
		req, ok := st.Unload.Pop()
		if !ok {
			break
		}

		if h, ok := st.Registry.Lookup(req.Coords); !ok || h != req.Handle {
			err := fmt.Errorf("выгрузка чанка %v (хэндл %s): %w", req.Coords, req.Handle, ErrMissingChunkHandle)
			u.logger.Warn("Пропуск выгрузки: %v", err)
			res.Errors = append(res.Errors, err)
			continue
		}

		st.Renderer.Release(req.Handle)

		if err := st.Registry.Remove(req.Coords, req.Handle); err != nil {
			u.logger.Warn("Пропуск выгрузки: %v", err)
			res.Errors = append(res.Errors, err)
			continue
		}

		res.Processed++
		u.logger.Trace("Чанк %v выгружен", req.Coords)
	}

	return res
}
