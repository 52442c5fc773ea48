package world

import (
	"fmt"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/noise"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world/block"
)

// PhaseResult - итог одной фазы дренажа очереди
type PhaseResult struct {
	Processed int     // Успешно обработанные элементы
	Errors    []error // Восстанавливаемые ошибки; элементы с ошибкой пропущены
}

// Generator (загрузчик) разбирает очередь загрузки: сэмплирует поле плотности по
// всем вокселям чанка, регистрирует чанк и ставит его в очередь рендера.
type Generator struct {
	pool   pond.Pool
	solid  block.BlockID
	logger *logging.Logger
}

// NewGenerator создаёт генератор с пулом из workers горутин (0 - по числу CPU)
func NewGenerator(workers int) *Generator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Generator{
		pool:   pond.NewPool(workers),
		solid:  block.StoneBlockID,
		logger: logging.GetComponentLogger("generator"),
	}
}

// Close останавливает пул и дожидается завершения задач
func (g *Generator) Close() {
	g.pool.StopAndWait()
}

// GenerateChunk строит чанк по полю плотности. Каждый слой по Z сэмплируется
// отдельной задачей пула; задачи пишут в непересекающиеся диапазоны индексов буфера.
func (g *Generator) GenerateChunk(coords vec.Vec3, width int, density *noise.DensityField) (*Chunk, error) {
	voxels := make([]block.BlockID, ChunkVolume(width))

	group := g.pool.NewGroup()
	for z := 0; z < width; z++ {
		group.Submit(func() {
			for y := 0; y < width; y++ {
				for x := 0; x < width; x++ {
					local := LocalPos{X: uint8(x), Y: uint8(y), Z: uint8(z)}
					p := VoxelWorldPos(coords, local, width)
					if density.Solid(p.X, p.Y, p.Z) {
						voxels[LocalIndex(local, width)] = g.solid
					}
				}
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("генерация чанка %v: %w", coords, err)
	}

	return NewChunk(coords, width, voxels), nil
}

// Drain полностью разбирает очередь загрузки в порядке FIFO. Конфликт вставки
// (ErrDuplicateChunk) не прерывает дренаж: новый чанк отбрасывается, обработка продолжается.
func (g *Generator) Drain(st *State) PhaseResult {
	var res PhaseResult

	for {
		coords, ok := st.Load.Pop()
		if !ok {
			break
		}

		chunk, err := g.GenerateChunk(coords, st.Width, st.Density)
		if err != nil {
			g.logger.Error("Ошибка генерации чанка %v: %v", coords, err)
			res.Errors = append(res.Errors, err)
			continue
		}

		handle, err := st.Registry.Insert(coords, chunk)
		if err != nil {
			g.logger.Warn("Чанк %v отброшен: %v", coords, err)
			res.Errors = append(res.Errors, err)
			continue
		}

		st.Render.Push(handle)
		res.Processed++
		if g.logger.Enabled(logging.TRACE) {
			g.logger.Trace("Чанк %v загружен (хэндл %s, %s: %d)", coords, handle, g.solid, chunk.SolidCount())
		}
	}

	return res
}
