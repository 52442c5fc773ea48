package world

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/noise"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrObserverNotFound - наблюдатель с таким ID не зарегистрирован
var ErrObserverNotFound = errors.New("наблюдатель не найден")

// StreamerOptions задаёт параметры стримера
type StreamerOptions struct {
	ChunkWidth int                   // Ширина чанка в вокселях (0 - DefaultChunkWidth)
	Density    *noise.DensityField   // Поле плотности (nil - случайный сид и параметры по умолчанию)
	Renderer   Renderer              // Получатель мешей (nil - NopRenderer)
	Workers    int                   // Размер пула генерации (0 - по числу CPU)
	Registerer prometheus.Registerer // Куда регистрировать метрики (nil - не регистрировать)
	Tracing    trace.TracerProvider  // Провайдер трейсов (nil - глобальный otel)
}

// TickReport - итог одного тика
type TickReport struct {
	Tick          uint64        `json:"tick"`
	LoadsQueued   int           `json:"loads_queued"`
	UnloadsQueued int           `json:"unloads_queued"`
	Loaded        int           `json:"loaded"`
	Unloaded      int           `json:"unloaded"`
	Meshed        int           `json:"meshed"`
	Errors        []error       `json:"-"`
	Duration      time.Duration `json:"duration"`
}

// StreamStats - снимок состояния стримера для отладочного API
type StreamStats struct {
	Tick        uint64       `json:"tick"`
	ChunkWidth  int          `json:"chunk_width"`
	Seed        int64        `json:"seed"`
	Noise       noise.Params `json:"noise"`
	Chunks      int          `json:"chunks"`
	Observers   int          `json:"observers"`
	LoadQueue   int          `json:"load_queue"`
	UnloadQueue int          `json:"unload_queue"`
	RenderQueue int          `json:"render_queue"`
}

// ChunkInfo описывает загруженный чанк
type ChunkInfo struct {
	Coords vec.Vec3 `json:"coords"`
	Handle string   `json:"handle"`
	Bounds Bounds   `json:"bounds"`
}

// Streamer владеет состоянием мира и выполняет тики стриминга.
// Тик выполняется под блокировкой на запись, чтение снимков - под блокировкой на чтение.
type Streamer struct {
	mu        sync.RWMutex
	state     *State
	observers []Observer // В порядке добавления; определяет порядок сканирования

	generator *Generator
	unloader  *Unloader
	mesher    *Mesher

	metrics *StreamMetrics
	tracer  trace.Tracer
	logger  *logging.Logger

	tick uint64
}

// NewStreamer создаёт стример с пустым миром
func NewStreamer(opts StreamerOptions) (*Streamer, error) {
	width := opts.ChunkWidth
	if width == 0 {
		width = DefaultChunkWidth
	}

	density := opts.Density
	if density == nil {
		density = noise.NewDensityField(noise.RandomSeed(), noise.DefaultParams())
	}

	st, err := NewState(width, density, opts.Renderer)
	if err != nil {
		return nil, err
	}

	tp := opts.Tracing
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Streamer{
		state:     st,
		generator: NewGenerator(opts.Workers),
		unloader:  NewUnloader(),
		mesher:    NewMesher(),
		metrics:   NewStreamMetrics(opts.Registerer),
		tracer:    tp.Tracer("github.com/annel0/voxel-world/internal/world"),
		logger:    logging.GetComponentLogger("streamer"),
	}, nil
}

// Close останавливает пул генерации
func (s *Streamer) Close() {
	s.generator.Close()
}

// ChunkWidth возвращает ширину чанка
func (s *Streamer) ChunkWidth() int {
	return s.state.Width
}

// Seed возвращает сид поля плотности
func (s *Streamer) Seed() int64 {
	return s.state.Density.Seed()
}

// Tick выполняет один тик. Фазы идут строго по порядку:
//  1. сканирование и постановка загрузок;
//  2. постановка выгрузок;
//  3. дренаж очереди выгрузки;
//  4. дренаж очереди загрузки (генерация);
//  5. дренаж очереди рендера (построение мешей).
//
// Каждая фаза разбирает свою очередь полностью. Восстанавливаемые ошибки
// собираются в отчёт и не прерывают тик.
func (s *Streamer) Tick(ctx context.Context) TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.tick++

	ctx, span := s.tracer.Start(ctx, "voxel.tick",
		trace.WithAttributes(attribute.Int64("voxel.tick", int64(s.tick))))
	defer span.End()

	report := TickReport{Tick: s.tick}
	st := s.state

	s.phase(ctx, PhaseScanLoad, func() int {
		report.LoadsQueued = EnqueueLoads(st, s.observers)
		return report.LoadsQueued
	})
	s.phase(ctx, PhaseScanUnload, func() int {
		report.UnloadsQueued = EnqueueUnloads(st, s.observers)
		return report.UnloadsQueued
	})
	s.phase(ctx, PhaseUnload, func() int {
		res := s.unloader.Drain(st)
		report.Unloaded = res.Processed
		report.Errors = append(report.Errors, res.Errors...)
		return res.Processed
	})
	s.phase(ctx, PhaseLoad, func() int {
		res := s.generator.Drain(st)
		report.Loaded = res.Processed
		report.Errors = append(report.Errors, res.Errors...)
		return res.Processed
	})
	s.phase(ctx, PhaseRender, func() int {
		res := s.mesher.Drain(st)
		report.Meshed = res.Processed
		report.Errors = append(report.Errors, res.Errors...)
		return res.Processed
	})

	report.Duration = time.Since(start)
	s.metrics.observeTick(report, st)

	span.SetAttributes(
		attribute.Int("voxel.loaded", report.Loaded),
		attribute.Int("voxel.unloaded", report.Unloaded),
		attribute.Int("voxel.meshed", report.Meshed),
		attribute.Int("voxel.errors", len(report.Errors)),
		attribute.Int("voxel.chunks", st.Registry.Len()),
	)

	if report.Loaded > 0 || report.Unloaded > 0 {
		s.logger.Debug("Тик %d: +%d / -%d чанков, мешей %d, ошибок %d, %v",
			report.Tick, report.Loaded, report.Unloaded, report.Meshed, len(report.Errors), report.Duration)
	}

	return report
}

// phase выполняет фазу тика в собственном спане и записывает её длительность
func (s *Streamer) phase(ctx context.Context, name string, fn func() int) {
	_, span := s.tracer.Start(ctx, "voxel.phase."+name)
	start := time.Now()

	n := fn()

	s.metrics.observePhase(name, time.Since(start))
	span.SetAttributes(attribute.Int("voxel.processed", n))
	span.End()
}

// Run выполняет тики с частотой tickRate в секунду до отмены контекста
func (s *Streamer) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		return fmt.Errorf("недопустимая частота тиков: %d", tickRate)
	}

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	s.logger.Info("🔄 Стриминг чанков запущен (%d тиков/с, ширина чанка %d)", tickRate, s.state.Width)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Стриминг чанков остановлен")
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// AddObserver регистрирует наблюдателя. Радиусы больше MaxRenderDistance
// отклоняются с ErrInvalidObserver.
func (s *Streamer) AddObserver(o Observer) (Observer, error) {
	if err := o.Validate(); err != nil {
		return Observer{}, err
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, o)
	s.logger.Info("Наблюдатель %s добавлен в %v (R=%d, M=%d)", o.ID, o.Position, o.RenderDistance, o.UnloadMargin)
	return o, nil
}

// MoveObserver перемещает наблюдателя в новую позицию
func (s *Streamer) MoveObserver(id uuid.UUID, pos mgl32.Vec3) (Observer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.observers {
		if s.observers[i].ID == id {
			s.observers[i].Position = pos
			return s.observers[i], nil
		}
	}
	return Observer{}, fmt.Errorf("перемещение %s: %w", id, ErrObserverNotFound)
}

// RemoveObserver удаляет наблюдателя. Чанки вокруг него выгрузятся на следующих тиках.
func (s *Streamer) RemoveObserver(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.observers {
		if s.observers[i].ID == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			s.logger.Info("Наблюдатель %s удалён", id)
			return nil
		}
	}
	return fmt.Errorf("удаление %s: %w", id, ErrObserverNotFound)
}

// Observers возвращает копию списка наблюдателей
func (s *Streamer) Observers() []Observer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Observer, len(s.observers))
	copy(out, s.observers)
	return out
}

// LoadedChunks возвращает загруженные чанки, отсортированные по координате
func (s *Streamer) LoadedChunks() []ChunkInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.state.Registry.Entries()
	out := make([]ChunkInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, ChunkInfo{
			Coords: e.Coords,
			Handle: e.Handle.String(),
			Bounds: ChunkBounds(e.Coords, s.state.Width),
		})
	}
	return out
}

// IsLoaded сообщает, загружен ли чанк с координатой
func (s *Streamer) IsLoaded(coords vec.Vec3) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Registry.Contains(coords)
}

// Stats возвращает снимок состояния
func (s *Streamer) Stats() StreamStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StreamStats{
		Tick:        s.tick,
		ChunkWidth:  s.state.Width,
		Seed:        s.state.Density.Seed(),
		Noise:       s.state.Density.Params(),
		Chunks:      s.state.Registry.Len(),
		Observers:   len(s.observers),
		LoadQueue:   s.state.Load.Len(),
		UnloadQueue: s.state.Unload.Len(),
		RenderQueue: s.state.Render.Len(),
	}
}
