package world

import (
	"fmt"
	"sort"

	"github.com/annel0/voxel-world/internal/vec"
)

// ChunkHandle - стабильный ключ записи чанка в арене реестра.
// Поколение отличает переиспользованный слот от уже освобождённого хэндла.
type ChunkHandle struct {
	index      uint32
	generation uint32
}

// IsZero возвращает true для нулевого (никогда не выданного) хэндла
func (h ChunkHandle) IsZero() bool {
	return h.generation == 0
}

// String возвращает читаемое представление хэндла
func (h ChunkHandle) String() string {
	return fmt.Sprintf("%d#%d", h.index, h.generation)
}

// chunkSlot - запись арены
type chunkSlot struct {
	chunk      *Chunk
	coords     vec.Vec3
	generation uint32
	occupied   bool
}

// RegistryEntry - пара координата/хэндл для перечисления загруженных чанков
type RegistryEntry struct {
	Coords vec.Vec3
	Handle ChunkHandle
}

// Registry хранит загруженные чанки: арена записей плюс индекс координата → хэндл.
// На координату приходится не больше одного чанка. Реестр не синхронизирован:
// мутации выполняют только фазы загрузки и выгрузки внутри тика.
type Registry struct {
	slots []chunkSlot
	free  []uint32
	index map[vec.Vec3]ChunkHandle
}

// NewRegistry создаёт пустой реестр
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[vec.Vec3]ChunkHandle),
	}
}

// Insert регистрирует чанк под его координатой.
// Если координата занята, возвращает ErrDuplicateChunk и не трогает существующую запись.
func (r *Registry) Insert(coords vec.Vec3, chunk *Chunk) (ChunkHandle, error) {
	if _, exists := r.index[coords]; exists {
		return ChunkHandle{}, fmt.Errorf("вставка чанка %v: %w", coords, ErrDuplicateChunk)
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, chunkSlot{})
	}

	slot := &r.slots[idx]
	slot.generation++
	slot.chunk = chunk
	slot.coords = coords
	slot.occupied = true

	handle := ChunkHandle{index: idx, generation: slot.generation}
	r.index[coords] = handle
	return handle, nil
}

// resolve возвращает слот для действующего хэндла
func (r *Registry) resolve(h ChunkHandle) (*chunkSlot, bool) {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return nil, false
	}
	slot := &r.slots[h.index]
	if !slot.occupied || slot.generation != h.generation {
		return nil, false
	}
	return slot, true
}

// Get возвращает чанк по хэндлу
func (r *Registry) Get(h ChunkHandle) (*Chunk, bool) {
	slot, ok := r.resolve(h)
	if !ok {
		return nil, false
	}
	return slot.chunk, true
}

// Lookup возвращает хэндл по координате
func (r *Registry) Lookup(coords vec.Vec3) (ChunkHandle, bool) {
	h, ok := r.index[coords]
	return h, ok
}

// Contains проверяет, загружен ли чанк с координатой
func (r *Registry) Contains(coords vec.Vec3) bool {
	_, ok := r.index[coords]
	return ok
}

// Remove удаляет чанк. Хэндл должен принадлежать именно этой координате,
// иначе возвращается ErrMissingChunkHandle и реестр не меняется.
func (r *Registry) Remove(coords vec.Vec3, h ChunkHandle) error {
	slot, ok := r.resolve(h)
	if !ok || slot.coords != coords {
		return fmt.Errorf("выгрузка чанка %v (хэндл %s): %w", coords, h, ErrMissingChunkHandle)
	}

	delete(r.index, coords)
	slot.chunk = nil
	slot.occupied = false
	r.free = append(r.free, h.index)
	return nil
}

// Len возвращает количество загруженных чанков
func (r *Registry) Len() int {
	return len(r.index)
}

// Entries возвращает все загруженные чанки, отсортированные по координате
func (r *Registry) Entries() []RegistryEntry {
	entries := make([]RegistryEntry, 0, len(r.index))
	for c, h := range r.index {
		entries = append(entries, RegistryEntry{Coords: c, Handle: h})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Coords.Less(entries[j].Coords)
	})
	return entries
}
