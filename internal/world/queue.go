package world

import "github.com/annel0/voxel-world/internal/vec"

// Queue - FIFO очередь заданий с быстрой проверкой наличия элемента.
// Элементы обрабатываются в порядке постановки.
type Queue[T comparable] struct {
	items   []T
	head    int
	members map[T]int // Сколько раз элемент сейчас стоит в очереди
}

// NewQueue создаёт пустую очередь
func NewQueue[T comparable]() *Queue[T] {
	return &Queue[T]{
		members: make(map[T]int),
	}
}

// Push добавляет элемент в конец очереди
func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
	q.members[item]++
}

// Pop извлекает элемент из начала очереди
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.head >= len(q.items) {
		return zero, false
	}

	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	if n := q.members[item]; n <= 1 {
		delete(q.members, item)
	} else {
		q.members[item] = n - 1
	}

	// Очередь опустела - переиспользуем буфер с начала
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return item, true
}

// Contains проверяет, стоит ли элемент в очереди
func (q *Queue[T]) Contains(item T) bool {
	return q.members[item] > 0
}

// Len возвращает количество ожидающих элементов
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// UnloadRequest - задание на выгрузку: координата и хэндл чанка
type UnloadRequest struct {
	Coords vec.Vec3
	Handle ChunkHandle
}

// LoadQueue - очередь координат на генерацию
type LoadQueue = Queue[vec.Vec3]

// UnloadQueue - очередь пар (координата, хэндл) на выгрузку
type UnloadQueue = Queue[UnloadRequest]

// RenderQueue - очередь хэндлов на построение меша
type RenderQueue = Queue[ChunkHandle]
