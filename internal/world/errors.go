package world

import "errors"

// Восстанавливаемые ошибки фаз тика. Фаза пропускает элемент очереди и продолжает дренаж.
var (
	// ErrDuplicateChunk - вставка координаты, которая уже есть в реестре
	ErrDuplicateChunk = errors.New("чанк с такой координатой уже загружен")
	// ErrMissingChunkHandle - выгрузка по хэндлу, который уже не разрешается
	ErrMissingChunkHandle = errors.New("хэндл чанка недействителен")
	// ErrStaleRenderTarget - построение меша для чанка, которого уже нет в реестре
	ErrStaleRenderTarget = errors.New("чанк для рендера уже выгружен")
)

// Ошибки конфигурации
var (
	// ErrInvalidChunkWidth - ширина чанка вне 1..MaxChunkWidth
	ErrInvalidChunkWidth = errors.New("недопустимая ширина чанка")
	// ErrInvalidObserver - радиусы наблюдателя вне 0..MaxRenderDistance
	ErrInvalidObserver = errors.New("недопустимые параметры наблюдателя")
)

// errorKind возвращает метку ошибки для метрик
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateChunk):
		return "duplicate_chunk"
	case errors.Is(err, ErrMissingChunkHandle):
		return "missing_chunk_handle"
	case errors.Is(err, ErrStaleRenderTarget):
		return "stale_render_target"
	default:
		return "other"
	}
}
