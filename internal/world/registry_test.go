package world

import (
	"testing"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertAndGet(t *testing.T) {
	r := NewRegistry()
	c := vec.New(1, 2, 3)
	chunk := newEmptyChunk(c, 2)

	h, err := r.Insert(c, chunk)
	require.NoError(t, err)
	assert.False(t, h.IsZero())

	got, ok := r.Get(h)
	require.True(t, ok)
	assert.Same(t, chunk, got)

	lh, ok := r.Lookup(c)
	require.True(t, ok)
	assert.Equal(t, h, lh)
	assert.True(t, r.Contains(c))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDuplicateInsert(t *testing.T) {
	r := NewRegistry()
	c := vec.New(0, 0, 0)
	first := newEmptyChunk(c, 2)

	h, err := r.Insert(c, first)
	require.NoError(t, err)

	_, err = r.Insert(c, newEmptyChunk(c, 2))
	assert.ErrorIs(t, err, ErrDuplicateChunk)

	// Первая запись не изменилась
	got, ok := r.Get(h)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	a, b := vec.New(0, 0, 0), vec.New(1, 0, 0)

	ha, err := r.Insert(a, newEmptyChunk(a, 2))
	require.NoError(t, err)
	hb, err := r.Insert(b, newEmptyChunk(b, 2))
	require.NoError(t, err)

	// Хэндл от другой координаты отклоняется
	assert.ErrorIs(t, r.Remove(a, hb), ErrMissingChunkHandle)
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Remove(a, ha))
	assert.False(t, r.Contains(a))
	_, ok := r.Get(ha)
	assert.False(t, ok)

	// Повторное удаление
	assert.ErrorIs(t, r.Remove(a, ha), ErrMissingChunkHandle)

	// Нулевой хэндл никогда не разрешается
	assert.ErrorIs(t, r.Remove(b, ChunkHandle{}), ErrMissingChunkHandle)
	assert.True(t, r.Contains(b))
}

func TestRegistryStaleHandleAfterSlotReuse(t *testing.T) {
	r := NewRegistry()
	a, b := vec.New(0, 0, 0), vec.New(5, 5, 5)

	old, err := r.Insert(a, newEmptyChunk(a, 2))
	require.NoError(t, err)
	require.NoError(t, r.Remove(a, old))

	fresh, err := r.Insert(b, newEmptyChunk(b, 2))
	require.NoError(t, err)

	// Слот переиспользован, но старый хэндл недействителен
	assert.Equal(t, old.index, fresh.index)
	assert.NotEqual(t, old, fresh)
	_, ok := r.Get(old)
	assert.False(t, ok)
	_, ok = r.Get(fresh)
	assert.True(t, ok)
}

func TestRegistryEntriesSorted(t *testing.T) {
	r := NewRegistry()
	coords := []vec.Vec3{vec.New(1, 0, 0), vec.New(-1, 5, 0), vec.New(0, 0, 0), vec.New(0, -1, 2)}
	for _, c := range coords {
		_, err := r.Insert(c, newEmptyChunk(c, 1))
		require.NoError(t, err)
	}

	entries := r.Entries()
	require.Len(t, entries, 4)
	want := []vec.Vec3{vec.New(-1, 5, 0), vec.New(0, -1, 2), vec.New(0, 0, 0), vec.New(1, 0, 0)}
	for i, e := range entries {
		assert.Equal(t, want[i], e.Coords)
		h, _ := r.Lookup(e.Coords)
		assert.Equal(t, h, e.Handle)
	}
}
