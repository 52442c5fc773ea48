// Package render хранит построенную геометрию чанков для потребителей вне ядра мира.
package render

import (
	"sync"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
)

type cachedMesh struct {
	coords vec.Vec3
	mesh   *world.Mesh
}

// CacheStats - счётчики кэша мешей
type CacheStats struct {
	Meshes    int    `json:"meshes"`
	Vertices  int    `json:"vertices"`
	Uploads   uint64 `json:"uploads"`
	Releases  uint64 `json:"releases"`
	Replaced  uint64 `json:"replaced"`
	EmptySkip uint64 `json:"empty_skipped"`
}

// MeshCache реализует world.Renderer: хранит последний меш каждого хэндла
// и позволяет найти меш по координате чанка.
type MeshCache struct {
	mu       sync.RWMutex
	byHandle map[world.ChunkHandle]cachedMesh
	byCoords map[vec.Vec3]world.ChunkHandle
	stats    CacheStats
}

// NewMeshCache создаёт пустой кэш
func NewMeshCache() *MeshCache {
	return &MeshCache{
		byHandle: make(map[world.ChunkHandle]cachedMesh),
		byCoords: make(map[vec.Vec3]world.ChunkHandle),
	}
}

// Upload сохраняет меш чанка. Пустой меш не хранится, но освобождает прежний.
func (c *MeshCache) Upload(h world.ChunkHandle, coords vec.Vec3, mesh *world.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Uploads++

	if old, ok := c.byHandle[h]; ok {
		c.stats.Replaced++
		c.stats.Vertices -= old.mesh.VertexCount()
		delete(c.byHandle, h)
	}

	if mesh == nil || mesh.Empty() {
		c.stats.EmptySkip++
		if c.byCoords[coords] == h {
			delete(c.byCoords, coords)
		}
		return
	}

	c.byHandle[h] = cachedMesh{coords: coords, mesh: mesh}
	c.byCoords[coords] = h
	c.stats.Vertices += mesh.VertexCount()
}

// Release удаляет меш хэндла, если он есть
func (c *MeshCache) Release(h world.ChunkHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Releases++

	entry, ok := c.byHandle[h]
	if !ok {
		return
	}
	delete(c.byHandle, h)
	if c.byCoords[entry.coords] == h {
		delete(c.byCoords, entry.coords)
	}
	c.stats.Vertices -= entry.mesh.VertexCount()
}

// Mesh возвращает меш чанка по координате
func (c *MeshCache) Mesh(coords vec.Vec3) (*world.Mesh, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.byCoords[coords]
	if !ok {
		return nil, false
	}
	return c.byHandle[h].mesh, true
}

// Stats возвращает снимок счётчиков
func (c *MeshCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.stats
	s.Meshes = len(c.byHandle)
	return s
}
