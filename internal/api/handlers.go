package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// CreateObserverRequest - тело POST /api/observers
type CreateObserverRequest struct {
	Position       mgl32.Vec3 `json:"position"`
	RenderDistance *uint32    `json:"render_distance"`
	UnloadMargin   *uint32    `json:"unload_margin"`
}

// MoveObserverRequest - тело PUT /api/observers/:id
type MoveObserverRequest struct {
	Position *mgl32.Vec3 `json:"position" binding:"required"`
}

// ChunkMeshResponse - меш чанка с его координатой и границами
type ChunkMeshResponse struct {
	Coords vec.Vec3     `json:"coords"`
	Bounds world.Bounds `json:"bounds"`
	Faces  int          `json:"faces"`
	Mesh   *world.Mesh  `json:"mesh"`
}

// handleHealth обрабатывает проверку здоровья
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleStats возвращает состояние стримера, кэша мешей и процесса
func (rs *RestServer) handleStats(c *gin.Context) {
	stats := make(map[string]interface{})

	stats["world"] = rs.world.Stats()
	if rs.meshes != nil {
		stats["meshes"] = rs.meshes.Stats()
	}

	process, err := rs.metrics.Snapshot()
	if err != nil {
		rs.logger.Debug("Не удалось получить загрузку CPU: %v", err)
	}
	stats["server"] = process

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика получена",
		Data:    stats,
	})
}

// handleGetChunks возвращает загруженные чанки с границами
func (rs *RestServer) handleGetChunks(c *gin.Context) {
	chunks := rs.world.LoadedChunks()
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: fmt.Sprintf("Загружено чанков: %d", len(chunks)),
		Data:    chunks,
	})
}

// handleGetChunkMesh возвращает меш чанка по координате
func (rs *RestServer) handleGetChunkMesh(c *gin.Context) {
	coords, err := parseChunkCoords(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	if !rs.world.IsLoaded(coords) {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: fmt.Sprintf("Чанк %v не загружен", coords),
		})
		return
	}

	// Пустые меши в кэше не хранятся; ещё не построенный меш тоже отдаём пустым
	mesh := &world.Mesh{}
	if rs.meshes != nil {
		if m, ok := rs.meshes.Mesh(coords); ok {
			mesh = m
		}
	}

	width := rs.world.Stats().ChunkWidth
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Меш получен",
		Data: ChunkMeshResponse{
			Coords: coords,
			Bounds: world.ChunkBounds(coords, width),
			Faces:  mesh.FaceCount(),
			Mesh:   mesh,
		},
	})
}

// parseChunkCoords разбирает :x/:y/:z
func parseChunkCoords(c *gin.Context) (vec.Vec3, error) {
	var out [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return vec.Vec3{}, fmt.Errorf("неверная координата %s: %q", name, c.Param(name))
		}
		out[i] = v
	}
	return vec.New(out[0], out[1], out[2]), nil
}

// handleGetObservers возвращает список наблюдателей
func (rs *RestServer) handleGetObservers(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Наблюдатели получены",
		Data:    rs.world.Observers(),
	})
}

// handleCreateObserver добавляет наблюдателя
func (rs *RestServer) handleCreateObserver(c *gin.Context) {
	var req CreateObserverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	r, m := uint32(world.DefaultRenderDistance), uint32(world.DefaultUnloadMargin)
	if req.RenderDistance != nil {
		r = *req.RenderDistance
	}
	if req.UnloadMargin != nil {
		m = *req.UnloadMargin
	}

	o, err := rs.world.AddObserver(world.NewObserver(req.Position, r, m))
	if err != nil {
		rs.observerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenericResponse{
		Success: true,
		Message: "Наблюдатель добавлен",
		Data:    o,
	})
}

// handleMoveObserver перемещает наблюдателя
func (rs *RestServer) handleMoveObserver(c *gin.Context) {
	id, ok := rs.parseObserverID(c)
	if !ok {
		return
	}

	var req MoveObserverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}

	o, err := rs.world.MoveObserver(id, *req.Position)
	if err != nil {
		rs.observerError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Наблюдатель перемещён",
		Data:    o,
	})
}

// handleDeleteObserver удаляет наблюдателя
func (rs *RestServer) handleDeleteObserver(c *gin.Context) {
	id, ok := rs.parseObserverID(c)
	if !ok {
		return
	}

	if err := rs.world.RemoveObserver(id); err != nil {
		rs.observerError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Наблюдатель удалён",
	})
}

func (rs *RestServer) parseObserverID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный ID наблюдателя",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (rs *RestServer) observerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, world.ErrObserverNotFound):
		status = http.StatusNotFound
	case errors.Is(err, world.ErrInvalidObserver):
		status = http.StatusBadRequest
	}
	c.JSON(status, GenericResponse{
		Success: false,
		Message: err.Error(),
	})
}
