package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/annel0/voxel-world/internal/noise"
	"github.com/annel0/voxel-world/internal/render"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *RestServer
	streamer *world.Streamer
	handler  http.Handler
}

// newTestEnv поднимает мир 4^3 из сплошного камня с одним наблюдателем (R=1) после одного тика
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reg := prometheus.NewRegistry()
	cache := render.NewMeshCache()

	streamer, err := world.NewStreamer(world.StreamerOptions{
		ChunkWidth: 4,
		Density:    noise.NewDensityField(5, noise.Params{Threshold: 100}),
		Renderer:   cache,
		Workers:    2,
		Registerer: reg,
	})
	require.NoError(t, err)
	t.Cleanup(streamer.Close)

	_, err = streamer.AddObserver(world.NewObserver(mgl32.Vec3{2, 2, 2}, 1, 0))
	require.NoError(t, err)
	streamer.Tick(context.Background())

	server := NewRestServer(Config{
		World:      streamer,
		Meshes:     cache,
		Registerer: reg,
		Gatherer:   reg,
	})

	return &testEnv{server: server, streamer: streamer, handler: server.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetChunks(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/chunks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	chunks := decode[[]world.ChunkInfo](t, w)
	require.Len(t, chunks, 7)
	assert.Equal(t, vec.New(-1, 0, 0), chunks[0].Coords)
	assert.Equal(t, mgl32.Vec3{-4.5, -0.5, -0.5}, chunks[0].Bounds.Min)
}

func TestGetChunkMesh(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/chunks/0/0/0/mesh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[ChunkMeshResponse](t, w)
	// Сплошной чанк 4^3: только грани на границе, 6 сторон по 16
	assert.Equal(t, 96, resp.Faces)
	require.NotNil(t, resp.Mesh)
	assert.Len(t, resp.Mesh.Positions, 96*4)
	assert.Len(t, resp.Mesh.Indices, 96*6)

	w = env.do(t, http.MethodGet, "/api/chunks/9/9/9/mesh", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/chunks/a/0/0/mesh", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeshResponseIsCompressed(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/chunks/0/0/0/mesh", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestObserverLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/observers", map[string]interface{}{
		"position":        []float32{100, 0, 0},
		"render_distance": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[world.Observer](t, w)
	assert.Equal(t, uint32(2), created.RenderDistance)
	assert.Equal(t, uint32(world.DefaultUnloadMargin), created.UnloadMargin)

	w = env.do(t, http.MethodGet, "/api/observers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]world.Observer](t, w), 2)

	path := "/api/observers/" + created.ID.String()
	w = env.do(t, http.MethodPut, path, map[string]interface{}{"position": []float32{0, 50, 0}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mgl32.Vec3{0, 50, 0}, decode[world.Observer](t, w).Position)

	w = env.do(t, http.MethodPut, path, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/observers/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, env.streamer.Observers(), 1)
}

func TestCreateObserverRejectsOversizedRadius(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/observers", map[string]interface{}{
		"position":        []float32{0, 0, 0},
		"render_distance": world.MaxRenderDistance + 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/observers", map[string]interface{}{
		"position":      []float32{0, 0, 0},
		"unload_margin": 3_037_000_500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, env.streamer.Observers(), 1)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[struct {
		World  world.StreamStats `json:"world"`
		Meshes render.CacheStats `json:"meshes"`
		Server ProcessStats      `json:"server"`
	}](t, w)

	assert.Equal(t, 7, stats.World.Chunks)
	assert.Equal(t, 4, stats.World.ChunkWidth)
	assert.Equal(t, float64(100), stats.World.Noise.Threshold)
	assert.Equal(t, noise.DefaultScale, stats.World.Noise.Scale)
	assert.Equal(t, 7, stats.Meshes.Meshes)
	assert.Greater(t, stats.Server.Goroutines, 0)
}

func TestMetricsEndpointExposesWorldMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/health", nil)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "voxel_chunks_loaded_total 7")
	assert.Contains(t, body, "debug_api_http_request_duration_seconds")
}
