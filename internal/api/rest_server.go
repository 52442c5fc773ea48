package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/middleware"
	"github.com/annel0/voxel-world/internal/render"
	"github.com/annel0/voxel-world/internal/vec"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// WorldService - операции стримера, доступные отладочному API
type WorldService interface {
	LoadedChunks() []world.ChunkInfo
	IsLoaded(coords vec.Vec3) bool
	Stats() world.StreamStats
	Observers() []world.Observer
	AddObserver(o world.Observer) (world.Observer, error)
	MoveObserver(id uuid.UUID, pos mgl32.Vec3) (world.Observer, error)
	RemoveObserver(id uuid.UUID) error
}

// MeshSource отдаёт построенные меши чанков
type MeshSource interface {
	Mesh(coords vec.Vec3) (*world.Mesh, bool)
	Stats() render.CacheStats
}

// RestServer представляет отладочный REST API мира
type RestServer struct {
	router     *gin.Engine
	httpServer *http.Server
	world      WorldService
	meshes     MeshSource
	metrics    *ServerMetrics
	logger     *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr       string                // адрес для запуска сервера
	World      WorldService          // стример мира
	Meshes     MeshSource            // кэш мешей
	Registerer prometheus.Registerer // куда регистрировать HTTP-метрики (nil - дефолтный регистр)
	Gatherer   prometheus.Gatherer   // откуда отдавать /metrics (nil - дефолтный регистр)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = ":8090"
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("debug_api"))

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("debug_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:  router,
		world:   config.World,
		meshes:  config.Meshes,
		metrics: NewServerMetrics(),
		logger:  logging.GetAPILogger(),
	}

	// Ответы с мешами большие: сжимаем всё, что gzhttp сочтёт нужным
	server.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           gzhttp.GzipHandler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/stats", rs.handleStats)

		api.GET("/chunks", rs.handleGetChunks)
		api.GET("/chunks/:x/:y/:z/mesh", rs.handleGetChunkMesh)

		api.GET("/observers", rs.handleGetObservers)
		api.POST("/observers", rs.handleCreateObserver)
		api.PUT("/observers/:id", rs.handleMoveObserver)
		api.DELETE("/observers/:id", rs.handleDeleteObserver)
	}

	// Health check
	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает HTTP обработчик со сжатием ответов
func (rs *RestServer) Handler() http.Handler {
	return rs.httpServer.Handler
}

// Start запускает сервер и блокируется до его остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 Отладочный API слушает %s", rs.httpServer.Addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop плавно останавливает сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
