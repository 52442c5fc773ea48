package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-world/internal/api"
	"github.com/annel0/voxel-world/internal/config"
	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/noise"
	"github.com/annel0/voxel-world/internal/observability"
	"github.com/annel0/voxel-world/internal/render"
	"github.com/annel0/voxel-world/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию $VOXEL_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	opts := logging.Options{ConsoleLevel: level}
	if cfg.Logging.File {
		opts.Dir = cfg.Logging.Dir
	}
	logging.Configure(opts)

	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	if err := applyComponentLevels(cfg.Logging.Components); err != nil {
		logging.Warn("Уровни логирования компонентов применены частично: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error("❌ %v", err)
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
	logging.Info("👋 Сервер успешно остановлен")
}

func run(ctx context.Context, cfg *config.Config) error {
	logging.Info("🧊 Запуск воксельного мира...")

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return fmt.Errorf("инициализация телеметрии: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	// === МИР ===
	seed := cfg.World.Seed
	if seed == 0 {
		seed = noise.RandomSeed()
	}
	logging.Info("🌱 Сид мира: %d (укажите world.seed в конфиге, чтобы воспроизвести мир)", seed)

	density := noise.NewDensityField(seed, noise.Params{
		Scale:     cfg.World.NoiseScale,
		Threshold: cfg.World.NoiseThreshold,
		Alpha:     cfg.World.Alpha,
		Beta:      cfg.World.Beta,
		Octaves:   cfg.World.Octaves,
	})

	meshes := render.NewMeshCache()
	streamer, err := world.NewStreamer(world.StreamerOptions{
		ChunkWidth: cfg.World.ChunkWidth,
		Density:    density,
		Renderer:   meshes,
		Workers:    cfg.World.Workers,
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return fmt.Errorf("создание стримера: %w", err)
	}
	defer streamer.Close()

	for _, o := range cfg.Streaming.Observers {
		pos := mgl32.Vec3{o.Position[0], o.Position[1], o.Position[2]}
		if _, err := streamer.AddObserver(world.NewObserver(pos, uint32(*o.RenderDistance), uint32(*o.UnloadMargin))); err != nil {
			return fmt.Errorf("наблюдатель из конфигурации: %w", err)
		}
	}

	// === ОТЛАДОЧНЫЙ API ===
	var server *api.RestServer
	serverErr := make(chan error, 1)
	if cfg.Server.EnableDebugAPI {
		addr := fmt.Sprintf(":%d", cfg.Server.GetDebugPort())
		server = api.NewRestServer(api.Config{
			Addr:   addr,
			World:  streamer,
			Meshes: meshes,
		})
		go func() { serverErr <- server.Start() }()

		logging.Info("   ❤️  Health check: http://localhost%s/health", addr)
		logging.Info("   🧱 Чанки: http://localhost%s/api/chunks", addr)
		logging.Info("   📈 Метрики: http://localhost%s/metrics", addr)
	}

	// === ЦИКЛ СТРИМИНГА ===
	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	streamErr := make(chan error, 1)
	go func() { streamErr <- streamer.Run(streamCtx, cfg.Streaming.TickRate) }()

	logging.Info("✅ Все сервисы запущены")

	var (
		runErr       error
		streamRunErr error
		streamDone   bool
	)
	select {
	case <-ctx.Done():
		logging.Info("📡 Получен сигнал завершения, остановка...")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("отладочный API: %w", err)
		}
	case streamRunErr = <-streamErr:
		streamDone = true
	}

	// === GRACEFUL SHUTDOWN ===
	// Пул генерации закрывается только после выхода из Run
	cancelStream()
	if !streamDone {
		streamRunErr = <-streamErr
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Stop(shutdownCtx); err != nil {
			logging.Error("❌ Ошибка остановки отладочного API: %v", err)
		}
		cancel()
	}

	if runErr != nil {
		return runErr
	}

	if streamRunErr != nil && !errors.Is(streamRunErr, context.Canceled) {
		return fmt.Errorf("стриминг: %w", streamRunErr)
	}
	return nil
}

// applyComponentLevels задаёт уровни логгеров компонентов из конфигурации
func applyComponentLevels(components map[string]string) error {
	if len(components) == 0 {
		return nil
	}

	levels := make(map[string]logging.LogLevel, len(components))
	for component, name := range components {
		level, err := logging.ParseLevel(name)
		if err != nil {
			return err
		}
		levels[component] = level
	}

	lm := logging.GetLoggerManager()
	err := lm.SetComponentLevels(levels)
	logging.Debug("Логгеры компонентов: %v", lm.ListComponents())
	return err
}
