package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/annel0/voxel-world/internal/world"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Streaming StreamingConfig `yaml:"streaming"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig описывает генерацию мира
type WorldConfig struct {
	ChunkWidth     int     `yaml:"chunk_width"`
	Seed           int64   `yaml:"seed"` // 0 - случайный сид при запуске
	NoiseScale     float64 `yaml:"noise_scale"`
	NoiseThreshold float64 `yaml:"noise_threshold"`
	Octaves        int32   `yaml:"octaves"`
	Alpha          float64 `yaml:"alpha"`
	Beta           float64 `yaml:"beta"`
	Workers        int     `yaml:"workers"` // 0 - по числу CPU
}

// ObserverConfig - наблюдатель, создаваемый при запуске
type ObserverConfig struct {
	Position       [3]float32 `yaml:"position"`
	RenderDistance *int       `yaml:"render_distance"`
	UnloadMargin   *int       `yaml:"unload_margin"`
}

// StreamingConfig описывает цикл стриминга
type StreamingConfig struct {
	TickRate  int              `yaml:"tick_rate"`
	Observers []ObserverConfig `yaml:"observers"`
}

// ServerConfig описывает отладочный HTTP сервер
type ServerConfig struct {
	DebugPort      int  `yaml:"debug_port"`
	EnableDebugAPI bool `yaml:"enable_debug_api"`
}

// TelemetryConfig описывает экспорт трейсов
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig описывает логирование
type LoggingConfig struct {
	Level      string            `yaml:"level"`
	File       bool              `yaml:"file"`
	Dir        string            `yaml:"dir"`
	Components map[string]string `yaml:"components"` // уровень консоли по компонентам
}

// Значения по умолчанию
const (
	DefaultChunkWidth     = 16
	DefaultNoiseScale     = 0.01
	DefaultOctaves        = 3
	DefaultAlpha          = 2.0
	DefaultBeta           = 2.0
	DefaultTickRate       = 20
	DefaultRenderDistance = 5
	DefaultUnloadMargin   = 2
	DefaultDebugPort      = 8090
	DefaultServiceName    = "voxel-world"
	DefaultLogDir         = "logs"

	maxChunkWidth = 255
)

// Default возвращает конфигурацию по умолчанию: один наблюдатель в начале координат
func Default() *Config {
	cfg := &Config{
		Streaming: StreamingConfig{
			Observers: []ObserverConfig{{}},
		},
		Server: ServerConfig{EnableDebugAPI: true},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults заполняет незаданные поля значениями по умолчанию
func (c *Config) applyDefaults() {
	if c.World.ChunkWidth == 0 {
		c.World.ChunkWidth = DefaultChunkWidth
	}
	if c.World.NoiseScale == 0 {
		c.World.NoiseScale = DefaultNoiseScale
	}
	if c.World.Octaves == 0 {
		c.World.Octaves = DefaultOctaves
	}
	if c.World.Alpha == 0 {
		c.World.Alpha = DefaultAlpha
	}
	if c.World.Beta == 0 {
		c.World.Beta = DefaultBeta
	}
	if c.Streaming.TickRate == 0 {
		c.Streaming.TickRate = DefaultTickRate
	}
	for i := range c.Streaming.Observers {
		o := &c.Streaming.Observers[i]
		if o.RenderDistance == nil {
			v := DefaultRenderDistance
			o.RenderDistance = &v
		}
		if o.UnloadMargin == nil {
			v := DefaultUnloadMargin
			o.UnloadMargin = &v
		}
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = DefaultLogDir
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.World.ChunkWidth < 1 || c.World.ChunkWidth > maxChunkWidth {
		errs = append(errs, fmt.Errorf("world.chunk_width должен быть в 1..%d, получено %d", maxChunkWidth, c.World.ChunkWidth))
	}
	if c.World.NoiseScale < 0 {
		errs = append(errs, fmt.Errorf("world.noise_scale не может быть отрицательным: %v", c.World.NoiseScale))
	}
	if c.World.Octaves < 0 {
		errs = append(errs, fmt.Errorf("world.octaves не может быть отрицательным: %d", c.World.Octaves))
	}
	if c.World.Workers < 0 {
		errs = append(errs, fmt.Errorf("world.workers не может быть отрицательным: %d", c.World.Workers))
	}
	if c.Streaming.TickRate < 0 {
		errs = append(errs, fmt.Errorf("streaming.tick_rate не может быть отрицательным: %d", c.Streaming.TickRate))
	}
	for i, o := range c.Streaming.Observers {
		if o.RenderDistance != nil && (*o.RenderDistance < 0 || *o.RenderDistance > world.MaxRenderDistance) {
			errs = append(errs, fmt.Errorf("streaming.observers[%d].render_distance должен быть в 0..%d, получено %d",
				i, world.MaxRenderDistance, *o.RenderDistance))
		}
		if o.UnloadMargin != nil && (*o.UnloadMargin < 0 || *o.UnloadMargin > world.MaxRenderDistance) {
			errs = append(errs, fmt.Errorf("streaming.observers[%d].unload_margin должен быть в 0..%d, получено %d",
				i, world.MaxRenderDistance, *o.UnloadMargin))
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	for component, level := range c.Logging.Components {
		if _, err := logging.ParseLevel(level); err != nil {
			errs = append(errs, fmt.Errorf("logging.components.%s: %w", component, err))
		}
	}
	if c.Server.DebugPort < 0 || c.Server.DebugPort > 65535 {
		errs = append(errs, fmt.Errorf("server.debug_port вне диапазона: %d", c.Server.DebugPort))
	}

	return errors.Join(errs...)
}

// GetDebugPort возвращает порт отладочного API с поддержкой fallback значений
func (s *ServerConfig) GetDebugPort() int {
	return getPortWithEnvFallback(s.DebugPort, "VOXEL_DEBUG_PORT", DefaultDebugPort)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать путь из ENV VOXEL_CONFIG; если и он пуст,
// возвращает конфигурацию по умолчанию. Незаданные поля заполняются значениями по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("конфигурация %s: %w", path, err)
	}
	return &cfg, nil
}
