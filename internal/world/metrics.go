package world

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Имена фаз тика (метки метрик и имена спанов)
const (
	PhaseScanLoad   = "scan_load"
	PhaseScanUnload = "scan_unload"
	PhaseUnload     = "unload"
	PhaseLoad       = "load"
	PhaseRender     = "render"
)

// StreamMetrics инкапсулирует Prometheus-метрики стриминга чанков
type StreamMetrics struct {
	loaded        prometheus.Counter
	unloaded      prometheus.Counter
	meshed        prometheus.Counter
	errors        *prometheus.CounterVec
	registrySize  prometheus.Gauge
	queueDepth    *prometheus.GaugeVec
	tickDuration  prometheus.Histogram
	phaseDuration *prometheus.HistogramVec
}

// NewStreamMetrics создаёт метрики и регистрирует их в reg.
// При reg == nil метрики работают, но никуда не экспортируются.
func NewStreamMetrics(reg prometheus.Registerer) *StreamMetrics {
	m := &StreamMetrics{
		loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_loaded_total",
			Help:      "Общее число сгенерированных и зарегистрированных чанков.",
		}),
		unloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_unloaded_total",
			Help:      "Общее число выгруженных чанков.",
		}),
		meshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_meshed_total",
			Help:      "Общее число построенных мешей.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunk_errors_total",
			Help:      "Восстанавливаемые ошибки фаз тика по типам.",
		}, []string{"kind"}),
		registrySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "registry_chunks",
			Help:      "Количество загруженных чанков.",
		}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "queue_depth",
			Help:      "Количество ожидающих элементов в очередях после тика.",
		}, []string{"queue"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "tick_duration_seconds",
			Help:      "Длительность тика стриминга.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "phase_duration_seconds",
			Help:      "Длительность отдельных фаз тика.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"phase"}),
	}

	if reg != nil {
		reg.MustRegister(m.loaded, m.unloaded, m.meshed, m.errors,
			m.registrySize, m.queueDepth, m.tickDuration, m.phaseDuration)
	}
	return m
}

// observePhase записывает длительность фазы
func (m *StreamMetrics) observePhase(phase string, d time.Duration) {
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// observeErrors считает ошибки по типам
func (m *StreamMetrics) observeErrors(errs []error) {
	for _, err := range errs {
		m.errors.WithLabelValues(errorKind(err)).Inc()
	}
}

// observeTick обновляет счётчики и датчики по итогам тика
func (m *StreamMetrics) observeTick(r TickReport, st *State) {
	m.loaded.Add(float64(r.Loaded))
	m.unloaded.Add(float64(r.Unloaded))
	m.meshed.Add(float64(r.Meshed))
	m.observeErrors(r.Errors)
	m.tickDuration.Observe(r.Duration.Seconds())

	m.registrySize.Set(float64(st.Registry.Len()))
	m.queueDepth.WithLabelValues("load").Set(float64(st.Load.Len()))
	m.queueDepth.WithLabelValues("unload").Set(float64(st.Unload.Len()))
	m.queueDepth.WithLabelValues("render").Set(float64(st.Render.Len()))
}
