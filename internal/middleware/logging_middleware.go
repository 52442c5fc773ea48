package middleware

import (
	"time"

	"github.com/annel0/voxel-world/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDKey - ключ gin.Context с trace-ID запроса
const TraceIDKey = "trace_id"

// RequestLogger снабжает каждый HTTP-запрос trace-ID и пишет строку лога по завершении.
// Уровень зависит от статуса; опрашиваемые эндпоинты (health, metrics) пишутся в DEBUG.
type RequestLogger struct {
	logger *logging.Logger
	quiet  map[string]bool
}

// NewRequestLogger создаёт логгер запросов. quietPaths дополняют /health и /metrics.
func NewRequestLogger(quietPaths ...string) *RequestLogger {
	quiet := map[string]bool{"/health": true, "/metrics": true}
	for _, p := range quietPaths {
		quiet[p] = true
	}
	return &RequestLogger{logger: logging.GetAPILogger(), quiet: quiet}
}

func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := requestTraceID(c)
		c.Set(TraceIDKey, traceID)
		c.Header("X-Trace-Id", traceID)

		start := time.Now()
		c.Next()

		path := routePath(c)
		status := c.Writer.Status()
		msg := "[HTTP] %s %s %d %s %dB ip=%s trace=%s"
		args := []interface{}{c.Request.Method, path, status, time.Since(start), c.Writer.Size(), c.ClientIP(), traceID}

		switch rl.levelFor(path, status) {
		case logging.ERROR:
			rl.logger.Error(msg, args...)
		case logging.WARN:
			rl.logger.Warn(msg, args...)
		case logging.DEBUG:
			rl.logger.Debug(msg, args...)
		default:
			rl.logger.Info(msg, args...)
		}
	}
}

// levelFor выбирает уровень строки лога по маршруту и статусу ответа
func (rl *RequestLogger) levelFor(path string, status int) logging.LogLevel {
	switch {
	case status >= 500:
		return logging.ERROR
	case status >= 400:
		return logging.WARN
	case rl.quiet[path]:
		return logging.DEBUG
	default:
		return logging.INFO
	}
}

// requestTraceID берёт trace-ID активного спана otelgin, иначе генерирует UUID
func requestTraceID(c *gin.Context) string {
	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return uuid.NewString()
}
