package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestInitTelemetryDisabled(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), "voxel-world", false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProviderSetsServiceName(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp, err := NewTracerProvider(context.Background(), "voxel-test", trace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	found := false
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == semconv.ServiceNameKey {
			found = true
			assert.Equal(t, "voxel-test", kv.Value.AsString())
		}
	}
	assert.True(t, found, "ресурс должен содержать service.name")
}
