package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSetup_WithoutExporter(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Setup(ctx, Config{ServiceName: "brewery", ServiceVersion: "test"})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, shutdown(context.Background()))
	})

	ctx, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	assert.NotEmpty(t, carrier.Get("traceparent"))
}
