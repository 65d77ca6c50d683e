package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "sales-pipeline", "test", false)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestHelpersReturnUsableInstruments(t *testing.T) {
	counter, err := Meter("telemetry-test").Int64Counter("test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	_, span := Tracer("telemetry-test").Start(context.Background(), "test")
	span.End()
}

func TestEndpointOptions(t *testing.T) {
	assert.True(t, hasScheme("http://localhost:4318"))
	assert.True(t, hasScheme("https://collector.example.com"))
	assert.False(t, hasScheme("localhost:4318"))

	assert.Len(t, traceOptions("localhost:4318", true), 2)
	assert.Len(t, metricOptions("https://collector.example.com", false), 1)
}
