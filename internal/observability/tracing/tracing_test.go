package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{ServiceName: "dohkar-api"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := Start(context.Background(), "test")
	defer span.End()
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsSampled())
}

func TestSetupWithEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{
		Endpoint:    "http://127.0.0.1:4318",
		Insecure:    true,
		ServiceName: "dohkar-api",
		SampleRatio: 0.5,
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
