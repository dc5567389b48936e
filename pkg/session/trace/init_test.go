package trace

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"hopchain/pkg/conf"
	"hopchain/pkg/constance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitProviderDisabled(t *testing.T) {
	providers, err := InitProvider(context.Background(), "hopchain-node", "a-1", nil)
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.MetricsHandler)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitProviderNoneExporters(t *testing.T) {
	providers, err := InitProvider(context.Background(), "hopchain-node", "a-1", &OTelConfig{
		EnableTrace:   true,
		EnableMetrics: true,
		InstrumentConf: &conf.OTelConf{
			TraceExporter:   constance.ExporterTypeNone,
			MetricsExporter: constance.ExporterTypeNone,
		},
	})
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, otel.GetTextMapPropagator())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInitProviderRejectsUnknownExporter(t *testing.T) {
	_, err := InitProvider(context.Background(), "hopchain-node", "a-1", &OTelConfig{
		EnableMetrics: true,
		InstrumentConf: &conf.OTelConf{
			TraceExporter:   constance.ExporterTypeNone,
			MetricsExporter: "zipkin",
		},
	})
	assert.Error(t, err)
}

func TestInitProviderPrometheusHandler(t *testing.T) {
	providers, err := InitProvider(context.Background(), "hopchain-node", "a-1", &OTelConfig{
		EnableMetrics: true,
		InstrumentConf: &conf.OTelConf{
			TraceExporter:   constance.ExporterTypeNone,
			MetricsExporter: constance.ExporterTypePrometheus,
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })
	require.NotNil(t, providers.MeterProvider)
	require.NotNil(t, providers.MetricsHandler)

	counter, err := providers.MeterProvider.Meter("test").Int64Counter("probe_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	server := httptest.NewServer(providers.MetricsHandler)
	t.Cleanup(server.Close)
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "probe_total")
	assert.Contains(t, string(body), `service_name="hopchain-node"`)
}

func TestInitProviderStdoutTrace(t *testing.T) {
	providers, err := InitProvider(context.Background(), "hopchain-node", "a-1", &OTelConfig{
		EnableTrace: true,
		InstrumentConf: &conf.OTelConf{
			TraceExporter:   constance.ExporterTypeStdout,
			MetricsExporter: constance.ExporterTypeNone,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NoError(t, providers.Shutdown(context.Background()))
}
