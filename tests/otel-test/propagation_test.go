package otel_test

import (
	"net/http"
	"testing"

	"hopchain/pkg/conf"
	"hopchain/pkg/constance"
	"hopchain/pkg/session/trace"
	"hopchain/tests/util"

	"github.com/cloudwego/kitex/pkg/klog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTracePropagatesAcrossHops 每一跳的span都属于同一条trace，且process span挂在本跳的server span下
func TestTracePropagatesAcrossHops(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	chain := util.StartChain(t, klog.LevelWarn, &trace.OTelConfig{
		EnableTrace: true,
		InstrumentConf: &conf.OTelConf{
			TraceExporter:   constance.ExporterTypeNone,
			MetricsExporter: constance.ExporterTypeNone,
		},
	},
		util.NodeSpec{Name: "a", Next: true},
		util.NodeSpec{Name: "b", Next: true},
		util.NodeSpec{Name: "c"},
	)

	code, body, err := util.SendPayload(chain.Entry(), []string{"client"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code, string(body))
	chain.EndTest()

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	traceID := spans[0].SpanContext().TraceID()

	processNodes := make(map[string]bool)
	for _, span := range spans {
		assert.Equal(t, traceID, span.SpanContext().TraceID(), "span %s", span.Name())
		if span.Name() != "hop.process" {
			continue
		}
		for _, attr := range span.Attributes() {
			if attr.Key == attribute.Key("hop.node") {
				processNodes[attr.Value.AsString()] = true
			}
		}
		assert.True(t, span.Parent().IsValid(), "process span must have the server span as parent")
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, processNodes)
}
