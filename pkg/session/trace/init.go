package trace

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hopchain/pkg/conf"
	"hopchain/pkg/constance"
	"hopchain/pkg/util"

	"github.com/cloudwego/kitex/pkg/klog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type OTelConfig struct {
	EnableTrace    bool
	EnableMetrics  bool
	InstrumentConf *conf.OTelConf
}

// Providers InitProvider创建的provider。exporter为none时对应的provider为nil，全局provider保持不变
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	// MetricsHandler 只有metrics exporter为prometheus时不为nil
	MetricsHandler http.Handler
}

func InitProvider(ctx context.Context, serviceName, instanceID string, oTelConfig *OTelConfig) (*Providers, error) {
	ret := new(Providers)
	if oTelConfig == nil || (!oTelConfig.EnableTrace && !oTelConfig.EnableMetrics) {
		return ret, nil
	}
	instrumentConf := oTelConfig.InstrumentConf
	if err := instrumentConf.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceInstanceID(instanceID),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if oTelConfig.EnableTrace && instrumentConf.TraceExporter != constance.ExporterTypeNone {
		if ret.TracerProvider, err = initTracerProvider(ctx, instrumentConf, res); err != nil {
			return nil, fmt.Errorf("init tracer provider: %w", err)
		}
		otel.SetTracerProvider(ret.TracerProvider)
	}
	if oTelConfig.EnableTrace {
		util.SetupPropagator()
	}

	if oTelConfig.EnableMetrics && instrumentConf.MetricsExporter != constance.ExporterTypeNone {
		if ret.MeterProvider, ret.MetricsHandler, err = initMeterProvider(ctx, instrumentConf, res); err != nil {
			_ = ret.Shutdown(ctx)
			return nil, fmt.Errorf("init meter provider: %w", err)
		}
		otel.SetMeterProvider(ret.MeterProvider)
	}

	klog.Infof("init otel success, service:%s, trace exporter:%s, metrics exporter:%s, endpoint:%s",
		serviceName, instrumentConf.TraceExporter, instrumentConf.MetricsExporter, instrumentConf.Endpoint())
	return ret, nil
}

func initTracerProvider(ctx context.Context, instrumentConf *conf.OTelConf,
	res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch instrumentConf.TraceExporter {
	case constance.ExporterTypeOTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(instrumentConf.Endpoint())}
		if instrumentConf.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case constance.ExporterTypeStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", instrumentConf.TraceExporter)
	}
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func initMeterProvider(ctx context.Context, instrumentConf *conf.OTelConf,
	res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	switch instrumentConf.MetricsExporter {
	case constance.ExporterTypePrometheus:
		// 每个provider使用独立的registry，同一进程内创建多个节点时不会重复注册
		registry := prometheus.NewRegistry()
		exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, nil, err
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		), promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil

	case constance.ExporterTypeOTLP:
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(instrumentConf.Endpoint())}
		if instrumentConf.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exporter, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, nil, err
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		), nil, nil

	case constance.ExporterTypeStdout:
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, nil, err
		}
		return sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		), nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported metrics exporter: %s", instrumentConf.MetricsExporter)
	}
}

// Shutdown 刷新并关闭所有provider
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
