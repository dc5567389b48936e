package service

import (
	"context"

	"hopchain/pkg/constance"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Observer 接收每个请求、每次下游调用的耗时与结果
type Observer interface {
	RecordRequest(ctx context.Context, endpoint string, elapsedSeconds float64, outcome constance.OutcomeType)
	RecordDownstreamCall(ctx context.Context, target string, elapsedSeconds float64, outcome constance.OutcomeType)
}

// NopObserver 关闭metrics时使用
type NopObserver struct{}

func (NopObserver) RecordRequest(context.Context, string, float64, constance.OutcomeType) {}

func (NopObserver) RecordDownstreamCall(context.Context, string, float64, constance.OutcomeType) {}

var _ Observer = NopObserver{}

// StatisticsService 把observer事件记录为OTel指标，导出方式由MeterProvider决定
type StatisticsService struct {
	nodeName string

	meter                  metric.Meter
	defaultMetricsOption   metric.MeasurementOption
	requestCounter         metric.Int64Counter
	requestDuration        metric.Float64Histogram
	downstreamCallCounter  metric.Int64Counter
	downstreamCallDuration metric.Float64Histogram
}

func NewStatisticsService(nodeName string, meterProvider metric.MeterProvider) (*StatisticsService, error) {
	ret := &StatisticsService{
		nodeName: nodeName,
		meter:    meterProvider.Meter("hopchain/hopnode"),
		defaultMetricsOption: metric.WithAttributes(
			attribute.String("node", nodeName),
		),
	}

	var err error
	if ret.requestCounter, err = ret.meter.Int64Counter("hop_requests_total",
		metric.WithDescription("Total number of inbound requests by endpoint and outcome")); err != nil {
		return nil, err
	}

	if ret.requestDuration, err = ret.meter.Float64Histogram("hop_request_duration_seconds",
		metric.WithDescription("Wall-clock time spent handling an inbound request, injected delay included"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	if ret.downstreamCallCounter, err = ret.meter.Int64Counter("hop_downstream_calls_total",
		metric.WithDescription("Total number of calls made to downstream targets by outcome")); err != nil {
		return nil, err
	}

	if ret.downstreamCallDuration, err = ret.meter.Float64Histogram("hop_downstream_call_duration_seconds",
		metric.WithDescription("Time spent waiting for a single downstream target"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}

	return ret, nil
}

func (s *StatisticsService) RecordRequest(ctx context.Context, endpoint string, elapsedSeconds float64,
	outcome constance.OutcomeType) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome.String()),
	)
	s.requestCounter.Add(ctx, 1, attrs, s.defaultMetricsOption)
	s.requestDuration.Record(ctx, elapsedSeconds, attrs, s.defaultMetricsOption)
}

func (s *StatisticsService) RecordDownstreamCall(ctx context.Context, target string, elapsedSeconds float64,
	outcome constance.OutcomeType) {
	attrs := metric.WithAttributes(
		attribute.String("target", target),
		attribute.String("outcome", outcome.String()),
	)
	s.downstreamCallCounter.Add(ctx, 1, attrs, s.defaultMetricsOption)
	s.downstreamCallDuration.Record(ctx, elapsedSeconds, attrs, s.defaultMetricsOption)
}

var _ Observer = (*StatisticsService)(nil)
