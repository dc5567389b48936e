package service

import (
	"context"
	"time"

	"hopchain/pkg/constance"

	"github.com/cloudwego/kitex/pkg/klog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProcessService 处理一次/process请求：追加本节点名 -> 注入延迟 -> 注入失败 -> 转发给下游
type ProcessService struct {
	nodeName  string
	injector  *FaultInjector
	forwarder *ChainForwarder
	observer  Observer
	tracer    trace.Tracer
	sleep     func(time.Duration)
}

func NewProcessService(nodeName string, injector *FaultInjector, forwarder *ChainForwarder,
	observer Observer) *ProcessService {
	if observer == nil {
		observer = NopObserver{}
	}
	return &ProcessService{
		nodeName:  nodeName,
		injector:  injector,
		forwarder: forwarder,
		observer:  observer,
		tracer:    otel.Tracer("hopchain/hopnode"),
		sleep:     time.Sleep,
	}
}

// WithSleep 替换等待注入延迟的方式，测试用
func (s *ProcessService) WithSleep(sleep func(time.Duration)) *ProcessService {
	s.sleep = sleep
	return s
}

func (s *ProcessService) NodeName() string {
	return s.nodeName
}

// Process 每次调用都会恰好上报一次observer，包括失败提前返回的情况
func (s *ProcessService) Process(ctx context.Context, inbound Payload) (out Payload, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "hop.process",
		trace.WithAttributes(attribute.String("hop.node", s.nodeName)))
	defer func() {
		outcome := ClassifyOutcome(err)
		s.observer.RecordRequest(ctx, constance.EndpointProcess, time.Since(start).Seconds(), outcome)
		span.SetAttributes(attribute.String("hop.outcome", outcome.String()))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload := inbound.Append(s.nodeName)

	decision := s.injector.Decide()
	if decision.Delay > 0 {
		span.AddEvent("injected delay", trace.WithAttributes(
			attribute.Int64("hop.delay_ms", decision.Delay.Milliseconds())))
		s.sleep(decision.Delay)
	}

	if decision.ShouldFail {
		span.SetAttributes(attribute.Bool("hop.simulated_failure", true))
		klog.CtxInfof(ctx, "node %s injected a simulated failure", s.nodeName)
		return nil, &SimulatedFailureError{Node: s.nodeName}
	}

	if !s.forwarder.HasTargets() {
		return payload, nil
	}

	// 调用方断开连接不打断向下游的转发，每次下游调用仍然受forward timeout限制
	return s.forwarder.Forward(context.WithoutCancel(ctx), payload)
}
