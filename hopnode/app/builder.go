package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"hopchain/hopnode/service"
	"hopchain/pkg/conf"
	"hopchain/pkg/constance"
	"hopchain/pkg/discovery"
	"hopchain/pkg/session/trace"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type NodeBuilder struct {
	instanceID      string
	nodeConf        *conf.NodeConf
	serveConf       *discovery.ServiceServeConf
	randSource      service.RandSource
	oTelConfig      *trace.OTelConfig
	discoveryClient discovery.Client
	err             error
}

func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{}
}

func (b *NodeBuilder) WithInstanceID(instanceID string) *NodeBuilder {
	if instanceID == "" {
		b.setErr(errors.New("empty instanceID"))
	} else {
		b.instanceID = instanceID
	}

	return b
}

func (b *NodeBuilder) WithNodeConf(nodeConf *conf.NodeConf) *NodeBuilder {
	if nodeConf == nil {
		b.setErr(errors.New("nil node config"))
		return b
	}
	if err := nodeConf.Validate(); err != nil {
		b.setErr(fmt.Errorf("invalid node config: %w", err))
		return b
	}
	b.nodeConf = nodeConf
	return b
}

// WithHttpServe host为注册到服务发现中的地址，为空时使用本机hostname。port为0时随机监听
func (b *NodeBuilder) WithHttpServe(host string, port int) *NodeBuilder {
	if port < 0 || port > 65535 {
		b.setErr(fmt.Errorf("invalid http port: %d", port))
		return b
	}
	if host == "" {
		hostname, err := os.Hostname()
		if err != nil {
			b.setErr(fmt.Errorf("get hostname: %w", err))
			return b
		}
		host = hostname
	}
	b.serveConf = &discovery.ServiceServeConf{
		Protoc: discovery.ProtocTypeHttp,
		Host:   host,
		Port:   port,
	}
	return b
}

// WithRandSource 替换故障注入使用的随机源，测试用
func (b *NodeBuilder) WithRandSource(source service.RandSource) *NodeBuilder {
	b.randSource = source
	return b
}

func (b *NodeBuilder) WithOTelConfig(oTelConfig *trace.OTelConfig) *NodeBuilder {
	b.oTelConfig = oTelConfig
	return b
}

func (b *NodeBuilder) WithConsulDiscovery(consulConf *conf.ConsulConf) *NodeBuilder {
	discoveryClient, err := discovery.NewDiscoveryClient(consulConf)
	if err != nil {
		b.setErr(err)
	} else {
		b.discoveryClient = discoveryClient
	}

	return b
}

func (b *NodeBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *NodeBuilder) Build(ctx context.Context) (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.nodeConf == nil {
		return nil, errors.New("no node config")
	}
	if b.serveConf == nil {
		return nil, errors.New("no http serve config")
	}
	if b.instanceID == "" {
		b.instanceID = fmt.Sprintf("%s-%v", b.nodeConf.Name, uuid.New())
	}
	if b.oTelConfig == nil {
		b.oTelConfig = &trace.OTelConfig{}
	}

	providers, err := trace.InitProvider(ctx, constance.NodeServiceName, b.instanceID, b.oTelConfig)
	if err != nil {
		return nil, fmt.Errorf("init otel provider: %w", err)
	}

	var observer service.Observer = service.NopObserver{}
	if b.oTelConfig.EnableMetrics {
		var meterProvider metric.MeterProvider = otel.GetMeterProvider()
		if providers.MeterProvider != nil {
			meterProvider = providers.MeterProvider
		}
		statisticsService, err := service.NewStatisticsService(b.nodeConf.Name, meterProvider)
		if err != nil {
			_ = providers.Shutdown(ctx)
			return nil, fmt.Errorf("init statistics service: %w", err)
		}
		observer = statisticsService
	}

	node, err := genNode(b.instanceID, b.nodeConf, b.serveConf, b.randSource, b.oTelConfig, providers, observer,
		b.discoveryClient)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, err
	}
	return node, nil
}
