package util

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"hopchain/hopnode/app"
	"hopchain/hopnode/service"
	"hopchain/pkg/conf"
	"hopchain/pkg/session/trace"

	"github.com/cloudwego/kitex/pkg/klog"
)

// NodeSpec 描述链路中的一个节点。Next为true时，本节点的第一个下游是紧随其后的节点
type NodeSpec struct {
	Name         string
	Fault        conf.FaultConf
	Next         bool
	ExtraTargets []string
	Timeout      time.Duration
	RandSource   service.RandSource
}

type ChainTest struct {
	t       *testing.T
	nodes   []*app.Node
	servers []*httptest.Server
	urls    map[string]string
}

// StartChain 从链尾开始构建节点，保证每个节点启动时下游地址已知。所有节点监听在本机随机端口
func StartChain(t *testing.T, level klog.Level, oTelConfig *trace.OTelConfig, specs ...NodeSpec) *ChainTest {
	t.Helper()
	klog.SetLevel(level)
	ret := &ChainTest{
		t:       t,
		nodes:   make([]*app.Node, len(specs)),
		servers: make([]*httptest.Server, len(specs)),
		urls:    make(map[string]string, len(specs)),
	}

	for i := len(specs) - 1; i >= 0; i-- {
		spec := specs[i]
		nodeConf := conf.DefaultNodeConf()
		nodeConf.Name = spec.Name
		nodeConf.Fault = spec.Fault
		if spec.Timeout > 0 {
			nodeConf.ForwardTimeout = spec.Timeout
		}
		if spec.Next && i+1 < len(specs) {
			nodeConf.Targets = append(nodeConf.Targets, ret.servers[i+1].URL)
		}
		nodeConf.Targets = append(nodeConf.Targets, spec.ExtraTargets...)

		node, err := app.NewNodeBuilder().
			WithInstanceID(spec.Name + "-test").
			WithNodeConf(nodeConf).
			WithHttpServe("127.0.0.1", 0).
			WithRandSource(spec.RandSource).
			WithOTelConfig(oTelConfig).
			Build(context.Background())
		if err != nil {
			t.Fatalf("build node %s: %v", spec.Name, err)
		}
		ret.nodes[i] = node
		ret.servers[i] = httptest.NewServer(node.Handler())
		ret.urls[spec.Name] = ret.servers[i].URL
	}

	t.Cleanup(ret.EndTest)
	return ret
}

// URL 返回节点名对应的地址
func (c *ChainTest) URL(name string) string {
	return c.urls[name]
}

// Entry 链路第一个节点的地址
func (c *ChainTest) Entry() string {
	return c.servers[0].URL
}

func (c *ChainTest) EndTest() {
	for _, server := range c.servers {
		server.Close()
	}
	for _, node := range c.nodes {
		if err := node.GracefulStop(); err != nil {
			c.t.Errorf("stop node %s: %v", node.InstanceID(), err)
		}
	}
	klog.Infof("ChainTest End")
}
