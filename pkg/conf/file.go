package conf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConf 配置文件结构，例如：
//
//	node:
//	  name: app-a
//	  targets: ["http://app-b:8080", "http://app-c:8080"]
//	  fault:
//	    errorPercent: 10
//	    maxLatencyMillis: 200
//	  forwardTimeout: 5s
//	otel:
//	  traceExporter: otlp
//	  metricsExporter: prometheus
//	consul:
//	  enable: false
type FileConf struct {
	Node   *NodeConf   `yaml:"node"`
	OTel   *OTelConf   `yaml:"otel"`
	Consul *ConsulConf `yaml:"consul"`
}

// LoadFile 把配置文件的内容覆盖到传入的配置上，文件中没有出现的字段保持原值
func LoadFile(path string, node *NodeConf, common *CommonConf) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConf{
		Node:   node,
		OTel:   common.OTelConf,
		Consul: common.ConsulConf,
	}
	if err = yaml.Unmarshal(content, fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
