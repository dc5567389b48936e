package conf

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hopchain/pkg/util"
)

// DefaultForwardTimeout 每次向下游转发的超时时间，对所有下游相同
const DefaultForwardTimeout = 5 * time.Second

// 与已有部署清单保持一致的环境变量名
const (
	EnvNodeName   = "APP_NAME"
	EnvTargets    = "APP_URL_DESTINO"
	EnvErrors     = "APP_ERRORS"
	EnvMaxLatency = "APP_LATENCY"
)

// FaultConf 故障注入参数，启动后只读
type FaultConf struct {
	ErrorPercent     int `yaml:"errorPercent"`     //模拟失败的百分比，0~100
	MaxLatencyMillis int `yaml:"maxLatencyMillis"` //模拟延迟的上限（毫秒），0表示不注入延迟
}

func (c FaultConf) MaxLatency() time.Duration {
	return time.Duration(c.MaxLatencyMillis) * time.Millisecond
}

type NodeConf struct {
	Name           string        `yaml:"name"`
	Targets        []string      `yaml:"targets"`
	Fault          FaultConf     `yaml:"fault"`
	ForwardTimeout time.Duration `yaml:"forwardTimeout"`
}

func DefaultNodeConf() *NodeConf {
	return &NodeConf{
		Name:           "app-a",
		Targets:        make([]string, 0),
		ForwardTimeout: DefaultForwardTimeout,
	}
}

func (c *NodeConf) Validate() error {
	if c.Name == "" {
		return errors.New("empty node name")
	}
	if c.Fault.ErrorPercent < 0 || c.Fault.ErrorPercent > 100 {
		return fmt.Errorf("error percent must be within [0, 100], got %d", c.Fault.ErrorPercent)
	}
	if c.Fault.MaxLatencyMillis < 0 {
		return fmt.Errorf("max latency must not be negative, got %dms", c.Fault.MaxLatencyMillis)
	}
	if c.ForwardTimeout <= 0 {
		return fmt.Errorf("forward timeout must be positive, got %v", c.ForwardTimeout)
	}
	for _, target := range c.Targets {
		if err := validateTarget(target); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv 用环境变量覆盖配置，lookup一般传os.LookupEnv。
// 设置了但值为空的APP_NAME/APP_ERRORS/APP_LATENCY直接报错；APP_URL_DESTINO为空表示不转发
func (c *NodeConf) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvNodeName); ok {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is set but empty", EnvNodeName)
		}
		c.Name = v
	}
	if v, ok := lookup(EnvTargets); ok {
		targets, err := ParseTargets(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTargets, err)
		}
		c.Targets = targets
	}
	if v, ok := lookup(EnvErrors); ok {
		percent, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvErrors, err)
		}
		c.Fault.ErrorPercent = percent
	}
	if v, ok := lookup(EnvMaxLatency); ok {
		latency, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxLatency, err)
		}
		c.Fault.MaxLatencyMillis = latency
	}
	return nil
}

// ParseTargets 解析逗号分隔的下游地址列表。空串表示不转发；保持顺序，不去重
func ParseTargets(raw string) ([]string, error) {
	entries := util.DecodeList(strings.TrimSpace(raw))
	targets := make([]string, 0, len(entries))
	for _, entry := range entries {
		target := strings.TrimSpace(entry)
		if err := validateTarget(target); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func validateTarget(target string) error {
	if target == "" {
		return errors.New("empty downstream target")
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid downstream target %q: %w", target, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("downstream target %q must be an absolute http(s) url", target)
	}
	return nil
}
