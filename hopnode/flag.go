package main

import (
	"fmt"
	"strconv"
	"time"

	"hopchain/pkg/conf"
	"hopchain/pkg/constance"
	"hopchain/pkg/util"

	"github.com/spf13/cobra"
)

type SetupConfig struct {
	InstanceID    string
	HttpPort      int
	AdvertiseHost string
	LogLevel      int
	ConfigPath    string
	EnableTrace   bool
	EnableMetrics bool
	NodeConf      *conf.NodeConf
	CommonConf    *conf.CommonConf
}

// flagValues 命令行参数的原始值，只有显式指定的参数才会覆盖配置文件和环境变量
type flagValues struct {
	instanceID       string
	name             string
	targets          string
	errors           int
	latency          int
	forwardTimeout   time.Duration
	httpPort         int
	advertiseHost    string
	logLevel         int
	configPath       string
	enableTrace      bool
	enableMetrics    bool
	otelEndpointHost string
	otelEndpointPort string
	traceExporter    string
	metricsExporter  string
	consul           bool
	consulHost       string
	consulPort       int
}

func bindFlags(cmd *cobra.Command, v *flagValues) {
	defaults := conf.DefaultNodeConf()
	flags := cmd.Flags()
	flags.StringVar(&v.instanceID, "instanceID", "", "instance id, generated when empty")
	flags.StringVar(&v.name, "name", defaults.Name, "node name appended to the payload")
	flags.StringVar(&v.targets, "targets", "", "comma separated downstream urls, called in order")
	flags.IntVar(&v.errors, "errors", 0, "simulated failure percentage, 0~100")
	flags.IntVar(&v.latency, "latency", 0, "max simulated latency in milliseconds")
	flags.DurationVar(&v.forwardTimeout, "forwardTimeout", defaults.ForwardTimeout, "timeout of each downstream call")
	flags.IntVar(&v.httpPort, "httpPort", 8080, "http port")
	flags.StringVar(&v.advertiseHost, "advertiseHost", "", "host registered to consul, hostname when empty")
	flags.IntVar(&v.logLevel, "logLevel", 2, "log level")
	flags.StringVar(&v.configPath, "config", "", "yaml config file")
	flags.BoolVar(&v.enableTrace, "enableTrace", true, "enable tracing")
	flags.BoolVar(&v.enableMetrics, "enableMetrics", true, "enable metrics")
	flags.StringVar(&v.otelEndpointHost, "otelEndpointHost", "", "otel collector host")
	flags.StringVar(&v.otelEndpointPort, "otelEndpointPort", "", "otel collector port")
	flags.StringVar(&v.traceExporter, "traceExporter", "", "trace exporter: none, otlp or stdout")
	flags.StringVar(&v.metricsExporter, "metricsExporter", "", "metrics exporter: none, otlp, stdout or prometheus")
	flags.BoolVar(&v.consul, "consul", false, "register to consul")
	flags.StringVar(&v.consulHost, "consulHost", "", "consul host")
	flags.IntVar(&v.consulPort, "consulPort", 0, "consul port")
}

// resolveSetupConfig 优先级：默认值 < 配置文件 < 环境变量 < 显式指定的命令行参数
func resolveSetupConfig(v *flagValues, changed func(string) bool,
	lookupEnv func(string) (string, bool)) (*SetupConfig, error) {
	cfg := &SetupConfig{
		HttpPort:      v.httpPort,
		AdvertiseHost: v.advertiseHost,
		LogLevel:      v.logLevel,
		ConfigPath:    v.configPath,
		EnableTrace:   v.enableTrace,
		EnableMetrics: v.enableMetrics,
		NodeConf:      conf.DefaultNodeConf(),
		CommonConf:    conf.GetCommonConfig(conf.Env(util.GetEnv())),
	}

	if cfg.ConfigPath != "" {
		if err := conf.LoadFile(cfg.ConfigPath, cfg.NodeConf, cfg.CommonConf); err != nil {
			return nil, err
		}
	}
	if err := cfg.NodeConf.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}

	node := cfg.NodeConf
	if changed("name") {
		node.Name = v.name
	}
	if changed("targets") {
		targets, err := conf.ParseTargets(v.targets)
		if err != nil {
			return nil, fmt.Errorf("--targets: %w", err)
		}
		node.Targets = targets
	}
	if changed("errors") {
		node.Fault.ErrorPercent = v.errors
	}
	if changed("latency") {
		node.Fault.MaxLatencyMillis = v.latency
	}
	if changed("forwardTimeout") {
		node.ForwardTimeout = v.forwardTimeout
	}

	otelConf := cfg.CommonConf.OTelConf
	if changed("otelEndpointHost") {
		otelConf.ExportEndpointHost = v.otelEndpointHost
	}
	if changed("otelEndpointPort") {
		otelConf.ExportEndpointPort = v.otelEndpointPort
	}
	if changed("traceExporter") {
		otelConf.TraceExporter = constance.ExporterType(v.traceExporter)
	}
	if changed("metricsExporter") {
		otelConf.MetricsExporter = constance.ExporterType(v.metricsExporter)
	}

	consulConf := cfg.CommonConf.ConsulConf
	if changed("consul") {
		consulConf.Enable = v.consul
	}
	if changed("consulHost") {
		consulConf.Host = v.consulHost
	}
	if changed("consulPort") {
		consulConf.Port = v.consulPort
	}

	if err := node.Validate(); err != nil {
		return nil, err
	}
	if err := otelConf.Validate(); err != nil {
		return nil, err
	}

	fallback := v.instanceID
	if fallback == "" {
		fallback = node.Name + "-" + strconv.Itoa(cfg.HttpPort)
	}
	cfg.InstanceID = util.GetInstanceID(fallback)
	return cfg, nil
}
