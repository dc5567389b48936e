package conf

import (
	"fmt"
	"net"

	"hopchain/pkg/constance"
)

var DevTraceConfig = &OTelConf{
	ExportEndpointHost: "localhost",
	ExportEndpointPort: "4317",
	Insecure:           true,
	TraceExporter:      constance.ExporterTypeStdout,
	MetricsExporter:    constance.ExporterTypePrometheus,
}

var K8sTraceConfig = &OTelConf{
	ExportEndpointHost: "otel-collector",
	ExportEndpointPort: "4317",
	Insecure:           true,
	TraceExporter:      constance.ExporterTypeOTLP,
	MetricsExporter:    constance.ExporterTypePrometheus,
}

type OTelConf struct {
	ExportEndpointHost string                 `yaml:"exportEndpointHost"`
	ExportEndpointPort string                 `yaml:"exportEndpointPort"`
	Insecure           bool                   `yaml:"insecure"`
	TraceExporter      constance.ExporterType `yaml:"traceExporter"`
	MetricsExporter    constance.ExporterType `yaml:"metricsExporter"`
}

func (c *OTelConf) Endpoint() string {
	return net.JoinHostPort(c.ExportEndpointHost, c.ExportEndpointPort)
}

func (c *OTelConf) Validate() error {
	if !c.TraceExporter.ValidTraceExporter() {
		return fmt.Errorf("unknown trace exporter: %q", c.TraceExporter)
	}
	if !c.MetricsExporter.ValidMetricsExporter() {
		return fmt.Errorf("unknown metrics exporter: %q", c.MetricsExporter)
	}
	if (c.TraceExporter == constance.ExporterTypeOTLP || c.MetricsExporter == constance.ExporterTypeOTLP) &&
		c.ExportEndpointHost == "" {
		return fmt.Errorf("otlp exporter selected but export endpoint host is empty")
	}
	return nil
}
