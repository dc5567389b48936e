package constance

import "strconv"

// NodeServiceName 服务发现与遥测中使用的服务名
const NodeServiceName = "hopchain-node"

const (
	EndpointRoot    = "/"
	EndpointProcess = "/process"
	EndpointHealth  = "/health"
	EndpointMetrics = "/metrics"
)

// OutcomeType 一次请求（或一次下游调用）的最终结果分类，上报给observer
type OutcomeType int8

const (
	OutcomeTypeMin OutcomeType = iota
	OutcomeSuccess
	OutcomeSimulatedFailure
	OutcomeDownstreamHTTPError
	OutcomeDownstreamTransportError
	OutcomeBadRequest
	OutcomeTypeMax
)

var outcomeNames = [OutcomeTypeMax]string{
	OutcomeSuccess:                  "success",
	OutcomeSimulatedFailure:         "simulated_failure",
	OutcomeDownstreamHTTPError:      "downstream_http_error",
	OutcomeDownstreamTransportError: "downstream_transport_error",
	OutcomeBadRequest:               "bad_request",
}

func (t OutcomeType) String() string {
	if !t.Valid() {
		return "unknown_outcome_" + strconv.Itoa(int(t))
	}
	return outcomeNames[t]
}

func (t OutcomeType) Valid() bool {
	return t > OutcomeTypeMin && t < OutcomeTypeMax
}

type ExporterType string

const (
	ExporterTypeNone       ExporterType = "none"
	ExporterTypeOTLP       ExporterType = "otlp"
	ExporterTypeStdout     ExporterType = "stdout"
	ExporterTypePrometheus ExporterType = "prometheus"
)

// ValidTraceExporter prometheus只支持metrics
func (t ExporterType) ValidTraceExporter() bool {
	return t == ExporterTypeNone || t == ExporterTypeOTLP || t == ExporterTypeStdout
}

func (t ExporterType) ValidMetricsExporter() bool {
	return t == ExporterTypeNone || t == ExporterTypeOTLP || t == ExporterTypeStdout ||
		t == ExporterTypePrometheus
}
