package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hopchain/pkg/constance"
)

// Payload 请求经过的节点名列表，按经过的顺序排列
type Payload []string

// Append 返回在末尾追加name后的新Payload，不修改p本身
func (p Payload) Append(name string) Payload {
	ret := make(Payload, 0, len(p)+1)
	ret = append(ret, p...)
	return append(ret, name)
}

// maxPayloadBytes 请求、响应中payload body的上限
const maxPayloadBytes = 1 << 20

var errNotPayload = errors.New("body is not a json array of strings")

// ReadPayload 读取完整的body并解析为Payload。body后还有多余数据、元素为null、超过上限都视为格式错误
func ReadPayload(r io.Reader) (Payload, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxPayloadBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxPayloadBytes)
	}

	var items []*string
	if err = json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotPayload, err)
	}
	if items == nil {
		return nil, errNotPayload
	}
	ret := make(Payload, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: element %d is null", errNotPayload, i)
		}
		ret[i] = *item
	}
	return ret, nil
}

// SimulatedFailureError 按配置的概率主动制造的失败，不是bug
type SimulatedFailureError struct {
	Node string
}

func (e *SimulatedFailureError) Error() string {
	return "simulated error in " + e.Node
}

// DownstreamHTTPError 下游可达，但返回了200以外的状态码
type DownstreamHTTPError struct {
	Target     string
	StatusCode int
}

func (e *DownstreamHTTPError) Error() string {
	return fmt.Sprintf("error sending to %s: %d", e.Target, e.StatusCode)
}

// DownstreamTransportError 下游不可达、超时，或者返回的body无法解析
type DownstreamTransportError struct {
	Target string
	Err    error
}

func (e *DownstreamTransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Target, e.Err)
}

func (e *DownstreamTransportError) Unwrap() error {
	return e.Err
}

// ClassifyOutcome 把Process/Forward返回的error映射为上报用的结果分类
func ClassifyOutcome(err error) constance.OutcomeType {
	var (
		simulated *SimulatedFailureError
		httpErr   *DownstreamHTTPError
		transport *DownstreamTransportError
	)
	switch {
	case err == nil:
		return constance.OutcomeSuccess
	case errors.As(err, &simulated):
		return constance.OutcomeSimulatedFailure
	case errors.As(err, &httpErr):
		return constance.OutcomeDownstreamHTTPError
	case errors.As(err, &transport):
		return constance.OutcomeDownstreamTransportError
	default:
		return constance.OutcomeTypeMin
	}
}

// StatusCode 返回给调用方的HTTP状态码
func StatusCode(err error) int {
	switch ClassifyOutcome(err) {
	case constance.OutcomeSuccess:
		return http.StatusOK
	case constance.OutcomeDownstreamHTTPError:
		return http.StatusBadGateway
	case constance.OutcomeDownstreamTransportError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
