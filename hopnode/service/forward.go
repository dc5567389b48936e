package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hopchain/pkg/constance"

	"github.com/armon/circbuf"
	"github.com/cloudwego/kitex/pkg/klog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// maxCapturedBody 下游返回非200时，最多记录多少字节的body用于排查
	maxCapturedBody = 4096
	// maxDrainedBody 丢弃body时最多读取的字节数，防止下游返回超大body
	maxDrainedBody = 1 << 20
)

// ChainForwarder 按顺序把payload依次发给每个下游，每一跳的返回值作为下一跳的输入。
// 遇到第一个失败立即返回，不重试
type ChainForwarder struct {
	targets  []string
	client   *http.Client
	observer Observer
}

func NewChainForwarder(targets []string, timeout time.Duration, observer Observer) *ChainForwarder {
	if observer == nil {
		observer = NopObserver{}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &ChainForwarder{
		targets:  append([]string(nil), targets...),
		observer: observer,
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   timeout,
		},
	}
}

func (f *ChainForwarder) HasTargets() bool {
	return len(f.targets) > 0
}

func (f *ChainForwarder) Forward(ctx context.Context, payload Payload) (Payload, error) {
	running := payload
	for _, target := range f.targets {
		start := time.Now()
		next, err := f.call(ctx, target, running)
		f.observer.RecordDownstreamCall(ctx, target, time.Since(start).Seconds(), ClassifyOutcome(err))
		if err != nil {
			klog.CtxWarnf(ctx, "forward chain stopped at %s: %v", target, err)
			return nil, err
		}
		running = next
	}
	return running, nil
}

func (f *ChainForwarder) call(ctx context.Context, target string, payload Payload) (Payload, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &DownstreamTransportError{Target: target, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(target, "/")+constance.EndpointProcess, bytes.NewReader(body))
	if err != nil {
		return nil, &DownstreamTransportError{Target: target, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &DownstreamTransportError{Target: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logRejectedBody(ctx, target, resp)
		return nil, &DownstreamHTTPError{Target: target, StatusCode: resp.StatusCode}
	}

	next, err := ReadPayload(resp.Body)
	if err != nil {
		return nil, &DownstreamTransportError{Target: target, Err: fmt.Errorf("decode response: %w", err)}
	}
	klog.CtxDebugf(ctx, "forwarded to %s, trail length:%d", target, len(next))
	return next, nil
}

// logRejectedBody 只保留body最后maxCapturedBody个字节，一般错误信息在末尾
func (f *ChainForwarder) logRejectedBody(ctx context.Context, target string, resp *http.Response) {
	output, _ := circbuf.NewBuffer(maxCapturedBody)
	if _, err := io.Copy(output, io.LimitReader(resp.Body, maxDrainedBody)); err != nil {
		klog.CtxWarnf(ctx, "read rejected response from %s failed: %v", target, err)
	}
	if output.TotalWritten() > output.Size() {
		klog.CtxWarnf(ctx, "downstream %s responded %d, body truncated to last %d of %d bytes: %s",
			target, resp.StatusCode, output.Size(), output.TotalWritten(), output.String())
		return
	}
	klog.CtxWarnf(ctx, "downstream %s responded %d, body: %s", target, resp.StatusCode, output.String())
}
