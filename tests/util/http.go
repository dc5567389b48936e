package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// SendPayload 向节点的/process发送payload，返回状态码和原始响应体
func SendPayload(address string, payload []string) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	resp, err := client.Post(address+"/process", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, content, nil
}

// DecodePayload 解析200时的响应体
func DecodePayload(content []byte) ([]string, error) {
	var payload []string
	if err := json.Unmarshal(content, &payload); err != nil {
		return nil, fmt.Errorf("decode payload %q: %w", content, err)
	}
	return payload, nil
}

// DecodeError 解析非200时的响应体中的error字段
func DecodeError(content []byte) (string, error) {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(content, &body); err != nil {
		return "", fmt.Errorf("decode error body %q: %w", content, err)
	}
	return body.Error, nil
}
