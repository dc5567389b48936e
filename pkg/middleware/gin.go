package middleware

import (
	"time"

	"hopchain/pkg/util"

	"github.com/cloudwego/kitex/pkg/klog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "requestID"
)

func PrintGinHeader(c *gin.Context) {
	headers := c.Request.Header
	for key, values := range headers {
		for _, value := range values {
			klog.CtxTracef(c.Request.Context(), "%s: %s\n", key, value)
		}
	}
	c.Next()
}

// RequestID 沿用上游传来的请求ID，没有则生成一个，并写回响应头
func RequestID(c *gin.Context) {
	requestID := c.GetHeader(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(RequestIDKey, requestID)
	c.Header(RequestIDHeader, requestID)
	c.Next()
}

func AccessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	ctx := c.Request.Context()
	status := c.Writer.Status()
	format := "%s %s status:%d cost:%v requestID:%s traceID:%s"
	args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start),
		c.GetString(RequestIDKey), util.TraceIDFromContext(ctx)}
	if status >= 500 {
		klog.CtxWarnf(ctx, format, args...)
		return
	}
	klog.CtxInfof(ctx, format, args...)
}
