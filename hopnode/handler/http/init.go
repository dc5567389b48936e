package http

import (
	"net/http"

	"hopchain/pkg/constance"
	"hopchain/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// InitHttpHandler metricsHandler为nil时不暴露/metrics
func InitHttpHandler(serviceName string, processHandler *ProcessHandler, metricsHandler http.Handler,
	enableTrace bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if enableTrace {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(middleware.RequestID, middleware.AccessLog, middleware.PrintGinHeader)

	processHandler.RegisterRoutes(router.Group("/"))
	if metricsHandler != nil {
		router.GET(constance.EndpointMetrics, gin.WrapH(metricsHandler))
	}

	return router
}
