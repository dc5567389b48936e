package http

import (
	"net/http"
	"time"

	"hopchain/hopnode/service"
	"hopchain/pkg/constance"

	"github.com/gin-gonic/gin"
)

type ProcessHandler struct {
	processService *service.ProcessService
	observer       service.Observer
}

func NewProcessHandler(processService *service.ProcessService, observer service.Observer) *ProcessHandler {
	if observer == nil {
		observer = service.NopObserver{}
	}
	return &ProcessHandler{
		processService: processService,
		observer:       observer,
	}
}

func (h *ProcessHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET(constance.EndpointRoot, h.Hello)
	router.POST(constance.EndpointProcess, h.Process)
	router.GET(constance.EndpointHealth, h.Health)
}

func (h *ProcessHandler) Hello(c *gin.Context) {
	start := time.Now()
	c.JSON(http.StatusOK, gin.H{"message": "this is service " + h.processService.NodeName()})
	h.observer.RecordRequest(c.Request.Context(), constance.EndpointRoot, time.Since(start).Seconds(),
		constance.OutcomeSuccess)
}

func (h *ProcessHandler) Process(c *gin.Context) {
	start := time.Now()
	payload, err := service.ReadPayload(c.Request.Body)
	if err != nil {
		h.observer.RecordRequest(c.Request.Context(), constance.EndpointProcess, time.Since(start).Seconds(),
			constance.OutcomeBadRequest)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	out, err := h.processService.Process(c.Request.Context(), payload)
	if err != nil {
		c.JSON(service.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// Health consul健康检查使用，不计入请求统计
func (h *ProcessHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
