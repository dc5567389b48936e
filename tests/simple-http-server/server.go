package simple_http_server

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// SimpleHttpServerInitConf 链路末端的下游，用来模拟不受控的第三方服务
type SimpleHttpServerInitConf struct {
	Name       string  //成功时追加到payload中的名字
	FailRate   float64 //返回FailStatus的概率，0~1
	FailStatus int     //默认503
}

type SimpleHttpServer struct {
	serveConfig *SimpleHttpServerInitConf
	server      *httptest.Server

	mu          sync.Mutex
	calledCount int
	failCount   int
	received    [][]string
}

func NewSimpleHttpServer(initConf *SimpleHttpServerInitConf) *SimpleHttpServer {
	if initConf.FailStatus == 0 {
		initConf.FailStatus = http.StatusServiceUnavailable
	}
	return &SimpleHttpServer{serveConfig: initConf}
}

// Start 监听随机端口，返回可以配置为下游的地址
func (s *SimpleHttpServer) Start() string {
	router := gin.New()
	router.POST("/process", s.handleProcess)
	s.server = httptest.NewServer(router)
	return s.server.URL
}

func (s *SimpleHttpServer) Stop() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *SimpleHttpServer) handleProcess(c *gin.Context) {
	var payload []string
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	s.calledCount++
	s.received = append(s.received, payload)
	fail := rand.Float64() < s.serveConfig.FailRate
	if fail {
		s.failCount++
	}
	s.mu.Unlock()

	if fail {
		c.JSON(s.serveConfig.FailStatus, gin.H{"error": "sink unavailable"})
		return
	}
	c.JSON(http.StatusOK, append(payload, s.serveConfig.Name))
}

func (s *SimpleHttpServer) GetCalledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calledCount
}

func (s *SimpleHttpServer) GetFailCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failCount
}

// GetReceived 按调用顺序返回收到的payload
func (s *SimpleHttpServer) GetReceived() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([][]string, len(s.received))
	copy(ret, s.received)
	return ret
}
