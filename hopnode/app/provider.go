package app

import (
	nethttp "net/http"
	"strconv"
	"time"

	"hopchain/hopnode/handler/http"
	"hopchain/hopnode/service"
	"hopchain/pkg/conf"
	"hopchain/pkg/constance"
	"hopchain/pkg/discovery"
	"hopchain/pkg/session/trace"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

const defaultReadHeaderTimeout = 10 * time.Second

// nodeConfFields 把NodeConf中的字段单独提供给需要它们的构造函数
var nodeConfFields = wire.FieldsOf(new(*conf.NodeConf), "Fault", "Targets", "ForwardTimeout")

// 节点名和instanceID都是string，需要包一层避免wire中的类型冲突
func provideProcessService(nodeConf *conf.NodeConf, injector *service.FaultInjector,
	forwarder *service.ChainForwarder, observer service.Observer) *service.ProcessService {
	return service.NewProcessService(nodeConf.Name, injector, forwarder, observer)
}

func provideRouter(processHandler *http.ProcessHandler, providers *trace.Providers,
	oTelConfig *trace.OTelConfig) *gin.Engine {
	return http.InitHttpHandler(constance.NodeServiceName, processHandler, providers.MetricsHandler,
		oTelConfig.EnableTrace)
}

func provideHttpServer(serveConf *discovery.ServiceServeConf, router *gin.Engine) *nethttp.Server {
	return &nethttp.Server{
		Addr:              ":" + strconv.Itoa(serveConf.Port),
		Handler:           router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
}
