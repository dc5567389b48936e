package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"hopchain/hopnode/service"
	"hopchain/pkg/conf"
	"hopchain/pkg/constance"
	"hopchain/pkg/discovery"
	"hopchain/pkg/session/trace"

	"github.com/cloudwego/kitex/pkg/klog"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// 优雅退出时等待处理中请求结束的最长时间
const gracefulStopTimeout = 10 * time.Second

type Node struct {
	//config
	instanceID string
	nodeConf   *conf.NodeConf
	serveConf  *discovery.ServiceServeConf

	//openTelemetry
	providers *trace.Providers

	//discovery，不开启时为nil
	discoveryClient discovery.Client

	//service
	processService *service.ProcessService

	router   *gin.Engine
	server   *http.Server
	stopOnce sync.Once
	stopErr  error
}

func newNodeInner(
	instanceID string,
	nodeConf *conf.NodeConf,
	serveConf *discovery.ServiceServeConf,
	providers *trace.Providers,
	discoveryClient discovery.Client,
	processService *service.ProcessService,
	router *gin.Engine,
	server *http.Server,
) *Node {
	return &Node{
		instanceID:      instanceID,
		nodeConf:        nodeConf,
		serveConf:       serveConf,
		providers:       providers,
		discoveryClient: discoveryClient,
		processService:  processService,
		router:          router,
		server:          server,
	}
}

func (n *Node) InstanceID() string {
	return n.instanceID
}

// Handler 返回处理所有路由的http.Handler，测试时可以直接挂到httptest上
func (n *Node) Handler() http.Handler {
	return n.router
}

func (n *Node) GetProcessService() *service.ProcessService {
	return n.processService
}

func (n *Node) register(port int) error {
	if n.discoveryClient == nil {
		return nil
	}
	address := n.serveConf.Host + ":" + strconv.Itoa(port)
	instance := &discovery.ServiceInstance{
		ServiceName:              constance.NodeServiceName,
		InstanceId:               n.instanceID,
		MiddlewareHealthCheckUrl: "http://" + address + constance.EndpointHealth,
		ServiceServeConf: discovery.ServiceServeConf{
			Protoc: n.serveConf.Protoc,
			Host:   n.serveConf.Host,
			Port:   port,
		},
		Meta: map[string]string{"node": n.nodeConf.Name},
	}

	klog.Infof("node try register service: %+v", instance)
	return n.discoveryClient.Register(instance)
}

// Start 阻塞运行直到ctx结束、收到SIGINT/SIGTERM或者http server出错，返回前会执行GracefulStop
func (n *Node) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", n.server.Addr)
	if err != nil {
		return errors.Join(fmt.Errorf("listen %s: %w", n.server.Addr, err), n.GracefulStop())
	}
	port := listener.Addr().(*net.TCPAddr).Port

	if err = n.register(port); err != nil {
		_ = listener.Close()
		return errors.Join(fmt.Errorf("register node: %w", err), n.GracefulStop())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		klog.Infof("node %s serving at %s, targets:%v", n.nodeConf.Name, listener.Addr(), n.nodeConf.Targets)
		if err := n.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		klog.Infof("node %s start graceful stop", n.nodeConf.Name)
		return n.GracefulStop()
	})

	return g.Wait()
}

// GracefulStop 取消注册 -> 停止接收新请求并等待处理中的请求 -> 刷新遥测数据。可以重复调用
func (n *Node) GracefulStop() error {
	n.stopOnce.Do(func() {
		var errs []error
		//1.先从服务发现中摘掉自己，不再有新流量导入
		if n.discoveryClient != nil {
			if err := n.discoveryClient.DeRegister(n.instanceID); err != nil {
				klog.Errorf("fail to DeRegister node service:%v", err)
				errs = append(errs, err)
			}
		}

		//2.http不接受新连接，等待处理中的请求结束
		ctx, cancel := context.WithTimeout(context.Background(), gracefulStopTimeout)
		defer cancel()
		if err := n.server.Shutdown(ctx); err != nil {
			klog.Errorf("fail to shutdown http server:%v", err)
			errs = append(errs, err)
		}

		//3.刷新trace、metrics
		if err := n.providers.Shutdown(ctx); err != nil {
			klog.Errorf("stop oTelProvider error:%v", err)
			errs = append(errs, err)
		}
		n.stopErr = errors.Join(errs...)
		klog.Infof("node %s stopped", n.nodeConf.Name)
	})
	return n.stopErr
}
