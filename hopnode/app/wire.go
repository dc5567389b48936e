//go:build wireinject
// +build wireinject

package app

import (
	"hopchain/hopnode/handler/http"
	"hopchain/hopnode/service"
	"hopchain/pkg/conf"
	"hopchain/pkg/discovery"
	"hopchain/pkg/session/trace"

	"github.com/google/wire"
)

func genNode(
	instanceID string,
	nodeConf *conf.NodeConf,
	serveConf *discovery.ServiceServeConf,
	randSource service.RandSource,
	oTelConfig *trace.OTelConfig,
	providers *trace.Providers,
	observer service.Observer,
	client discovery.Client,
) (*Node, error) {
	wire.Build(
		newNodeInner,
		nodeConfFields,

		//service
		service.NewFaultInjector,
		service.NewChainForwarder,
		provideProcessService,

		//handler
		http.NewProcessHandler,
		provideRouter,
		provideHttpServer,
	)

	return &Node{}, nil
}
