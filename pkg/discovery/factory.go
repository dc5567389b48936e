package discovery

import (
	"fmt"

	"hopchain/pkg/conf"
)

// NewDiscoveryClient 目前只支持consul
func NewDiscoveryClient(consulConf *conf.ConsulConf) (Client, error) {
	if consulConf == nil || !consulConf.Enable {
		return nil, fmt.Errorf("consul discovery is not enabled")
	}
	return newConsulDiscoverClient(consulConf.Host, consulConf.Port)
}
