package discovery

import (
	"strconv"

	"github.com/cloudwego/kitex/pkg/klog"
	"github.com/go-kit/kit/sd/consul"
	"github.com/hashicorp/consul/api"
)

type ConsulDiscoverClient struct {
	Host   string // Consul Host
	Port   int    // Consul Port
	client consul.Client
}

func newConsulDiscoverClient(consulHost string, consulPort int) (*ConsulDiscoverClient, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = consulHost + ":" + strconv.Itoa(consulPort)
	apiClient, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, err
	}
	return &ConsulDiscoverClient{
		Host:   consulHost,
		Port:   consulPort,
		client: consul.NewClient(apiClient),
	}, nil
}

func (consulClient *ConsulDiscoverClient) Register(instance *ServiceInstance) error {
	meta := make(map[string]string, len(instance.Meta)+1)
	for k, v := range instance.Meta {
		meta[k] = v
	}
	//编码protoc到meta中
	meta[serviceProtocFieldName] = string(instance.Protoc)

	serviceRegistration := &api.AgentServiceRegistration{
		ID:      instance.InstanceId,
		Name:    instance.ServiceName,
		Address: instance.Host,
		Port:    instance.Port,
		Meta:    meta,
	}
	if instance.MiddlewareHealthCheckUrl != "" {
		serviceRegistration.Check = &api.AgentServiceCheck{
			DeregisterCriticalServiceAfter: "30s",
			HTTP:                           instance.MiddlewareHealthCheckUrl,
			Interval:                       "15s",
		}
	}

	if err := consulClient.client.Register(serviceRegistration); err != nil {
		return err
	}
	klog.Infof("register to consul success, service:%s, instance:%s, address:%s:%d",
		instance.ServiceName, instance.InstanceId, instance.Host, instance.Port)
	return nil
}

func (consulClient *ConsulDiscoverClient) DeRegister(instanceId string) error {
	serviceRegistration := &api.AgentServiceRegistration{
		ID: instanceId,
	}
	return consulClient.client.Deregister(serviceRegistration)
}

var _ Client = (*ConsulDiscoverClient)(nil)
