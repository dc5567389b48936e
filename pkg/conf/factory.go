package conf

type Env string

const (
	Dev Env = "dev"
	K8s Env = "k8s"
)

type CommonConf struct {
	*OTelConf
	*ConsulConf
}

// GetCommonConfig 按运行环境返回遥测、服务发现的默认配置。返回的是拷贝，调用方可以随意修改
func GetCommonConfig(env Env) *CommonConf {
	switch env {
	case K8s:
		otelConf, consulConf := *K8sTraceConfig, *K8sConsulConfig
		return &CommonConf{
			OTelConf:   &otelConf,
			ConsulConf: &consulConf,
		}
	default:
		otelConf, consulConf := *DevTraceConfig, *DevConsulConfig
		return &CommonConf{
			OTelConf:   &otelConf,
			ConsulConf: &consulConf,
		}
	}
}
