package conf

import "strconv"

var DevConsulConfig = &ConsulConf{
	Host: "localhost",
	Port: 8500,
}

var K8sConsulConfig = &ConsulConf{
	Host: "consul-service",
	Port: 8500,
}

type ConsulConf struct {
	Enable bool   `yaml:"enable"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
}

func (c *ConsulConf) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
