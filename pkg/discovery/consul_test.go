package discovery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"hopchain/pkg/conf"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent 只实现注册、取消注册两个agent接口
type fakeAgent struct {
	mu           sync.Mutex
	registered   map[string]api.AgentServiceRegistration
	deregistered []string
}

func newFakeAgent(t *testing.T) (*fakeAgent, *conf.ConsulConf) {
	t.Helper()
	agent := &fakeAgent{registered: make(map[string]api.AgentServiceRegistration)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.mu.Lock()
		defer agent.mu.Unlock()
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/v1/agent/service/register":
			var reg api.AgentServiceRegistration
			if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			agent.registered[reg.ID] = reg
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
			id := strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/")
			delete(agent.registered, id)
			agent.deregistered = append(agent.deregistered, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return agent, &conf.ConsulConf{Enable: true, Host: u.Hostname(), Port: port}
}

func TestConsulRegisterAndDeRegister(t *testing.T) {
	agent, consulConf := newFakeAgent(t)
	client, err := NewDiscoveryClient(consulConf)
	require.NoError(t, err)

	instance := &ServiceInstance{
		ServiceName:              "hopchain-node",
		InstanceId:               "app-a-1",
		MiddlewareHealthCheckUrl: "http://10.0.0.1:8080/health",
		ServiceServeConf: ServiceServeConf{
			Protoc: ProtocTypeHttp,
			Host:   "10.0.0.1",
			Port:   8080,
		},
		Meta: map[string]string{"node": "app-a"},
	}
	require.NoError(t, client.Register(instance))

	agent.mu.Lock()
	reg, ok := agent.registered["app-a-1"]
	agent.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, "hopchain-node", reg.Name)
	assert.Equal(t, "10.0.0.1", reg.Address)
	assert.Equal(t, 8080, reg.Port)
	assert.Equal(t, "Http", reg.Meta[serviceProtocFieldName])
	assert.Equal(t, "app-a", reg.Meta["node"])
	require.NotNil(t, reg.Check)
	assert.Equal(t, "http://10.0.0.1:8080/health", reg.Check.HTTP)
	assert.Len(t, instance.Meta, 1, "caller meta must not be modified")

	require.NoError(t, client.DeRegister("app-a-1"))
	agent.mu.Lock()
	defer agent.mu.Unlock()
	assert.Empty(t, agent.registered)
	assert.Equal(t, []string{"app-a-1"}, agent.deregistered)
}

func TestNewDiscoveryClientRequiresEnabledConsul(t *testing.T) {
	_, err := NewDiscoveryClient(nil)
	assert.Error(t, err)
	_, err = NewDiscoveryClient(&conf.ConsulConf{Host: "localhost", Port: 8500})
	assert.Error(t, err)
}
