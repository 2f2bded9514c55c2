package registry

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"

	"github.com/shoplane-io/shoplane-api/internal/config"
)

// Register registers the HTTP service with a Consul agent, with the /healthz
// endpoint as the health check. It is a no-op when no Consul address is
// configured. The returned function deregisters the service.
func Register(logger *zerolog.Logger, cfg config.ConsulConfig, port int) (func(), error) {
	if cfg.Address == "" {
		return func() {}, nil
	}

	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = cfg.Address

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		return nil, err
	}

	serviceID := fmt.Sprintf("%s-%s-%d", cfg.ServiceName, cfg.ServiceHost, port)
	registration := &consulapi.AgentServiceRegistration{
		ID:      serviceID,
		Name:    cfg.ServiceName,
		Address: cfg.ServiceHost,
		Port:    port,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/healthz", cfg.ServiceHost, port),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, err
	}

	logger.Info().Str("service_id", serviceID).Msg("registered service with consul")

	return func() {
		if err := client.Agent().ServiceDeregister(serviceID); err != nil {
			logger.Error().Err(err).Msg("failed to deregister service from consul")
		}
	}, nil
}
