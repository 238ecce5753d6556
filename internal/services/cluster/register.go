package cluster

import (
	"fmt"
	"os"

	consul "github.com/hashicorp/consul/api"

	"heartduel/internal/logging"
)

// RegisterServiceInConsul registra este processo no Consul com um health
// check HTTP. O agente do Consul resolve o endereço do contêiner sozinho; o
// hostname entra só no ID do serviço e na URL do check.
func RegisterServiceInConsul(serviceName string, servicePort, healthPort int, consulAddr string) error {
	config := consul.DefaultConfig()
	config.Address = consulAddr

	consulClient, err := consul.NewClient(config)
	if err != nil {
		return fmt.Errorf("erro ao criar cliente Consul: %w", err)
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,
		Check: &consul.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", hostname, healthPort),
			Timeout:  "5s",
			Interval: "10s",
			// Desregistra sozinho se ficar crítico por mais de 1 minuto.
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := consulClient.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("falha ao registrar serviço no Consul: %w", err)
	}

	logging.Info("[Cluster] Serviço '%s' registrado no Consul com ID %s.", serviceName, serviceID)
	return nil
}
