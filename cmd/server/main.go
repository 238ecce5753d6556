package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"heartduel/internal/logging"
	"heartduel/internal/network"
	"heartduel/internal/services/cluster"
	"heartduel/internal/services/events"
	"heartduel/internal/services/store"
	"heartduel/internal/session"
)

// ============================================================================
// Constantes de Configuração Padrão
// ============================================================================
const (
	defaultServiceName  = "heartduel-pvp"
	defaultListenAddr   = ":8080"
	defaultMatchTimeout = 30 // segundos, igual ao matching original
)

// Config armazena todas as configurações da aplicação.
type Config struct {
	ServiceName  string
	ListenAddr   string
	ServicePort  int
	HealthPort   int
	RedisAddr    string
	NATSURL      string
	ConsulAddr   string
	MatchTimeout time.Duration
	LogLevel     string
}

// loadConfig carrega a configuração a partir de variáveis de ambiente.
// REDIS_ADDR, NATS_URL e CONSUL_HTTP_ADDR vazios desligam a integração
// correspondente, então o servidor sobe sozinho em desenvolvimento.
func loadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName: os.Getenv("PVP_SERVICE_NAME"),
		ListenAddr:  os.Getenv("PVP_LISTEN_ADDR"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		NATSURL:     os.Getenv("NATS_URL"),
		ConsulAddr:  os.Getenv("CONSUL_HTTP_ADDR"),
		LogLevel:    os.Getenv("PVP_LOG_LEVEL"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	portStr := os.Getenv("PVP_SERVICE_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("formato de PVP_SERVICE_PORT inválido: %w", err)
	}
	cfg.ServicePort = port

	healthStr := os.Getenv("PVP_HEALTH_PORT")
	if healthStr == "" {
		healthStr = portStr // por padrão, a mesma porta do serviço
	}
	healthPort, err := strconv.Atoi(healthStr)
	if err != nil {
		return nil, fmt.Errorf("formato de PVP_HEALTH_PORT inválido: %w", err)
	}
	cfg.HealthPort = healthPort

	timeoutStr := os.Getenv("MATCH_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		timeoutStr = strconv.Itoa(defaultMatchTimeout)
	}
	timeoutSec, err := strconv.Atoi(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("formato de MATCH_TIMEOUT_SECONDS inválido: %w", err)
	}
	cfg.MatchTimeout = time.Duration(timeoutSec) * time.Second

	return cfg, nil
}

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente mesmo.
	godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		logging.Fatal("Falha ao carregar configuração: %v", err)
	}
	logging.Init(cfg.ServiceName, cfg.LogLevel)
	logging.Info("[Main] Configuração carregada: addr=%s, redis=%q, nats=%q, consul=%q, matchTimeout=%s",
		cfg.ListenAddr, cfg.RedisAddr, cfg.NATSURL, cfg.ConsulAddr, cfg.MatchTimeout)

	// 1. SESSION STORE
	var sessions store.SessionStore
	if cfg.RedisAddr != "" {
		redisStore, err := store.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			logging.Fatal("Falha ao conectar no Redis: %v", err)
		}
		sessions = redisStore
		logging.Info("[Main] Session store: Redis em %s.", cfg.RedisAddr)
	} else {
		sessions = store.NewMemoryStore()
		logging.Warn("[Main] REDIS_ADDR vazio; usando session store em memória (apenas dev).")
	}

	// 2. EMISSÃO DE RESULTADOS
	var publisher events.Publisher
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			logging.Fatal("Falha ao conectar no NATS: %v", err)
		}
		defer natsPub.Drain()
		publisher = natsPub
	} else {
		publisher = events.NewMemoryPublisher()
		logging.Warn("[Main] NATS_URL vazio; resultados ficam só em memória (apenas dev).")
	}

	// 3. LÓGICA PVP + SERVIDOR DE REDE
	handler := session.NewPvPHandler(sessions, publisher, cfg.MatchTimeout)
	server := network.NewServer(handler, sessions)
	logging.Info("[Main] Handler PvP e servidor de rede criados.")

	// 4. HEALTH CHECK + REGISTRO NO CONSUL
	http.HandleFunc("/health", cluster.NewHealthHandler(func() map[string]int {
		return map[string]int{
			"queue_size":   handler.Matchmaker().Len(),
			"active_rooms": handler.Registry().Len(),
		}
	}))

	if cfg.ConsulAddr != "" {
		if err := cluster.RegisterServiceInConsul(cfg.ServiceName, cfg.ServicePort, cfg.HealthPort, cfg.ConsulAddr); err != nil {
			logging.Fatal("Falha ao registrar no Consul: %v", err)
		}
	} else {
		logging.Warn("[Main] CONSUL_HTTP_ADDR vazio; seguindo sem registro de serviço.")
	}

	// 5. SOBE O SERVIDOR (bloqueante)
	if err := server.Listen(cfg.ListenAddr); err != nil {
		logging.Fatal("Servidor encerrou com erro: %v", err)
	}
}
