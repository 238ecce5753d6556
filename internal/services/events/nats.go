package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"heartduel/internal/logging"
)

// Assuntos usados no barramento. Os consumidores vivem no backend principal.
const (
	subjectMatchRecord    = "pvp.match.record"
	subjectAffectionDelta = "pvp.affection.delta"
	subjectCharacterSteal = "pvp.character.steal"

	stealRequestTimeout = 5 * time.Second
)

// NATSPublisher implementa Publisher sobre uma conexão NATS.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("heartduel-pvp"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no NATS em %s: %w", url, err)
	}
	logging.Info("[Events] Conectado ao NATS em %s", nc.ConnectedUrl())
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) PublishMatchRecord(rec MatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("erro ao serializar registro da partida: %w", err)
	}
	return p.nc.Publish(subjectMatchRecord, data)
}

func (p *NATSPublisher) PublishAffectionDelta(sessionID string, delta int) error {
	data, err := json.Marshal(map[string]any{
		"session_id": sessionID,
		"delta":      delta,
	})
	if err != nil {
		return err
	}
	return p.nc.Publish(subjectAffectionDelta, data)
}

func (p *NATSPublisher) RequestCharacterSteal(winnerUserID, loserSessionID, loserUserID string) (string, error) {
	data, err := json.Marshal(map[string]any{
		"winner_user_id":   winnerUserID,
		"loser_session_id": loserSessionID,
		"loser_user_id":    loserUserID,
	})
	if err != nil {
		return "", err
	}

	// Roubo de personagem precisa de resposta: o serviço do outro lado cria a
	// nova sessão e devolve o id dela.
	msg, err := p.nc.Request(subjectCharacterSteal, data, stealRequestTimeout)
	if err != nil {
		return "", fmt.Errorf("pedido de roubo de personagem falhou: %w", err)
	}

	var reply struct {
		StolenSessionID string `json:"stolen_session_id"`
	}
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return "", fmt.Errorf("resposta de roubo de personagem inválida: %w", err)
	}
	return reply.StolenSessionID, nil
}

// Drain descarrega as mensagens pendentes e fecha a conexão.
func (p *NATSPublisher) Drain() error {
	return p.nc.Drain()
}
