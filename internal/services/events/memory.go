package events

import (
	"sync"

	"github.com/google/uuid"
)

// AffectionDelta é um par (sessão, variação) registrado pelo MemoryPublisher.
type AffectionDelta struct {
	SessionID string
	Delta     int
}

// StealRequest é um pedido de roubo registrado pelo MemoryPublisher.
type StealRequest struct {
	WinnerUserID   string
	LoserSessionID string
	LoserUserID    string
	NewSessionID   string
}

// MemoryPublisher registra tudo que o núcleo emite. Serve para os testes e
// para rodar o servidor sem broker configurado.
type MemoryPublisher struct {
	mu      sync.Mutex
	records []MatchRecord
	deltas  []AffectionDelta
	steals  []StealRequest
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) PublishMatchRecord(rec MatchRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
	return nil
}

func (p *MemoryPublisher) PublishAffectionDelta(sessionID string, delta int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deltas = append(p.deltas, AffectionDelta{SessionID: sessionID, Delta: delta})
	return nil
}

func (p *MemoryPublisher) RequestCharacterSteal(winnerUserID, loserSessionID, loserUserID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	req := StealRequest{
		WinnerUserID:   winnerUserID,
		LoserSessionID: loserSessionID,
		LoserUserID:    loserUserID,
		NewSessionID:   uuid.NewString(),
	}
	p.steals = append(p.steals, req)
	return req.NewSessionID, nil
}

// Records devolve uma cópia dos registros de partida emitidos.
func (p *MemoryPublisher) Records() []MatchRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]MatchRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Deltas devolve uma cópia das variações de afeição emitidas.
func (p *MemoryPublisher) Deltas() []AffectionDelta {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]AffectionDelta, len(p.deltas))
	copy(out, p.deltas)
	return out
}

// Steals devolve uma cópia dos pedidos de roubo emitidos.
func (p *MemoryPublisher) Steals() []StealRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]StealRequest, len(p.steals))
	copy(out, p.steals)
	return out
}
