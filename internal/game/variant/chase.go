package variant

import "encoding/json"

// maxHits é o número de acertos sofridos que elimina um jogador.
const maxHits = 3

// Chase é o jogo de perseguição: os clientes trocam posições livremente e
// reportam quando levam um "hit". Quem acumula 3 hits perde.
type Chase struct {
	hits [2]int
}

func NewChase() *Chase {
	return &Chase{}
}

func (c *Chase) Name() string { return NameChase }

func (c *Chase) Apply(playerIdx int, action string, _ json.RawMessage) (*Result, error) {
	switch action {
	case "position":
		// Posição é só repasse para o oponente; não há condição de vitória.
		return nil, nil

	case "hit":
		c.hits[playerIdx]++
		if c.hits[playerIdx] < maxHits {
			return nil, nil
		}
		// Quem chegou a 3 hits é o perdedor.
		winner := GuestIdx
		if playerIdx == GuestIdx {
			winner = HostIdx
		}
		return &Result{WinnerIdx: winner, Reason: "three_hits"}, nil

	default:
		return nil, ErrUnknownAction
	}
}
