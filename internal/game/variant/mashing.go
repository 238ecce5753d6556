package variant

import (
	"encoding/json"
	"fmt"
)

// Mashing é o jogo de apertar botão: cada lado manda atualizações de score
// (a última sobrescreve) até alguém sinalizar time_up. Maior score vence;
// empate exato vai para o host.
type Mashing struct {
	scores [2]int
}

func NewMashing() *Mashing {
	return &Mashing{}
}

func (m *Mashing) Name() string { return NameMashing }

func (m *Mashing) Apply(playerIdx int, action string, payload json.RawMessage) (*Result, error) {
	switch action {
	case "score":
		var body struct {
			Score int `json:"score"`
		}
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, fmt.Errorf("invalid score payload: %w", err)
		}
		m.scores[playerIdx] = body.Score
		return nil, nil

	case "time_up":
		// Qualquer um dos lados pode encerrar a rodada.
		winner := HostIdx
		if m.scores[GuestIdx] > m.scores[HostIdx] {
			winner = GuestIdx
		}
		return &Result{WinnerIdx: winner, Reason: "time_up"}, nil

	default:
		return nil, ErrUnknownAction
	}
}
