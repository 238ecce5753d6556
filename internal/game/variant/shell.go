package variant

import (
	"encoding/json"
	"fmt"
)

// Shell é o jogo dos copos: um copo correto escondido, cada jogador escolhe
// um copo, e acertar sozinho vence. Empate (dois acertos ou dois erros) vai
// para o host — desempate assimétrico documentado do jogo original.
type Shell struct {
	correctCup int
	selected   [2]int
	chosen     [2]bool
}

// NewShell cria a variante com o copo correto já sorteado (0, 1 ou 2).
func NewShell(correctCup int) *Shell {
	return &Shell{correctCup: correctCup}
}

func (s *Shell) Name() string { return NameShell }

// CorrectCup expõe o copo correto para o evento matched (os clientes precisam
// dele para animar a embaralhada).
func (s *Shell) CorrectCup() int { return s.correctCup }

func (s *Shell) Apply(playerIdx int, action string, payload json.RawMessage) (*Result, error) {
	if action != "select" {
		return nil, ErrUnknownAction
	}
	if s.chosen[playerIdx] {
		return nil, fmt.Errorf("player %d already selected a cup", playerIdx)
	}

	var body struct {
		CupIndex int `json:"cup_index"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("invalid select payload: %w", err)
	}
	if body.CupIndex < 0 || body.CupIndex > 2 {
		return nil, fmt.Errorf("cup_index %d out of range", body.CupIndex)
	}

	s.selected[playerIdx] = body.CupIndex
	s.chosen[playerIdx] = true

	// Terminal só quando os dois escolheram.
	if !s.chosen[HostIdx] || !s.chosen[GuestIdx] {
		return nil, nil
	}

	hostCorrect := s.selected[HostIdx] == s.correctCup
	guestCorrect := s.selected[GuestIdx] == s.correctCup

	winner := HostIdx
	if guestCorrect && !hostCorrect {
		winner = GuestIdx
	}
	return &Result{WinnerIdx: winner, Reason: "shell_result"}, nil
}
