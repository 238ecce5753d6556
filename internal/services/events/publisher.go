package events

import "time"

// MatchRecord é o registro de uma partida concluída (ou encerrada por W.O.),
// no formato que o serviço de persistência espera gravar. Escrito uma única
// vez por partida.
type MatchRecord struct {
	ID                   string    `json:"id"`
	Player1SessionID     string    `json:"player1_session_id"`
	Player2SessionID     string    `json:"player2_session_id"`
	Player1Bet           int       `json:"player1_bet"`
	Player2Bet           int       `json:"player2_bet"`
	FinalBet             int       `json:"final_bet"`
	WinnerUserID         string    `json:"winner_user_id"`
	LoserCharacterStolen bool      `json:"loser_character_stolen"`
	CreatedAt            time.Time `json:"created_at"`
}

// Publisher é a fronteira com os colaboradores externos de resultado:
// persistência da partida, serviço de afeição e serviço de roubo de
// personagem. O núcleo só emite; quem aplica é o outro lado.
type Publisher interface {
	// PublishMatchRecord emite o registro da partida para persistência.
	PublishMatchRecord(rec MatchRecord) error

	// PublishAffectionDelta emite a variação (com sinal) de afeição de uma
	// sessão após a liquidação.
	PublishAffectionDelta(sessionID string, delta int) error

	// RequestCharacterSteal pede a transferência do personagem para o
	// vencedor e devolve o id da nova sessão criada para ele.
	RequestCharacterSteal(winnerUserID, loserSessionID, loserUserID string) (string, error)
}
