package store

import (
	"context"
	"errors"
)

// StatusPlaying é o status de uma sessão de jogo ainda em andamento.
// Qualquer outro valor significa que o jogo daquela sessão já terminou.
const StatusPlaying = "playing"

// ErrSessionNotFound indica que o session_id não existe no armazenamento.
var ErrSessionNotFound = errors.New("game session not found")

// GameSession é a visão que o núcleo PvP tem de uma sessão do jogo principal.
// O dono dos dados é o serviço de sessões; aqui só consumimos.
type GameSession struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	UserID    string `json:"user_id"`
	Affection int    `json:"affection"`
}

// SessionStore é o colaborador externo de sessões. É consultado na conexão
// (validação) e de novo na liquidação, para ler a afeição ao vivo.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*GameSession, error)
}
