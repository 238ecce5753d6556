package session

import "heartduel/internal/session/message"

// Constantes de estado da sessão para evitar erros de digitação.
const (
	state_LOBBY    = "lobby"    // Conectado, fora da fila e fora de partida.
	state_IN_QUEUE = "in_queue" // Esperando pareamento na fila de matching.
	state_IN_MATCH = "in_match" // Em uma partida ativa.
)

// PlayerSession representa um jogador conectado ao núcleo PvP.
//
// Os campos mutáveis (State, CurrentRoom) são protegidos pelo lock do
// PvPHandler; nunca mexa neles fora de um caminho que o segure.
type PlayerSession struct {
	SessionID string
	UserID    string

	// Afeição no momento da conexão. A liquidação relê a afeição ao vivo no
	// Session Store; este snapshot é só o fallback.
	Affection int

	Client message.Sender

	State       string
	CurrentRoom *GameRoom
}
