package message

// Isso aqui são as mensagens que vão no sentido servidor -> cliente.

import (
	"encoding/json"

	"heartduel/internal/game/solo"
)

// Sender é qualquer destino que pode receber uma mensagem de saída. Desacopla
// este pacote do network.Client concreto, o que deixa as salas testáveis com
// um fake.
type Sender interface {
	Send() chan<- any
}

// Deliver tenta entregar uma mensagem sem nunca bloquear a lógica do jogo.
// Buffer cheio descarta a mensagem (cliente lento); canal já fechado pelo Hub
// conta como destinatário inalcançável. Nos dois casos retorna false.
func Deliver(s Sender, msg any) (ok bool) {
	defer func() {
		// Enviar num canal fechado entra em pânico; um timer de timeout pode
		// correr com o desregistro do Hub, então tratamos aqui.
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case s.Send() <- msg:
		return true
	default:
		return false
	}
}

// ConnectedEvent confirma a conexão aceita no servidor de matching.
type ConnectedEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

func Connected(sessionID string) ConnectedEvent {
	return ConnectedEvent{
		Type:      "connected",
		Message:   "Connected to the PvP matching server.",
		SessionID: sessionID,
	}
}

// QueueJoinedEvent confirma a entrada na fila de matching.
type QueueJoinedEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	BetAmount int    `json:"bet_amount"`
}

func QueueJoined(betAmount int) QueueJoinedEvent {
	return QueueJoinedEvent{
		Type:      "queue_joined",
		Message:   "You are now in the matchmaking queue.",
		BetAmount: betAmount,
	}
}

// QueueLeftEvent confirma a saída da fila.
type QueueLeftEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func QueueLeft() QueueLeftEvent {
	return QueueLeftEvent{
		Type:    "queue_left",
		Message: "You have left the matchmaking queue.",
	}
}

// MatchedEvent anuncia o pareamento para um dos lados. Os campos de oponente
// e is_host são espelhados entre os dois jogadores.
type MatchedEvent struct {
	Type              string `json:"type"`
	RoomID            string `json:"room_id"`
	Variant           string `json:"variant"`
	CorrectCup        *int   `json:"correct_cup,omitempty"` // só na variante shell
	IsHost            bool   `json:"is_host"`
	OpponentSessionID string `json:"opponent_session_id"`
	OpponentBet       int    `json:"opponent_bet"`
	FinalBet          int    `json:"final_bet"`
}

func Matched(roomID, variantName string, correctCup *int, isHost bool, opponentSessionID string, opponentBet, finalBet int) MatchedEvent {
	return MatchedEvent{
		Type:              "matched",
		RoomID:            roomID,
		Variant:           variantName,
		CorrectCup:        correctCup,
		IsHost:            isHost,
		OpponentSessionID: opponentSessionID,
		OpponentBet:       opponentBet,
		FinalBet:          finalBet,
	}
}

// GameUpdateEvent repassa uma ação do oponente, com o nome prefixado de
// "opponent_".
type GameUpdateEvent struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"room_id"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func GameUpdate(roomID, action string, payload json.RawMessage) GameUpdateEvent {
	return GameUpdateEvent{
		Type:    "game_update",
		RoomID:  roomID,
		Action:  "opponent_" + action,
		Payload: payload,
	}
}

// PvPResultEvent é o resultado final da partida para um dos lados.
type PvPResultEvent struct {
	Type            string `json:"type"`
	RoomID          string `json:"room_id"`
	Winner          bool   `json:"winner"`
	Reason          string `json:"reason"`
	FinalBet        int    `json:"final_bet"`
	NewAffection    int    `json:"new_affection"`
	CharacterStolen bool   `json:"character_stolen"`
	StolenSessionID string `json:"stolen_session_id,omitempty"`
}

func PvPResult(roomID string, winner bool, reason string, finalBet, newAffection int, characterStolen bool, stolenSessionID string) PvPResultEvent {
	return PvPResultEvent{
		Type:            "pvp_result",
		RoomID:          roomID,
		Winner:          winner,
		Reason:          reason,
		FinalBet:        finalBet,
		NewAffection:    newAffection,
		CharacterStolen: characterStolen,
		StolenSessionID: stolenSessionID,
	}
}

// MatchTimeoutEvent avisa que o matching estourou o tempo e entrega a tabela
// de dificuldade do minigame solo de fallback.
type MatchTimeoutEvent struct {
	Type            string          `json:"type"`
	Message         string          `json:"message"`
	TriggerMinigame bool            `json:"trigger_minigame"`
	MinigameType    string          `json:"minigame_type"`
	Difficulty      solo.Difficulty `json:"difficulty"`
}

func MatchTimeout() MatchTimeoutEvent {
	return MatchTimeoutEvent{
		Type:            "match_timeout",
		Message:         "No opponent found. Starting solo minigame.",
		TriggerMinigame: true,
		MinigameType:    "solo",
		Difficulty:      solo.SoloDifficulty,
	}
}
