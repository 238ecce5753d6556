package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"heartduel/internal/game/settle"
	"heartduel/internal/game/variant"
	"heartduel/internal/logging"
	"heartduel/internal/services/events"
	"heartduel/internal/services/store"
	"heartduel/internal/session/message"
)

// Fases do ciclo de vida de uma sala.
const (
	phase_OPEN      = "open"      // Aceitando ações dos jogadores.
	phase_RESOLVING = "resolving" // Condição terminal atingida, liquidando.
	phase_CLOSED    = "closed"    // Terminal. A sala nunca mais é mutada.
)

// RoomPlayer é um participante da sala com os dados que vieram do ticket.
type RoomPlayer struct {
	Session *PlayerSession
	Bet     int
}

// GameRoom é uma partida ativa: os dois participantes, a variante sorteada e
// a fase. Toda mutação passa pelo lock da sala, então duas ações concorrentes
// dos dois jogadores são aplicadas em alguma ordem total, nunca intercaladas.
type GameRoom struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	phase   string
	variant variant.Variant

	// players[0] é sempre o host (o ticket que já estava esperando).
	players [2]*RoomPlayer

	// correctCup só existe na variante shell; vai no evento matched.
	correctCup *int

	finalBet int

	sessions  store.SessionStore
	publisher events.Publisher
	registry  *Registry
}

// NewGameRoom monta a sala a partir dos dois tickets pareados. O registro no
// Registry é responsabilidade do chamador (dentro da seção crítica do
// pareamento).
func NewGameRoom(id string, v variant.Variant, correctCup *int, host, guest *MatchTicket, sessions store.SessionStore, publisher events.Publisher, registry *Registry) *GameRoom {
	return &GameRoom{
		ID:         id,
		CreatedAt:  time.Now(),
		phase:      phase_OPEN,
		variant:    v,
		correctCup: correctCup,
		players: [2]*RoomPlayer{
			{Session: host.Session, Bet: host.Bet},
			{Session: guest.Session, Bet: guest.Bet},
		},
		finalBet:  settle.FinalBet(host.Bet, guest.Bet),
		sessions:  sessions,
		publisher: publisher,
		registry:  registry,
	}
}

// Announce marca os dois jogadores como em partida e envia o evento matched
// para cada lado, com os campos de oponente espelhados.
func (gr *GameRoom) Announce() {
	gr.mu.Lock()
	defer gr.mu.Unlock()

	for i, p := range gr.players {
		opp := gr.players[1-i]
		p.Session.State = state_IN_MATCH
		p.Session.CurrentRoom = gr

		evt := message.Matched(gr.ID, gr.variant.Name(), gr.correctCup, i == variant.HostIdx, opp.Session.SessionID, opp.Bet, gr.finalBet)
		if !message.Deliver(p.Session.Client, evt) {
			logging.Warn("[GameRoom %s] não consegui entregar matched para %s", gr.ID, p.Session.SessionID)
		}
	}
	logging.Info("[GameRoom %s] Partida %s: %s (host) vs %s, aposta final %d.",
		gr.ID, gr.variant.Name(), gr.players[0].Session.SessionID, gr.players[1].Session.SessionID, gr.finalBet)
}

// Variant devolve o nome da variante sorteada.
func (gr *GameRoom) Variant() string {
	return gr.variant.Name()
}

// Phase devolve a fase atual da sala.
func (gr *GameRoom) Phase() string {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	return gr.phase
}

// HandleAction aplica uma ação de jogo de um participante.
//
// Ação de quem não participa, ação desconhecida ou sala fora da fase Open são
// descartadas em silêncio: erro de protocolo nunca derruba a conexão. Toda
// ação válida é repassada ao oponente ANTES da avaliação terminal, para a UI
// dele continuar viva mesmo na ação final.
func (gr *GameRoom) HandleAction(sessionID, action string, payload json.RawMessage) {
	gr.mu.Lock()
	defer gr.mu.Unlock()

	if gr.phase != phase_OPEN {
		return
	}

	idx := gr.indexOfLocked(sessionID)
	if idx < 0 {
		return
	}

	result, err := gr.variant.Apply(idx, action, payload)
	if err != nil {
		if errors.Is(err, variant.ErrUnknownAction) {
			logging.Debug("[GameRoom %s] ação desconhecida %q de %s ignorada", gr.ID, action, sessionID)
		} else {
			logging.Debug("[GameRoom %s] ação %q de %s rejeitada: %v", gr.ID, action, sessionID, err)
		}
		return
	}

	// Repasse para o oponente, com o nome prefixado.
	opp := gr.players[1-idx]
	message.Deliver(opp.Session.Client, message.GameUpdate(gr.ID, action, payload))

	if result != nil {
		gr.resolveLocked(result.WinnerIdx, result.Reason)
	}
}

// Forfeit encerra a sala por desconexão: o participante restante vence
// incondicionalmente. Idempotente com a resolução normal — se a sala já saiu
// de Open, não faz nada.
func (gr *GameRoom) Forfeit(disconnectedSessionID string) {
	gr.mu.Lock()
	defer gr.mu.Unlock()

	if gr.phase != phase_OPEN {
		return
	}
	idx := gr.indexOfLocked(disconnectedSessionID)
	if idx < 0 {
		return
	}
	gr.resolveLocked(1-idx, "opponent_disconnected")
}

// resolveLocked liquida a partida: lê a afeição ao vivo dos dois lados,
// calcula o resultado, emite os eventos externos (deltas de afeição, roubo de
// personagem, registro da partida), entrega o pvp_result e destrói a sala.
// Chamar só com gr.mu preso e fase Open.
func (gr *GameRoom) resolveLocked(winnerIdx int, reason string) {
	gr.phase = phase_RESOLVING

	winner := gr.players[winnerIdx]
	loser := gr.players[1-winnerIdx]

	winnerAff := gr.liveAffection(winner)
	loserAff := gr.liveAffection(loser)

	out := settle.Settle(winnerAff, loserAff, gr.finalBet)

	if err := gr.publisher.PublishAffectionDelta(winner.Session.SessionID, out.WinnerNewAffection-winnerAff); err != nil {
		logging.Error("[GameRoom %s] falha ao emitir delta do vencedor: %v", gr.ID, err)
	}
	if err := gr.publisher.PublishAffectionDelta(loser.Session.SessionID, out.LoserNewAffection-loserAff); err != nil {
		logging.Error("[GameRoom %s] falha ao emitir delta do perdedor: %v", gr.ID, err)
	}

	stolenSessionID := ""
	if out.CharacterStolen {
		id, err := gr.publisher.RequestCharacterSteal(winner.Session.UserID, loser.Session.SessionID, loser.Session.UserID)
		if err != nil {
			// O resultado da partida não espera o serviço de roubo: o backend
			// pode reprocessar pelo registro da partida.
			logging.Error("[GameRoom %s] falha no roubo de personagem: %v", gr.ID, err)
		} else {
			stolenSessionID = id
		}
	}

	rec := events.MatchRecord{
		ID:                   uuid.NewString(),
		Player1SessionID:     gr.players[0].Session.SessionID,
		Player2SessionID:     gr.players[1].Session.SessionID,
		Player1Bet:           gr.players[0].Bet,
		Player2Bet:           gr.players[1].Bet,
		FinalBet:             gr.finalBet,
		WinnerUserID:         winner.Session.UserID,
		LoserCharacterStolen: out.CharacterStolen,
		CreatedAt:            time.Now(),
	}
	if err := gr.publisher.PublishMatchRecord(rec); err != nil {
		logging.Error("[GameRoom %s] falha ao emitir registro da partida: %v", gr.ID, err)
	}

	// Entrega dos resultados. Deliver tolera o lado desconectado.
	message.Deliver(winner.Session.Client,
		message.PvPResult(gr.ID, true, reason, gr.finalBet, out.WinnerNewAffection, out.CharacterStolen, stolenSessionID))
	message.Deliver(loser.Session.Client,
		message.PvPResult(gr.ID, false, reason, gr.finalBet, out.LoserNewAffection, out.CharacterStolen, ""))

	for _, p := range gr.players {
		p.Session.State = state_LOBBY
		p.Session.CurrentRoom = nil
	}

	gr.registry.Remove(gr.ID)
	gr.phase = phase_CLOSED

	logging.Info("[GameRoom %s] Fim de jogo (%s). Vencedor: %s, aposta final %d, roubo=%v.",
		gr.ID, reason, winner.Session.SessionID, gr.finalBet, out.CharacterStolen)
}

// liveAffection lê a afeição atual do jogador no Session Store. Se o store
// falhar, a liquidação segue com o snapshot da conexão em vez de travar a
// resolução.
func (gr *GameRoom) liveAffection(p *RoomPlayer) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sess, err := gr.sessions.GetSession(ctx, p.Session.SessionID)
	if err != nil {
		logging.Warn("[GameRoom %s] afeição ao vivo indisponível para %s, usando snapshot: %v", gr.ID, p.Session.SessionID, err)
		return p.Session.Affection
	}
	return sess.Affection
}

func (gr *GameRoom) indexOfLocked(sessionID string) int {
	for i, p := range gr.players {
		if p.Session.SessionID == sessionID {
			return i
		}
	}
	return -1
}
