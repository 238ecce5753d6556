package session

import (
	"encoding/json"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"heartduel/internal/game/variant"
	"heartduel/internal/logging"
	"heartduel/internal/network"
	"heartduel/internal/services/events"
	"heartduel/internal/services/store"
	"heartduel/internal/session/message"
)

// clientMessage é o envelope de tudo que chega do cliente, roteado pelo
// campo action.
type clientMessage struct {
	Action     string          `json:"action"`
	BetAmount  int             `json:"bet_amount"`
	RoomID     string          `json:"room_id"`
	GameAction string          `json:"game_action"`
	Payload    json.RawMessage `json:"payload"`
}

// PvPHandler implementa network.EventHandler: é o loop de controle por
// conexão que autentica, enfileira e roteia ações para a sala dona.
//
// O Hub chama OnConnect/OnMessage/OnDisconnect de uma única goroutine, mas o
// timeout de matching dispara de um timer; o mutex do handler serializa as
// transições de estado das sessões nos dois caminhos.
type PvPHandler struct {
	mu        sync.Mutex
	sessions  map[*network.Client]*PlayerSession
	bySession map[string]*PlayerSession

	matchmaker *Matchmaker
	registry   *Registry

	store     store.SessionStore
	publisher events.Publisher

	rng *rand.Rand
}

func NewPvPHandler(st store.SessionStore, publisher events.Publisher, matchTimeout time.Duration) *PvPHandler {
	h := &PvPHandler{
		sessions:  make(map[*network.Client]*PlayerSession),
		bySession: make(map[string]*PlayerSession),
		registry:  NewRegistry(),
		store:     st,
		publisher: publisher,
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1)),
	}
	h.matchmaker = NewMatchmaker(matchTimeout, h.newRoom, h.handleMatchTimeout)
	return h
}

// Registry expõe o registro de salas (o main usa para health/debug).
func (h *PvPHandler) Registry() *Registry {
	return h.registry
}

// Matchmaker expõe a fila de matching.
func (h *PvPHandler) Matchmaker() *Matchmaker {
	return h.matchmaker
}

// --- Implementação da interface network.EventHandler ---

func (h *PvPHandler) OnConnect(c *network.Client) {
	h.mu.Lock()

	sess := c.Session()
	player := &PlayerSession{
		SessionID: sess.SessionID,
		UserID:    sess.UserID,
		Affection: sess.Affection,
		Client:    c,
		State:     state_LOBBY,
	}

	if _, ok := h.bySession[player.SessionID]; ok {
		// Segunda conexão com o mesmo session_id: a mais nova vale. A antiga
		// vai cair sozinha quando o cliente perceber.
		logging.Warn("[PvPHandler] Sessão %s conectou de novo; substituindo a conexão antiga.", player.SessionID)
	}
	h.sessions[c] = player
	h.bySession[player.SessionID] = player
	total := len(h.sessions)
	h.mu.Unlock()

	logging.Info("[PvPHandler] Sessão %s conectada (%s). Total de sessões: %d.", player.SessionID, c.Conn().RemoteAddr(), total)
	message.Deliver(player.Client, message.Connected(player.SessionID))
}

func (h *PvPHandler) OnDisconnect(c *network.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	player, ok := h.sessions[c]
	if !ok {
		return
	}

	// Limpeza central: a desconexão nunca pode deixar ticket órfão na fila
	// nem sala pendurada no registro.
	h.matchmaker.Dequeue(player.SessionID)

	if player.CurrentRoom != nil {
		logging.Info("[PvPHandler] Sessão %s desconectou durante a partida %s. Aplicando W.O.", player.SessionID, player.CurrentRoom.ID)
		player.CurrentRoom.Forfeit(player.SessionID)
	}

	delete(h.sessions, c)
	// Só remove do índice por sessão se ainda aponta para esta conexão
	// (pode ter sido substituída por uma reconexão).
	if h.bySession[player.SessionID] == player {
		delete(h.bySession, player.SessionID)
	}
	logging.Info("[PvPHandler] Sessão %s removida. Total de sessões: %d.", player.SessionID, len(h.sessions))
}

func (h *PvPHandler) OnMessage(c *network.Client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	player, ok := h.sessions[c]
	if !ok {
		return
	}

	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		// Mensagem malformada é erro de protocolo: ignora, nunca derruba.
		logging.Debug("[PvPHandler] JSON inválido da sessão %s: %v", player.SessionID, err)
		return
	}

	switch msg.Action {
	case "join_queue":
		h.handleJoinQueue(player, msg.BetAmount)
	case "leave_queue":
		h.handleLeaveQueue(player)
	case "game_action":
		h.handleGameAction(player, msg)
	default:
		logging.Debug("[PvPHandler] Ação desconhecida %q da sessão %s ignorada.", msg.Action, player.SessionID)
	}
}

// --- Handlers por ação ---

func (h *PvPHandler) handleJoinQueue(player *PlayerSession, bet int) {
	if player.State != state_LOBBY {
		logging.Debug("[PvPHandler] join_queue fora de hora da sessão %s (estado %s).", player.SessionID, player.State)
		return
	}
	if bet < 0 {
		logging.Debug("[PvPHandler] aposta negativa da sessão %s ignorada.", player.SessionID)
		return
	}

	player.State = state_IN_QUEUE
	h.matchmaker.Enqueue(player, bet)
	message.Deliver(player.Client, message.QueueJoined(bet))

	if room := h.matchmaker.TryPair(player.SessionID); room != nil {
		room.Announce()
	}
}

func (h *PvPHandler) handleLeaveQueue(player *PlayerSession) {
	h.matchmaker.Dequeue(player.SessionID)
	if player.State == state_IN_QUEUE {
		player.State = state_LOBBY
	}
	message.Deliver(player.Client, message.QueueLeft())
}

func (h *PvPHandler) handleGameAction(player *PlayerSession, msg clientMessage) {
	room := h.registry.Get(msg.RoomID)
	if room == nil {
		// room_id de sala já destruída: no-op idempotente, nunca um erro —
		// a corrida entre ação e teardown é esperada.
		return
	}
	room.HandleAction(player.SessionID, msg.GameAction, msg.Payload)
}

// --- Criação de sala e timeout de matching ---

// newRoom roda dentro da seção crítica do Matchmaker: sorteia a variante,
// monta a sala e registra, tudo antes de qualquer outro pareamento enxergar
// a fila.
func (h *PvPHandler) newRoom(host, guest *MatchTicket) *GameRoom {
	var v variant.Variant
	var correctCup *int

	switch h.rng.IntN(3) {
	case 0:
		cup := h.rng.IntN(3)
		v = variant.NewShell(cup)
		correctCup = &cup
	case 1:
		v = variant.NewChase()
	default:
		v = variant.NewMashing()
	}

	room := NewGameRoom(uuid.NewString(), v, correctCup, host, guest, h.store, h.publisher, h.registry)
	h.registry.Insert(room)
	return room
}

// handleMatchTimeout roda na goroutine do timer do ticket, já removido da
// fila. Devolve o jogador ao lobby e manda a deixa do minigame solo.
func (h *PvPHandler) handleMatchTimeout(t *MatchTicket) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t.Session.State == state_IN_QUEUE {
		t.Session.State = state_LOBBY
	}
	message.Deliver(t.Session.Client, message.MatchTimeout())
}
