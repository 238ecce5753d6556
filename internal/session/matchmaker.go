package session

import (
	"sync"
	"time"

	"heartduel/internal/logging"
)

// MatchTicket é a espera de um jogador na fila: a aposta dele e a referência
// de volta para a sessão. O ticket pertence ao Matchmaker enquanto espera;
// no pareamento a posse passa para a GameRoom criada.
type MatchTicket struct {
	SessionID  string
	Bet        int
	EnqueuedAt time.Time
	Session    *PlayerSession

	timeout *time.Timer
}

// Matchmaker guarda os tickets em espera. Invariante: um session_id aparece
// em no máximo um ticket por vez.
//
// O pareamento escolhe o PRIMEIRO outro ticket em ordem de chegada, sem olhar
// o valor da aposta — comportamento de referência do jogo, preservado de
// propósito (apostas muito diferentes podem parear).
type Matchmaker struct {
	mu      sync.Mutex
	tickets map[string]*MatchTicket
	order   []string // session_ids em ordem de chegada

	// matchTimeout zero desliga o timeout de matching.
	matchTimeout time.Duration

	// createRoom roda DENTRO da seção crítica do pareamento: remover os dois
	// tickets e registrar a sala precisam parecer atômicos para todo mundo,
	// senão uma terceira conexão pareia com um ticket já reivindicado.
	createRoom func(host, guest *MatchTicket) *GameRoom

	// onTimeout roda fora do lock, na goroutine do timer.
	onTimeout func(t *MatchTicket)
}

func NewMatchmaker(matchTimeout time.Duration, createRoom func(host, guest *MatchTicket) *GameRoom, onTimeout func(t *MatchTicket)) *Matchmaker {
	return &Matchmaker{
		tickets:      make(map[string]*MatchTicket),
		matchTimeout: matchTimeout,
		createRoom:   createRoom,
		onTimeout:    onTimeout,
	}
}

// Enqueue coloca a sessão na fila. Se já havia ticket para esse session_id,
// ele é substituído (a aposta nova vale).
func (m *Matchmaker) Enqueue(session *PlayerSession, bet int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.tickets[session.SessionID]; ok {
		m.removeLocked(old)
	}

	t := &MatchTicket{
		SessionID:  session.SessionID,
		Bet:        bet,
		EnqueuedAt: time.Now(),
		Session:    session,
	}
	m.tickets[t.SessionID] = t
	m.order = append(m.order, t.SessionID)

	if m.matchTimeout > 0 {
		t.timeout = time.AfterFunc(m.matchTimeout, func() { m.expire(t) })
	}

	logging.Info("[Matchmaker] Sessão %s entrou na fila (aposta %d). Fila agora com %d.", t.SessionID, bet, len(m.tickets))
}

// Dequeue remove o ticket da sessão, se existir. Mesma remoção usada pelo
// leave_queue explícito, pelo timeout e pela desconexão.
func (m *Matchmaker) Dequeue(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tickets[sessionID]
	if !ok {
		return false
	}
	m.removeLocked(t)
	logging.Info("[Matchmaker] Sessão %s saiu da fila. Fila agora com %d.", sessionID, len(m.tickets))
	return true
}

// TryPair procura um oponente para a sessão recém-enfileirada. Encontrando,
// remove os dois tickets e cria a sala na mesma seção crítica. Se o único
// ticket em espera é o do próprio chamador, não há pareamento (não é erro).
//
// O host da sala é o ticket que já estava esperando; o chamador entra como
// convidado.
func (m *Matchmaker) TryPair(newSessionID string) *GameRoom {
	m.mu.Lock()
	defer m.mu.Unlock()

	guest, ok := m.tickets[newSessionID]
	if !ok {
		return nil
	}

	for _, sid := range m.order {
		if sid == newSessionID {
			continue
		}
		host := m.tickets[sid]

		m.removeLocked(host)
		m.removeLocked(guest)

		logging.Info("[Matchmaker] Match encontrado! %s (host) vs %s. Fila agora com %d.", host.SessionID, guest.SessionID, len(m.tickets))
		return m.createRoom(host, guest)
	}
	return nil
}

// Len devolve quantos tickets estão esperando.
func (m *Matchmaker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickets)
}

// expire é o disparo do timeout de matching de um ticket.
func (m *Matchmaker) expire(t *MatchTicket) {
	m.mu.Lock()
	// O ticket pode ter sido pareado ou substituído entre o disparo e o lock.
	cur, ok := m.tickets[t.SessionID]
	if !ok || cur != t {
		m.mu.Unlock()
		return
	}
	m.removeLocked(t)
	logging.Info("[Matchmaker] Timeout de matching para a sessão %s. Fila agora com %d.", t.SessionID, len(m.tickets))
	m.mu.Unlock()

	if m.onTimeout != nil {
		m.onTimeout(t)
	}
}

// removeLocked tira o ticket do mapa e da ordem e desarma o timer.
// Chamar só com m.mu preso.
func (m *Matchmaker) removeLocked(t *MatchTicket) {
	delete(m.tickets, t.SessionID)
	for i, sid := range m.order {
		if sid == t.SessionID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if t.timeout != nil {
		t.timeout.Stop()
	}
}
