package session

import (
	"testing"
	"time"

	"heartduel/internal/game/variant"
	"heartduel/internal/services/events"
	"heartduel/internal/services/store"
)

// fakeClient implementa message.Sender com um canal inspecionável, para os
// testes verem exatamente o que a sala entregou a cada lado.
type fakeClient struct {
	ch chan any
}

func newFakeClient() *fakeClient {
	return &fakeClient{ch: make(chan any, 16)}
}

func (f *fakeClient) Send() chan<- any { return f.ch }

// next devolve a próxima mensagem entregue, ou falha o teste se não houver.
func (f *fakeClient) next(t *testing.T) any {
	t.Helper()
	select {
	case msg := <-f.ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("nenhuma mensagem entregue ao cliente")
		return nil
	}
}

func (f *fakeClient) pending() int { return len(f.ch) }

func storeSession(sessionID, userID string, affection int) store.GameSession {
	return store.GameSession{
		SessionID: sessionID,
		Status:    store.StatusPlaying,
		UserID:    userID,
		Affection: affection,
	}
}

func newTestPlayer(sessionID string, affection int) (*PlayerSession, *fakeClient) {
	fc := newFakeClient()
	return &PlayerSession{
		SessionID: sessionID,
		UserID:    "user-" + sessionID,
		Affection: affection,
		Client:    fc,
		State:     state_LOBBY,
	}, fc
}

// testRoom é a fixação padrão de sala: dois jogadores com afeição no store em
// memória, publisher em memória e sala já registrada.
type testRoom struct {
	room      *GameRoom
	host      *PlayerSession
	guest     *PlayerSession
	hostCh    *fakeClient
	guestCh   *fakeClient
	registry  *Registry
	store     *store.MemoryStore
	publisher *events.MemoryPublisher
}

func newTestRoom(v variant.Variant, correctCup *int, hostAff, guestAff, hostBet, guestBet int) *testRoom {
	host, hostCh := newTestPlayer("host-sess", hostAff)
	guest, guestCh := newTestPlayer("guest-sess", guestAff)

	st := store.NewMemoryStore()
	st.Put(storeSession(host.SessionID, host.UserID, hostAff))
	st.Put(storeSession(guest.SessionID, guest.UserID, guestAff))

	pub := events.NewMemoryPublisher()
	reg := NewRegistry()

	hostTicket := &MatchTicket{SessionID: host.SessionID, Bet: hostBet, Session: host}
	guestTicket := &MatchTicket{SessionID: guest.SessionID, Bet: guestBet, Session: guest}

	room := NewGameRoom("room-1", v, correctCup, hostTicket, guestTicket, st, pub, reg)
	reg.Insert(room)

	return &testRoom{
		room:      room,
		host:      host,
		guest:     guest,
		hostCh:    hostCh,
		guestCh:   guestCh,
		registry:  reg,
		store:     st,
		publisher: pub,
	}
}
