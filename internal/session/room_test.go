package session

import (
	"encoding/json"
	"testing"

	"heartduel/internal/game/variant"
	"heartduel/internal/session/message"
)

func intPtr(v int) *int { return &v }

func TestAnnounceMirrorsMatched(t *testing.T) {
	tr := newTestRoom(variant.NewShell(1), intPtr(1), 50, 60, 20, 10)
	tr.room.Announce()

	hostEvt, ok := tr.hostCh.next(t).(message.MatchedEvent)
	if !ok {
		t.Fatal("host deveria receber matched")
	}
	guestEvt, ok := tr.guestCh.next(t).(message.MatchedEvent)
	if !ok {
		t.Fatal("guest deveria receber matched")
	}

	if !hostEvt.IsHost || guestEvt.IsHost {
		t.Errorf("is_host deveria ser espelhado: host=%v guest=%v", hostEvt.IsHost, guestEvt.IsHost)
	}
	if hostEvt.OpponentSessionID != tr.guest.SessionID || guestEvt.OpponentSessionID != tr.host.SessionID {
		t.Error("opponent_session_id deveria ser cruzado entre os lados")
	}
	if hostEvt.OpponentBet != 10 || guestEvt.OpponentBet != 20 {
		t.Errorf("opponent_bet errado: host viu %d, guest viu %d", hostEvt.OpponentBet, guestEvt.OpponentBet)
	}
	if hostEvt.FinalBet != 20 || guestEvt.FinalBet != 20 {
		t.Errorf("final_bet deveria ser 20 dos dois lados: %d / %d", hostEvt.FinalBet, guestEvt.FinalBet)
	}
	if hostEvt.CorrectCup == nil || *hostEvt.CorrectCup != 1 {
		t.Error("correct_cup deveria ir no matched da variante shell")
	}
	if hostEvt.Variant != variant.NameShell {
		t.Errorf("variante anunciada errada: %s", hostEvt.Variant)
	}

	if tr.host.State != state_IN_MATCH || tr.guest.State != state_IN_MATCH {
		t.Error("os dois jogadores deveriam estar em partida após o anúncio")
	}
	if tr.host.CurrentRoom != tr.room || tr.guest.CurrentRoom != tr.room {
		t.Error("CurrentRoom deveria apontar para a sala anunciada")
	}
}

func TestShellMatchFullFlow(t *testing.T) {
	tr := newTestRoom(variant.NewShell(2), intPtr(2), 50, 60, 20, 10)
	tr.room.Announce()
	tr.hostCh.next(t) // matched
	tr.guestCh.next(t)

	// Host acerta o copo, guest erra.
	tr.room.HandleAction(tr.host.SessionID, "select", json.RawMessage(`{"cup_index":2}`))

	upd, ok := tr.guestCh.next(t).(message.GameUpdateEvent)
	if !ok || upd.Action != "opponent_select" {
		t.Fatalf("guest deveria ver o select do host repassado, veio %#v", upd)
	}

	tr.room.HandleAction(tr.guest.SessionID, "select", json.RawMessage(`{"cup_index":0}`))

	// O repasse da ação final chega antes do resultado.
	if upd, ok := tr.hostCh.next(t).(message.GameUpdateEvent); !ok || upd.Action != "opponent_select" {
		t.Fatalf("host deveria ver o select do guest antes do resultado, veio %#v", upd)
	}

	hostRes, ok := tr.hostCh.next(t).(message.PvPResultEvent)
	if !ok {
		t.Fatal("host deveria receber pvp_result")
	}
	guestRes, ok := tr.guestCh.next(t).(message.PvPResultEvent)
	if !ok {
		t.Fatal("guest deveria receber pvp_result")
	}

	if !hostRes.Winner || guestRes.Winner {
		t.Errorf("host acertou sozinho e deveria vencer: host=%v guest=%v", hostRes.Winner, guestRes.Winner)
	}
	if hostRes.Reason != "shell_result" {
		t.Errorf("motivo errado: %s", hostRes.Reason)
	}
	if hostRes.NewAffection != 70 {
		t.Errorf("afeição nova do vencedor deveria ser 70, foi %d", hostRes.NewAffection)
	}
	if guestRes.NewAffection != 40 {
		t.Errorf("afeição nova do perdedor deveria ser 40, foi %d", guestRes.NewAffection)
	}
	if hostRes.CharacterStolen || guestRes.CharacterStolen {
		t.Error("não deveria haver roubo com perdedor em 40")
	}

	if tr.registry.Len() != 0 {
		t.Error("sala resolvida deveria sair do registro")
	}
	if tr.room.Phase() != phase_CLOSED {
		t.Errorf("fase final deveria ser closed, é %s", tr.room.Phase())
	}
	if tr.host.State != state_LOBBY || tr.host.CurrentRoom != nil {
		t.Error("host deveria voltar ao lobby após a resolução")
	}

	deltas := tr.publisher.Deltas()
	if len(deltas) != 2 {
		t.Fatalf("esperados 2 deltas de afeição, vieram %d", len(deltas))
	}
	if deltas[0].SessionID != tr.host.SessionID || deltas[0].Delta != 20 {
		t.Errorf("delta do vencedor errado: %+v", deltas[0])
	}
	if deltas[1].SessionID != tr.guest.SessionID || deltas[1].Delta != -20 {
		t.Errorf("delta do perdedor errado: %+v", deltas[1])
	}

	recs := tr.publisher.Records()
	if len(recs) != 1 {
		t.Fatalf("esperado 1 registro de partida, vieram %d", len(recs))
	}
	rec := recs[0]
	if rec.Player1SessionID != tr.host.SessionID || rec.Player2SessionID != tr.guest.SessionID {
		t.Errorf("sessões do registro erradas: %+v", rec)
	}
	if rec.Player1Bet != 20 || rec.Player2Bet != 10 || rec.FinalBet != 20 {
		t.Errorf("apostas do registro erradas: %+v", rec)
	}
	if rec.WinnerUserID != tr.host.UserID {
		t.Errorf("vencedor do registro errado: %s", rec.WinnerUserID)
	}
	if rec.LoserCharacterStolen {
		t.Error("registro não deveria marcar roubo")
	}
}

func TestChaseThreeHitsEndsMatch(t *testing.T) {
	tr := newTestRoom(variant.NewChase(), nil, 50, 50, 10, 10)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.HandleAction(tr.host.SessionID, "hit", nil)
	tr.room.HandleAction(tr.host.SessionID, "hit", nil)
	if tr.room.Phase() != phase_OPEN {
		t.Fatal("dois hits não deveriam encerrar a partida")
	}
	tr.room.HandleAction(tr.host.SessionID, "hit", nil)

	// Guest vê os três hits repassados e depois o resultado.
	for i := 0; i < 3; i++ {
		if upd, ok := tr.guestCh.next(t).(message.GameUpdateEvent); !ok || upd.Action != "opponent_hit" {
			t.Fatalf("hit %d não repassado: %#v", i+1, upd)
		}
	}
	guestRes, ok := tr.guestCh.next(t).(message.PvPResultEvent)
	if !ok || !guestRes.Winner || guestRes.Reason != "three_hits" {
		t.Fatalf("guest deveria vencer por three_hits, veio %#v", guestRes)
	}
}

func TestMashingTimeUpSettles(t *testing.T) {
	tr := newTestRoom(variant.NewMashing(), nil, 50, 50, 15, 15)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.HandleAction(tr.host.SessionID, "score", json.RawMessage(`{"score":40}`))
	tr.room.HandleAction(tr.guest.SessionID, "score", json.RawMessage(`{"score":55}`))
	tr.room.HandleAction(tr.host.SessionID, "time_up", nil)

	// Drena os repasses até achar o resultado do guest.
	var guestRes message.PvPResultEvent
	for {
		msg := tr.guestCh.next(t)
		if res, ok := msg.(message.PvPResultEvent); ok {
			guestRes = res
			break
		}
	}
	if !guestRes.Winner || guestRes.Reason != "time_up" {
		t.Errorf("guest com score maior deveria vencer por time_up, veio %#v", guestRes)
	}
	if guestRes.NewAffection != 65 {
		t.Errorf("afeição nova do vencedor deveria ser 65, foi %d", guestRes.NewAffection)
	}
}

func TestForfeitSettlesForRemaining(t *testing.T) {
	tr := newTestRoom(variant.NewChase(), nil, 50, 50, 20, 20)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.Forfeit(tr.host.SessionID)

	guestRes, ok := tr.guestCh.next(t).(message.PvPResultEvent)
	if !ok {
		t.Fatal("guest deveria receber pvp_result no W.O.")
	}
	if !guestRes.Winner || guestRes.Reason != "opponent_disconnected" {
		t.Errorf("resultado de W.O. errado: %#v", guestRes)
	}
	if guestRes.NewAffection != 70 {
		t.Errorf("W.O. deveria liquidar a aposta: esperado 70, foi %d", guestRes.NewAffection)
	}
	if tr.registry.Len() != 0 {
		t.Error("sala deveria sair do registro após o W.O.")
	}

	// Segundo Forfeit é no-op: nada novo emitido.
	tr.room.Forfeit(tr.guest.SessionID)
	if len(tr.publisher.Records()) != 1 {
		t.Errorf("W.O. duplicado não deveria gerar novo registro, há %d", len(tr.publisher.Records()))
	}
	if tr.guestCh.pending() != 0 {
		t.Error("W.O. duplicado não deveria entregar mais mensagens")
	}
}

func TestCharacterStolenWhenLoserHitsZero(t *testing.T) {
	tr := newTestRoom(variant.NewMashing(), nil, 80, 20, 50, 50)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.HandleAction(tr.host.SessionID, "score", json.RawMessage(`{"score":99}`))
	tr.room.HandleAction(tr.host.SessionID, "time_up", nil)

	var hostRes message.PvPResultEvent
	for {
		msg := tr.hostCh.next(t)
		if res, ok := msg.(message.PvPResultEvent); ok {
			hostRes = res
			break
		}
	}
	if !hostRes.Winner || !hostRes.CharacterStolen {
		t.Fatalf("perdedor zerado deveria perder o personagem: %#v", hostRes)
	}
	if hostRes.StolenSessionID == "" {
		t.Error("o vencedor deveria receber o id da sessão roubada")
	}
	if hostRes.NewAffection != 100 {
		t.Errorf("vencedor deveria travar em 100, foi %d", hostRes.NewAffection)
	}

	var guestRes message.PvPResultEvent
	for {
		msg := tr.guestCh.next(t)
		if res, ok := msg.(message.PvPResultEvent); ok {
			guestRes = res
			break
		}
	}
	if guestRes.StolenSessionID != "" {
		t.Error("o perdedor não deveria receber id de sessão roubada")
	}
	if guestRes.NewAffection != 0 {
		t.Errorf("perdedor deveria ficar em 0, ficou %d", guestRes.NewAffection)
	}

	steals := tr.publisher.Steals()
	if len(steals) != 1 {
		t.Fatalf("esperado 1 pedido de roubo, vieram %d", len(steals))
	}
	if steals[0].WinnerUserID != tr.host.UserID || steals[0].LoserSessionID != tr.guest.SessionID {
		t.Errorf("pedido de roubo errado: %+v", steals[0])
	}
}

func TestLiveAffectionReadFromStore(t *testing.T) {
	// O snapshot da conexão diz 50/50, mas o store já evoluiu para 90/30.
	tr := newTestRoom(variant.NewChase(), nil, 50, 50, 20, 20)
	tr.store.Put(storeSession(tr.host.SessionID, tr.host.UserID, 90))
	tr.store.Put(storeSession(tr.guest.SessionID, tr.guest.UserID, 30))
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.Forfeit(tr.guest.SessionID)

	hostRes, ok := tr.hostCh.next(t).(message.PvPResultEvent)
	if !ok {
		t.Fatal("host deveria receber pvp_result")
	}
	if hostRes.NewAffection != 100 {
		t.Errorf("liquidação deveria partir da afeição do store (90+20 travado em 100), foi %d", hostRes.NewAffection)
	}

	deltas := tr.publisher.Deltas()
	if len(deltas) != 2 || deltas[0].Delta != 10 || deltas[1].Delta != -20 {
		t.Errorf("deltas deveriam partir do store: %+v", deltas)
	}
}

func TestActionsOutsideOpenPhaseIgnored(t *testing.T) {
	tr := newTestRoom(variant.NewChase(), nil, 50, 50, 10, 10)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.Forfeit(tr.host.SessionID)
	tr.guestCh.next(t) // pvp_result

	tr.room.HandleAction(tr.guest.SessionID, "hit", nil)
	if tr.hostCh.pending() != 0 {
		t.Error("ação após o fechamento da sala não deveria ser repassada")
	}
	if len(tr.publisher.Records()) != 1 {
		t.Error("ação após o fechamento não deveria gerar novo registro")
	}
}

func TestNonParticipantActionIgnored(t *testing.T) {
	tr := newTestRoom(variant.NewChase(), nil, 50, 50, 10, 10)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.HandleAction("intruso", "hit", nil)
	if tr.hostCh.pending() != 0 || tr.guestCh.pending() != 0 {
		t.Error("ação de não participante não deveria ser repassada")
	}
	if tr.room.Phase() != phase_OPEN {
		t.Error("ação de não participante não deveria mudar a fase")
	}
}

func TestInvalidActionNotRelayed(t *testing.T) {
	tr := newTestRoom(variant.NewShell(0), intPtr(0), 50, 50, 10, 10)
	tr.room.Announce()
	tr.hostCh.next(t)
	tr.guestCh.next(t)

	tr.room.HandleAction(tr.host.SessionID, "select", json.RawMessage(`{"cup_index":7}`))
	if tr.guestCh.pending() != 0 {
		t.Error("ação inválida não deveria ser repassada ao oponente")
	}

	tr.room.HandleAction(tr.host.SessionID, "dance", nil)
	if tr.guestCh.pending() != 0 {
		t.Error("ação desconhecida não deveria ser repassada ao oponente")
	}
}
