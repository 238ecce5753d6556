package events

import "testing"

func TestMemoryPublisherRecordsEverything(t *testing.T) {
	p := NewMemoryPublisher()

	if err := p.PublishAffectionDelta("s1", 20); err != nil {
		t.Fatalf("PublishAffectionDelta falhou: %v", err)
	}
	if err := p.PublishMatchRecord(MatchRecord{ID: "r1", WinnerUserID: "u1"}); err != nil {
		t.Fatalf("PublishMatchRecord falhou: %v", err)
	}

	id, err := p.RequestCharacterSteal("u1", "s2", "u2")
	if err != nil {
		t.Fatalf("RequestCharacterSteal falhou: %v", err)
	}
	if id == "" {
		t.Error("o roubo deveria devolver o id da nova sessão")
	}

	if d := p.Deltas(); len(d) != 1 || d[0].SessionID != "s1" || d[0].Delta != 20 {
		t.Errorf("deltas errados: %+v", d)
	}
	if r := p.Records(); len(r) != 1 || r[0].ID != "r1" {
		t.Errorf("registros errados: %+v", r)
	}
	if s := p.Steals(); len(s) != 1 || s[0].NewSessionID != id {
		t.Errorf("roubos errados: %+v", s)
	}
}
