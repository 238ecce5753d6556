package variant

import (
	"encoding/json"
	"errors"
)

// Índices fixos dos jogadores dentro de uma sala: o host é sempre o 0.
// O host é quem já estava esperando na fila quando o pareamento aconteceu, e
// serve só como critério de desempate.
const (
	HostIdx  = 0
	GuestIdx = 1
)

// Nomes das variantes, como trafegam no protocolo.
const (
	NameShell   = "shell"
	NameChase   = "chase"
	NameMashing = "mashing"
)

// ErrUnknownAction indica uma ação que a variante não reconhece. A sala trata
// como erro de protocolo: descarta sem repassar e sem mudar estado.
var ErrUnknownAction = errors.New("unknown game action for this variant")

// Result é o desfecho terminal de uma variante.
type Result struct {
	WinnerIdx int    // 0 = host, 1 = guest
	Reason    string // motivo que vai no pvp_result
}

// Variant é o módulo de regras de um minigame. Cada implementação decide como
// uma ação muda o estado da rodada e quando há vencedor. Apply devolve nil
// enquanto a partida continua; devolver um Result encerra a sala.
//
// Apply não é thread-safe: a sala serializa as chamadas sob o lock dela.
type Variant interface {
	Name() string
	Apply(playerIdx int, action string, payload json.RawMessage) (*Result, error)
}
