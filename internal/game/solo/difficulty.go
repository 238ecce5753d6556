package solo

// Difficulty é a tabela de parâmetros do minigame solo de corações. Tabela
// consumida como constante; este núcleo nunca a recalcula.
type Difficulty struct {
	TargetCount      int `json:"target_count"`
	TimeSeconds      int `json:"time_seconds"`
	HeartSizeMin     int `json:"heart_size_min"`
	HeartSizeMax     int `json:"heart_size_max"`
	HeartDurationMin int `json:"heart_duration_min"`
	HeartDurationMax int `json:"heart_duration_max"`
}

// DefaultDifficulty é a dificuldade padrão do minigame (matching PvP normal).
var DefaultDifficulty = Difficulty{
	TargetCount:      7,
	TimeSeconds:      8,
	HeartSizeMin:     50,
	HeartSizeMax:     80,
	HeartDurationMin: 4,
	HeartDurationMax: 6,
}

// SoloDifficulty é a versão mais difícil, usada quando o matching estoura o
// tempo e o jogador cai no modo solo.
var SoloDifficulty = Difficulty{
	TargetCount:      12,
	TimeSeconds:      6,
	HeartSizeMin:     40,
	HeartSizeMax:     60,
	HeartDurationMin: 2,
	HeartDurationMax: 4,
}

// Recompensa e penalidade de afeição do modo solo.
const (
	SuccessBonus   = 10
	FailurePenalty = -5
)

// Result é o veredito de uma rodada solo.
type Result struct {
	Success        bool
	AffectionDelta int
}

// Score aplica a regra de sucesso do modo solo: atingir a meta de corações
// dentro do tempo limite.
func Score(heartsTouched int, timeTaken float64) Result {
	if heartsTouched >= SoloDifficulty.TargetCount && timeTaken <= float64(SoloDifficulty.TimeSeconds) {
		return Result{Success: true, AffectionDelta: SuccessBonus}
	}
	return Result{Success: false, AffectionDelta: FailurePenalty}
}
