package settle

// Limites de afeição do jogo principal.
const (
	MaxAffection = 100
	MinAffection = 0

	// StolenCharacterInitialAffection é a afeição inicial da cópia do
	// personagem roubado, fixa independente dos números da liquidação.
	StolenCharacterInitialAffection = 30
)

// Outcome é o resultado puro de uma liquidação de aposta. Derivado, nunca
// armazenado: é recalculado a cada resolução de sala.
type Outcome struct {
	WinnerNewAffection int
	LoserNewAffection  int
	ActualLoss         int
	CharacterStolen    bool
}

// FinalBet decide a aposta efetiva da partida: a maior das duas. Quem apostou
// mais define o valor para os dois lados.
func FinalBet(bet1, bet2 int) int {
	if bet1 > bet2 {
		return bet1
	}
	return bet2
}

// Settle calcula a transferência de afeição entre vencedor e perdedor.
// O vencedor ganha a aposta final até o teto de 100; o perdedor perde no
// máximo o que tem, nunca ficando negativo. Se a afeição do perdedor chega a
// zero, o personagem dele é roubado.
func Settle(winnerAffection, loserAffection, finalBet int) Outcome {
	winnerNew := winnerAffection + finalBet
	if winnerNew > MaxAffection {
		winnerNew = MaxAffection
	}

	actualLoss := finalBet
	if loserAffection < actualLoss {
		actualLoss = loserAffection
	}

	loserNew := loserAffection - finalBet
	if loserNew < MinAffection {
		loserNew = MinAffection
	}

	return Outcome{
		WinnerNewAffection: winnerNew,
		LoserNewAffection:  loserNew,
		ActualLoss:         actualLoss,
		CharacterStolen:    loserNew == MinAffection,
	}
}
