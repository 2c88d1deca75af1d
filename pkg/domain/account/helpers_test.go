package account_test

import "github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"

func highYield() interest.Policy {
	return interest.HighYield{Bonus: interest.DefaultHighYieldBonus}
}
