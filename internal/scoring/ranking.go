package scoring

import (
	"cmp"
	"math"
	"slices"

	"vida-plena/internal/domain"
)

// Rank returns a copy of scales sorted by value, highest first. Ties keep the
// declared order.
func Rank(scales []domain.ScaleScore) []domain.ScaleScore {
	out := slices.Clone(scales)
	slices.SortStableFunc(out, func(a, b domain.ScaleScore) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}

// Top returns at most n leading entries of a ranking.
func Top(ranking []domain.ScaleScore, n int) []domain.ScaleScore {
	if n < 0 {
		n = 0
	}
	if n > len(ranking) {
		n = len(ranking)
	}
	return ranking[:n]
}

// Position is the 1-based place of code in ranking, or 0 when absent.
func Position(ranking []domain.ScaleScore, code string) int {
	for i, s := range ranking {
		if s.Code == code {
			return i + 1
		}
	}
	return 0
}

// TB cutoffs. These are implementation choices for display, not validated
// clinical norms.
const (
	TBMainThreshold = 60
	TBMildThreshold = 40
)

// TBCaveat must accompany any TB value or severity shown to a reader.
const TBCaveat = "TB es ilustrativo (PD / máximo posible × 100). Los cortes 60 y 40 son umbrales de esta implementación, no normas clínicas validadas."

type Severity string

const (
	SeverityMain Severity = "Área de preocupación principal"
	SeverityMild Severity = "Levemente problemático"
	SeverityNull Severity = "Indicador nulo"
)

// TB normalizes a raw score to 0..100 against its ceiling.
func TB(s domain.ScaleScore) int {
	if s.MaxPossible <= 0 {
		return 0
	}
	return int(math.Round(s.Value / s.MaxPossible * 100))
}

// Classify places a TB value in one of the three display bands.
func Classify(tb int) Severity {
	switch {
	case tb >= TBMainThreshold:
		return SeverityMain
	case tb >= TBMildThreshold:
		return SeverityMild
	default:
		return SeverityNull
	}
}
