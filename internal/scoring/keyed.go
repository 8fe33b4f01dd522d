package scoring

import (
	"fmt"
	"sort"
	"strings"

	"vida-plena/internal/domain"
)

// FallbackNote marks results computed without a scale key.
const FallbackNote = "no scale key; section-count fallback"

// ValidityRule flags a response protocol when a keyed scale crosses a cutoff.
type ValidityRule struct {
	Scale   string
	Fires   func(pd float64) bool
	Warning string
}

// Validity summarizes the validity rules that applied to a keyed result.
type Validity struct {
	Valid    bool               `json:"valid"`
	Indexes  map[string]float64 `json:"indexes"`
	Warnings []string           `json:"warnings,omitempty"`
}

// KeyedWithFallback scores boolean instruments through an external scale key
// (question -> scale, keyed direction, weight). Without a key it degrades to
// counting "true" answers per raw section and labels the result approximate.
type KeyedWithFallback struct {
	kind     Kind
	truth    func(text string) bool
	order    []Band
	validity []ValidityRule
}

func NewKeyedWithFallback(kind Kind, truth func(string) bool, order []Band, validity ...ValidityRule) *KeyedWithFallback {
	return &KeyedWithFallback{kind: kind, truth: truth, order: order, validity: validity}
}

func (s *KeyedWithFallback) Kind() Kind { return s.kind }

func (s *KeyedWithFallback) Score(in Input) Result {
	catalog := make(map[int64]domain.Question, len(in.Questions))
	for _, q := range in.Questions {
		catalog[q.ID] = q
	}

	res := Result{Instrument: s.kind}
	truthByQ := make(map[int64]bool)
	for _, a := range uniqueAnswers(in.Answers) {
		if _, ok := catalog[a.QuestionID]; !ok {
			continue
		}
		v := s.truth(in.answerText(a))
		truthByQ[a.QuestionID] = v
		res.Answered++
		if v {
			res.Hits++
		}
	}

	if len(in.Keys) == 0 {
		res.Scales = s.sectionCounts(in.Questions, truthByQ)
		res.FallbackNote = FallbackNote
	} else {
		res.Scales = s.keyed(in.Keys, catalog, truthByQ)
		res.Validity = s.checkValidity(res.Scales)
	}
	res.Ranking = Rank(res.Scales)
	res.TotalScore = sumValues(res.Scales)
	return res
}

func (s *KeyedWithFallback) keyed(keys []domain.ScaleKey, catalog map[int64]domain.Question, truthByQ map[int64]bool) []domain.ScaleScore {
	type keyID struct {
		question int64
		scale    string
	}
	seen := make(map[keyID]struct{}, len(keys))
	acc := make(map[string]*domain.ScaleScore)
	var appearance []string

	for _, k := range keys {
		code := strings.TrimSpace(k.Scale)
		if code == "" || k.Weight <= 0 {
			continue
		}
		if _, ok := catalog[k.QuestionID]; !ok {
			continue
		}
		id := keyID{question: k.QuestionID, scale: code}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		sc, ok := acc[code]
		if !ok {
			sc = &domain.ScaleScore{Code: code, Label: s.label(code, k.ScaleLabel)}
			acc[code] = sc
			appearance = append(appearance, code)
		}
		sc.MaxPossible += k.Weight
		answer, answered := truthByQ[k.QuestionID]
		if !answered {
			continue
		}
		sc.Answered++
		if answer == k.KeyedDirection {
			sc.Value += k.Weight
		}
	}

	out := make([]domain.ScaleScore, 0, len(acc))
	for _, b := range s.order {
		if sc, ok := acc[b.Code]; ok {
			out = append(out, *sc)
			delete(acc, b.Code)
		}
	}
	for _, code := range appearance {
		if sc, ok := acc[code]; ok {
			out = append(out, *sc)
		}
	}
	return out
}

func (s *KeyedWithFallback) sectionCounts(questions []domain.Question, truthByQ map[int64]bool) []domain.ScaleScore {
	bySection := make(map[int]*domain.ScaleScore)
	for _, q := range questions {
		sc, ok := bySection[q.Section]
		if !ok {
			sc = &domain.ScaleScore{
				Code:  fmt.Sprintf("SEC_%d", q.Section),
				Label: fmt.Sprintf("Sección %d", q.Section),
			}
			bySection[q.Section] = sc
		}
		sc.MaxPossible++
		v, answered := truthByQ[q.ID]
		if !answered {
			continue
		}
		sc.Answered++
		if v {
			sc.Value++
		}
	}

	sections := make([]int, 0, len(bySection))
	for n := range bySection {
		sections = append(sections, n)
	}
	sort.Ints(sections)
	out := make([]domain.ScaleScore, 0, len(sections))
	for _, n := range sections {
		out = append(out, *bySection[n])
	}
	return out
}

func (s *KeyedWithFallback) label(code, fromKey string) string {
	if l := strings.TrimSpace(fromKey); l != "" {
		return l
	}
	for _, b := range s.order {
		if b.Code == code {
			return b.Label
		}
	}
	return code
}

func (s *KeyedWithFallback) checkValidity(scales []domain.ScaleScore) *Validity {
	var v *Validity
	for _, rule := range s.validity {
		sc, ok := findScale(scales, rule.Scale)
		if !ok {
			continue
		}
		if v == nil {
			v = &Validity{Valid: true, Indexes: make(map[string]float64)}
		}
		v.Indexes[rule.Scale] = sc.Value
		if rule.Fires(sc.Value) {
			v.Valid = false
			v.Warnings = append(v.Warnings, rule.Warning)
		}
	}
	return v
}
