package scoring

import (
	"vida-plena/internal/domain"
)

// CorrectCount scores aptitude batteries: each category counts the answers
// whose chosen option is flagged correct, out of the catalog questions in it.
type CorrectCount struct {
	kind       Kind
	categories []Band
	isCorrect  func(tag string) bool
}

func NewCorrectCount(kind Kind, categories []Band, isCorrect func(string) bool) *CorrectCount {
	return &CorrectCount{kind: kind, categories: categories, isCorrect: isCorrect}
}

func (s *CorrectCount) Kind() Kind { return s.kind }

func (s *CorrectCount) Score(in Input) Result {
	idx := make(map[string]int, len(s.categories))
	scales := make([]domain.ScaleScore, len(s.categories))
	for i, c := range s.categories {
		idx[c.Code] = i
		scales[i] = domain.ScaleScore{Code: c.Code, Label: c.Label}
	}

	qCat := make(map[int64]int, len(in.Questions))
	for _, q := range in.Questions {
		i, ok := idx[Normalize(q.ScaleTag)]
		if !ok {
			continue
		}
		qCat[q.ID] = i
		scales[i].MaxPossible++
	}

	res := Result{Instrument: s.kind}
	for _, a := range uniqueAnswers(in.Answers) {
		i, ok := qCat[a.QuestionID]
		if !ok {
			continue
		}
		res.Answered++
		scales[i].Answered++
		if s.isCorrect(in.answerTag(a)) {
			scales[i].Value++
			res.Hits++
		}
	}

	res.Scales = scales
	res.Ranking = Rank(scales)
	res.TotalScore = sumValues(scales)
	return res
}

// Completed counts the categories with at least one answer.
func Completed(scales []domain.ScaleScore) int {
	n := 0
	for _, s := range scales {
		if s.Answered > 0 {
			n++
		}
	}
	return n
}
