package scoring

import (
	"strings"

	"vida-plena/internal/domain"
)

// Kind identifies an instrument family.
type Kind string

const (
	KindChaside Kind = "chaside"
	KindIppr    Kind = "ippr"
	KindMaci    Kind = "maci"
	KindDat     Kind = "dat"
)

// Kinds lists the instruments in display order.
var Kinds = []Kind{KindChaside, KindIppr, KindMaci, KindDat}

// ParseKind accepts the route/flag spelling of an instrument ("IPP-R", "ippr", ...).
func ParseKind(s string) (Kind, bool) {
	k := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, kind := range Kinds {
		if string(kind) == k {
			return kind, true
		}
	}
	return "", false
}

// Title is the display name used in report headers and file names.
func (k Kind) Title() string {
	switch k {
	case KindIppr:
		return "IPP-R"
	default:
		return strings.ToUpper(string(k))
	}
}

// Input is everything read from the answer store for one client and one instrument.
type Input struct {
	Questions []domain.Question
	Answers   []domain.RawAnswer
	Options   map[int64]domain.AnswerOption
	Keys      []domain.ScaleKey
}

func (in Input) answerText(a domain.RawAnswer) string {
	if a.AnswerOptionID != nil {
		return in.Options[*a.AnswerOptionID].Text
	}
	return a.FreeText
}

func (in Input) answerTag(a domain.RawAnswer) string {
	if a.AnswerOptionID == nil {
		return ""
	}
	return in.Options[*a.AnswerOptionID].Tag
}

// uniqueAnswers keeps the first answer per question so a duplicated row can
// never push a scale past its ceiling.
func uniqueAnswers(answers []domain.RawAnswer) []domain.RawAnswer {
	seen := make(map[int64]struct{}, len(answers))
	out := make([]domain.RawAnswer, 0, len(answers))
	for _, a := range answers {
		if _, ok := seen[a.QuestionID]; ok {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Result is the scored view of one client on one instrument.
type Result struct {
	Instrument   Kind                           `json:"instrument"`
	Scales       []domain.ScaleScore            `json:"scales"`
	Ranking      []domain.ScaleScore            `json:"ranking"`
	SubScales    map[string][]domain.ScaleScore `json:"sub_scales,omitempty"`
	SubRankings  map[string][]domain.ScaleScore `json:"sub_rankings,omitempty"`
	Answered     int                            `json:"answered"`
	Hits         int                            `json:"hits"`
	TotalScore   float64                        `json:"total_score"`
	FallbackNote string                         `json:"fallback_note,omitempty"`
	Validity     *Validity                      `json:"validity,omitempty"`
	Notes        []string                       `json:"notes,omitempty"`
}

// Scale looks up a scale by code.
func (r Result) Scale(code string) (domain.ScaleScore, bool) {
	return findScale(r.Scales, code)
}

// SubScale looks up a scale inside a sub-scale breakdown (CHASIDE interest/aptitude).
func (r Result) SubScale(sub, code string) (domain.ScaleScore, bool) {
	return findScale(r.SubScales[sub], code)
}

func findScale(scales []domain.ScaleScore, code string) (domain.ScaleScore, bool) {
	for _, s := range scales {
		if s.Code == code {
			return s, true
		}
	}
	return domain.ScaleScore{}, false
}

// Strategy turns raw answers into scale scores for one instrument.
// Implementations are pure: the same Input always yields the same Result.
type Strategy interface {
	Kind() Kind
	Score(in Input) Result
}

// Band is a named scale in a strategy's declared order.
type Band struct {
	Code  string
	Label string
}

func sumValues(scales []domain.ScaleScore) float64 {
	var total float64
	for _, s := range scales {
		total += s.Value
	}
	return total
}
