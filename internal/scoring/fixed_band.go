package scoring

import (
	"strings"

	"vida-plena/internal/domain"
)

// FixedBand scores instruments whose questions map statically from section
// to one of a closed set of bands. When sub-scales are configured every
// question must carry one of them in ScaleTag, and the overall band value is
// the sum of its sub-scale values.
type FixedBand struct {
	kind       Kind
	bands      []Band
	sections   map[int]string
	score      func(text string) float64
	maxPerItem float64
	subScales  []string
}

// NewFixedBand builds a fixed-band strategy. score must return a value in
// [0, maxPerItem].
func NewFixedBand(kind Kind, bands []Band, sections map[int]string, score func(string) float64, maxPerItem float64, subScales ...string) *FixedBand {
	return &FixedBand{
		kind:       kind,
		bands:      bands,
		sections:   sections,
		score:      score,
		maxPerItem: maxPerItem,
		subScales:  subScales,
	}
}

func (s *FixedBand) Kind() Kind { return s.kind }

// Bands returns the declared band order.
func (s *FixedBand) Bands() []Band { return s.bands }

type bandSlot struct {
	sub  int
	band int
}

func (s *FixedBand) Score(in Input) Result {
	bandIdx := make(map[string]int, len(s.bands))
	for i, b := range s.bands {
		bandIdx[b.Code] = i
	}

	subs := s.subScales
	if len(subs) == 0 {
		subs = []string{""}
	}
	grid := make([][]domain.ScaleScore, len(subs))
	for i := range grid {
		grid[i] = s.emptyScales()
	}

	slots := make(map[int64]bandSlot, len(in.Questions))
	for _, q := range in.Questions {
		code, ok := s.sections[q.Section]
		if !ok {
			continue
		}
		b, ok := bandIdx[code]
		if !ok {
			continue
		}
		sub, ok := s.subIndex(q.ScaleTag)
		if !ok {
			continue
		}
		slots[q.ID] = bandSlot{sub: sub, band: b}
		grid[sub][b].MaxPossible += s.maxPerItem
	}

	res := Result{Instrument: s.kind}
	for _, a := range uniqueAnswers(in.Answers) {
		slot, ok := slots[a.QuestionID]
		if !ok {
			continue
		}
		res.Answered++
		cell := &grid[slot.sub][slot.band]
		cell.Answered++
		pts := s.clamp(s.score(in.answerText(a)))
		if pts > 0 {
			res.Hits++
		}
		cell.Value += pts
	}

	if len(s.subScales) == 0 {
		res.Scales = grid[0]
	} else {
		overall := s.emptyScales()
		res.SubScales = make(map[string][]domain.ScaleScore, len(s.subScales))
		res.SubRankings = make(map[string][]domain.ScaleScore, len(s.subScales))
		for i, name := range s.subScales {
			for b := range overall {
				overall[b].Value += grid[i][b].Value
				overall[b].MaxPossible += grid[i][b].MaxPossible
				overall[b].Answered += grid[i][b].Answered
			}
			res.SubScales[name] = grid[i]
			res.SubRankings[name] = Rank(grid[i])
		}
		res.Scales = overall
	}
	res.Ranking = Rank(res.Scales)
	res.TotalScore = sumValues(res.Scales)
	return res
}

func (s *FixedBand) emptyScales() []domain.ScaleScore {
	out := make([]domain.ScaleScore, len(s.bands))
	for i, b := range s.bands {
		out[i] = domain.ScaleScore{Code: b.Code, Label: b.Label}
	}
	return out
}

func (s *FixedBand) subIndex(tag string) (int, bool) {
	if len(s.subScales) == 0 {
		return 0, true
	}
	tag = strings.ToLower(strings.TrimSpace(tag))
	for i, name := range s.subScales {
		if name == tag {
			return i, true
		}
	}
	return 0, false
}

func (s *FixedBand) clamp(pts float64) float64 {
	if pts < 0 {
		return 0
	}
	if pts > s.maxPerItem {
		return s.maxPerItem
	}
	return pts
}
