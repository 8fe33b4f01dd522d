package scoring

import (
	"testing"

	"vida-plena/internal/domain"
)

func TestDatCorrectCount(t *testing.T) {
	in := Input{
		Questions: []domain.Question{
			{ID: 1, ScaleTag: "razonamiento_verbal"},
			{ID: 2, ScaleTag: "Razonamiento_Verbal"},
			{ID: 3, ScaleTag: "ortografia"},
			{ID: 4, ScaleTag: ""},
		},
		Answers: []domain.RawAnswer{
			{QuestionID: 1, AnswerOptionID: optID(1)},
			{QuestionID: 2, AnswerOptionID: optID(2)},
			{QuestionID: 4, AnswerOptionID: optID(1)},
			{QuestionID: 1, AnswerOptionID: optID(2)},
		},
		Options: map[int64]domain.AnswerOption{
			1: {ID: 1, Tag: "correcta"},
			2: {ID: 2, Tag: ""},
		},
	}
	res := Dat().Score(in)

	if len(res.Scales) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(res.Scales))
	}
	verbal, _ := res.Scale("razonamiento_verbal")
	if verbal.Value != 1 || verbal.MaxPossible != 2 || verbal.Answered != 2 {
		t.Fatalf("unexpected verbal: %+v", verbal)
	}
	spelling, _ := res.Scale("ortografia")
	if spelling.Value != 0 || spelling.MaxPossible != 1 || spelling.Answered != 0 {
		t.Fatalf("unexpected ortografia: %+v", spelling)
	}
	if res.Answered != 2 || res.Hits != 1 {
		t.Fatalf("unexpected counters: answered=%d hits=%d", res.Answered, res.Hits)
	}
	if Completed(res.Scales) != 1 {
		t.Fatalf("expected one completed category, got %d", Completed(res.Scales))
	}
}
