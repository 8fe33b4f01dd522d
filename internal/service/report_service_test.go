package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"vida-plena/internal/domain"
	"vida-plena/internal/repository"
	"vida-plena/internal/scoring"
)

type mockAnswerStore struct {
	instruments []domain.Instrument
	questions   map[int64][]domain.Question
	answers     map[int64][]domain.RawAnswer
	options     map[int64]domain.AnswerOption
	keys        []domain.ScaleKey
	names       map[int64]string
	taken       []domain.Instrument

	findErr    error
	answersErr error
	optionsErr error
	keysErr    error

	optionCalls [][]int64
}

func (m *mockAnswerStore) FindInstrument(_ context.Context, pattern string) (domain.Instrument, error) {
	if m.findErr != nil {
		return domain.Instrument{}, m.findErr
	}
	var matches []domain.Instrument
	for _, in := range m.instruments {
		if strings.Contains(strings.ToLower(in.Name), pattern) {
			matches = append(matches, in)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Instrument{}, repository.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return domain.Instrument{}, repository.ErrAmbiguous
	}
}

func (m *mockAnswerStore) ListQuestions(_ context.Context, instrumentID int64) ([]domain.Question, error) {
	return m.questions[instrumentID], nil
}

func (m *mockAnswerStore) ListAnswers(_ context.Context, _, instrumentID int64) ([]domain.RawAnswer, error) {
	if m.answersErr != nil {
		return nil, m.answersErr
	}
	return m.answers[instrumentID], nil
}

func (m *mockAnswerStore) ListOptions(_ context.Context, ids []int64) ([]domain.AnswerOption, error) {
	m.optionCalls = append(m.optionCalls, append([]int64(nil), ids...))
	if m.optionsErr != nil {
		return nil, m.optionsErr
	}
	var out []domain.AnswerOption
	for _, id := range ids {
		if o, ok := m.options[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockAnswerStore) ListScaleKeys(_ context.Context, _ int64) ([]domain.ScaleKey, error) {
	return m.keys, m.keysErr
}

func (m *mockAnswerStore) ClientName(_ context.Context, clientID int64) (string, error) {
	name, ok := m.names[clientID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return name, nil
}

func (m *mockAnswerStore) ListClientInstruments(_ context.Context, _ int64) ([]domain.Instrument, error) {
	return m.taken, nil
}

func optID(id int64) *int64 { return &id }

func newMockStore() *mockAnswerStore {
	return &mockAnswerStore{
		instruments: []domain.Instrument{
			{ID: 1, Name: "CHASIDE"},
			{ID: 2, Name: "IPP-R"},
			{ID: 3, Name: "MACI"},
		},
		questions: map[int64][]domain.Question{
			1: {
				{ID: 10, InstrumentID: 1, Section: 1, ScaleTag: "interest"},
				{ID: 11, InstrumentID: 1, Section: 1, ScaleTag: "interest"},
				{ID: 12, InstrumentID: 1, Section: 1, ScaleTag: "aptitude"},
				{ID: 0, InstrumentID: 1, Section: 1, ScaleTag: "aptitude"},
			},
			3: {
				{ID: 30, InstrumentID: 3, Section: 5},
				{ID: 31, InstrumentID: 3, Section: 5},
				{ID: 32, InstrumentID: 3, Section: 5},
			},
		},
		answers: map[int64][]domain.RawAnswer{
			1: {
				{QuestionID: 10, AnswerOptionID: optID(100)},
				{QuestionID: 11, AnswerOptionID: optID(101)},
				{QuestionID: 12, AnswerOptionID: optID(100)},
				{QuestionID: 0, FreeText: "si"},
			},
			3: {
				{QuestionID: 30, FreeText: "Verdadero"},
				{QuestionID: 31, FreeText: "Falso"},
				{QuestionID: 32, FreeText: "Verdadero"},
			},
		},
		options: map[int64]domain.AnswerOption{
			100: {ID: 100, Text: "Sí"},
			101: {ID: 101, Text: "No"},
		},
		names: map[int64]string{12: "Ana Pérez"},
	}
}

func newTestReportService(store *mockAnswerStore) *ReportService {
	svc := NewReportService(store, 1, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestReportService_ScoreChaside(t *testing.T) {
	store := newMockStore()
	svc := newTestReportService(store)

	scored, err := svc.Score(context.Background(), 12, scoring.KindChaside)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	interest, _ := scored.Result.SubScale(scoring.SubInterest, "C")
	aptitude, _ := scored.Result.SubScale(scoring.SubAptitude, "C")
	overall, _ := scored.Result.Scale("C")
	if interest.Value != 1 || aptitude.Value != 1 || overall.Value != 2 {
		t.Fatalf("unexpected C scores: %v %v %v", interest.Value, aptitude.Value, overall.Value)
	}
	if scored.Result.Answered != 3 {
		t.Fatalf("expected malformed rows dropped, answered=%d", scored.Result.Answered)
	}
	if scored.ClientName != "Ana Pérez" {
		t.Fatalf("unexpected client name %q", scored.ClientName)
	}
	if len(store.optionCalls) != 2 {
		t.Fatalf("expected options fetched in chunks of 1, got %v", store.optionCalls)
	}
}

func TestReportService_InstrumentNotFound(t *testing.T) {
	svc := newTestReportService(newMockStore())

	_, err := svc.Score(context.Background(), 12, scoring.KindDat)
	if !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound, got %v", err)
	}
}

func TestReportService_AmbiguousInstrumentIsNotFound(t *testing.T) {
	store := newMockStore()
	store.instruments = append(store.instruments, domain.Instrument{ID: 9, Name: "CHASIDE abreviado"})
	svc := newTestReportService(store)

	_, err := svc.Score(context.Background(), 12, scoring.KindChaside)
	if !errors.Is(err, ErrInstrumentNotFound) {
		t.Fatalf("expected ErrInstrumentNotFound, got %v", err)
	}
}

func TestReportService_DataFetchFailures(t *testing.T) {
	cause := errors.New("connection reset")

	t.Run("answers", func(t *testing.T) {
		store := newMockStore()
		store.answersErr = cause
		_, err := newTestReportService(store).Score(context.Background(), 12, scoring.KindChaside)
		if !errors.Is(err, ErrDataFetch) || !errors.Is(err, cause) {
			t.Fatalf("expected ErrDataFetch wrapping cause, got %v", err)
		}
	})

	t.Run("options", func(t *testing.T) {
		store := newMockStore()
		store.optionsErr = cause
		_, err := newTestReportService(store).Score(context.Background(), 12, scoring.KindChaside)
		if !errors.Is(err, ErrDataFetch) {
			t.Fatalf("expected ErrDataFetch, got %v", err)
		}
	})

	t.Run("find", func(t *testing.T) {
		store := newMockStore()
		store.findErr = cause
		_, err := newTestReportService(store).Score(context.Background(), 12, scoring.KindChaside)
		if !errors.Is(err, ErrDataFetch) || errors.Is(err, ErrInstrumentNotFound) {
			t.Fatalf("expected ErrDataFetch, got %v", err)
		}
	})
}

func TestReportService_MaciFallbackAndKeyFailure(t *testing.T) {
	store := newMockStore()
	svc := newTestReportService(store)

	scored, err := svc.Score(context.Background(), 12, scoring.KindMaci)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	sec, ok := scored.Result.Scale("SEC_5")
	if !ok || sec.Value != 2 || sec.MaxPossible != 3 {
		t.Fatalf("unexpected SEC_5: %+v", sec)
	}
	if scored.Result.FallbackNote == "" || len(scored.Notes) != 0 {
		t.Fatalf("expected plain fallback without read notes")
	}

	store.keysErr = errors.New("permission denied")
	scored, err = svc.Score(context.Background(), 12, scoring.KindMaci)
	if err != nil {
		t.Fatalf("key read failure must not be fatal: %v", err)
	}
	if len(scored.Notes) != 1 || scored.Notes[0] != NoteKeyUnavailable {
		t.Fatalf("expected key-unavailable note, got %v", scored.Notes)
	}
}

func TestReportService_UnknownClientNameFallsBackToID(t *testing.T) {
	svc := newTestReportService(newMockStore())

	doc, err := svc.Document(context.Background(), 77, scoring.KindIppr, "csv")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.FileName != "IPP-R_77.csv" {
		t.Fatalf("unexpected file name %q", doc.FileName)
	}
	if !bytes.HasPrefix(doc.Body, []byte("Reporte IPP-R")) {
		t.Fatalf("unexpected body: %q", doc.Body)
	}
}

func TestReportService_DocumentPDF(t *testing.T) {
	svc := newTestReportService(newMockStore())

	doc, err := svc.Document(context.Background(), 12, scoring.KindChaside, "pdf")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.ContentType != "application/pdf" || doc.FileName != "CHASIDE_Ana_Pérez.pdf" {
		t.Fatalf("unexpected document: %s %s", doc.ContentType, doc.FileName)
	}
	if !bytes.HasPrefix(doc.Body, []byte("%PDF-")) {
		t.Fatalf("expected pdf body")
	}
}

func TestReportService_ClientInstruments(t *testing.T) {
	store := newMockStore()
	store.taken = []domain.Instrument{
		{ID: 1, Name: "CHASIDE"},
		{ID: 4, Name: "Entrevista inicial"},
		{ID: 3, Name: "MACI"},
	}
	svc := newTestReportService(store)

	got, err := svc.ClientInstruments(context.Background(), 12)
	if err != nil {
		t.Fatalf("client instruments: %v", err)
	}
	if len(got) != 2 || got[0].Kind != scoring.KindChaside || got[1].Kind != scoring.KindMaci {
		t.Fatalf("unexpected instruments: %+v", got)
	}
}

func TestChunkIDs(t *testing.T) {
	chunks := chunkIDs([]int64{1, 2, 3, 4, 5}, 2)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
	if chunkIDs(nil, 2) != nil {
		t.Fatalf("expected no chunks for no ids")
	}
}

func TestOptionIDsDistinctInOrder(t *testing.T) {
	ids := optionIDs([]domain.RawAnswer{
		{QuestionID: 1, AnswerOptionID: optID(5)},
		{QuestionID: 2},
		{QuestionID: 3, AnswerOptionID: optID(3)},
		{QuestionID: 4, AnswerOptionID: optID(5)},
	})
	if len(ids) != 2 || ids[0] != 5 || ids[1] != 3 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
