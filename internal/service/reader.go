package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vida-plena/internal/domain"
	"vida-plena/internal/repository"
	"vida-plena/internal/scoring"
)

var (
	ErrInstrumentNotFound = errors.New("instrument unresolved")
	ErrDataFetch          = errors.New("data fetch failed")
	ErrUnknownInstrument  = errors.New("unknown instrument")
)

// NoteKeyUnavailable acompana un resultado MACI cuando la tabla de claves no
// se pudo leer y se uso el conteo por seccion.
const NoteKeyUnavailable = "no se pudo leer la clave MACI; se usa el conteo por sección"

const defaultChunkSize = 500

// instrumentPatterns resuelve cada instrumento contra tests.testname.
var instrumentPatterns = map[scoring.Kind]string{
	scoring.KindChaside: "chaside",
	scoring.KindIppr:    "ipp",
	scoring.KindMaci:    "maci",
	scoring.KindDat:     "dat",
}

// KindForName identifica el instrumento a partir del nombre del test.
func KindForName(name string) (scoring.Kind, bool) {
	lower := strings.ToLower(name)
	for _, kind := range scoring.Kinds {
		if strings.Contains(lower, instrumentPatterns[kind]) {
			return kind, true
		}
	}
	return "", false
}

// AnswerSet es todo lo que se lee del almacen para un cliente y un instrumento.
type AnswerSet struct {
	Instrument domain.Instrument
	Input      scoring.Input
	Notes      []string
}

// AnswerReader lee catalogo, respuestas y textos de opciones.
type AnswerReader struct {
	store     repository.AnswerStore
	chunkSize int
	logger    *zap.Logger
}

func NewAnswerReader(store repository.AnswerStore, chunkSize int, logger *zap.Logger) *AnswerReader {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerReader{store: store, chunkSize: chunkSize, logger: logger}
}

// Read resuelve el instrumento y devuelve el conjunto de respuestas del cliente.
// Cualquier fallo de lectura del catalogo, las respuestas o las opciones es fatal.
func (r *AnswerReader) Read(ctx context.Context, clientID int64, kind scoring.Kind) (AnswerSet, error) {
	pattern, ok := instrumentPatterns[kind]
	if !ok {
		return AnswerSet{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, kind)
	}

	instrument, err := r.store.FindInstrument(ctx, pattern)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrAmbiguous) {
			return AnswerSet{}, fmt.Errorf("%w: %s (%v)", ErrInstrumentNotFound, kind.Title(), err)
		}
		return AnswerSet{}, fmt.Errorf("%w: find instrument: %w", ErrDataFetch, err)
	}

	questions, err := r.store.ListQuestions(ctx, instrument.ID)
	if err != nil {
		return AnswerSet{}, fmt.Errorf("%w: list questions: %w", ErrDataFetch, err)
	}
	answers, err := r.store.ListAnswers(ctx, clientID, instrument.ID)
	if err != nil {
		return AnswerSet{}, fmt.Errorf("%w: list answers: %w", ErrDataFetch, err)
	}

	set := AnswerSet{
		Instrument: instrument,
		Input: scoring.Input{
			Questions: validQuestions(questions),
			Answers:   validAnswers(answers),
		},
	}

	set.Input.Options, err = r.readOptions(ctx, optionIDs(set.Input.Answers))
	if err != nil {
		return AnswerSet{}, err
	}

	if kind == scoring.KindMaci {
		keys, err := r.store.ListScaleKeys(ctx, instrument.ID)
		if err != nil {
			r.logger.Warn("scale key read failed, using section fallback",
				zap.Int64("client_id", clientID),
				zap.Int64("instrument_id", instrument.ID),
				zap.Error(err),
			)
			set.Notes = append(set.Notes, NoteKeyUnavailable)
			keys = nil
		}
		set.Input.Keys = keys
	}
	return set, nil
}

// readOptions consulta los textos en bloques de chunkSize ids.
func (r *AnswerReader) readOptions(ctx context.Context, ids []int64) (map[int64]domain.AnswerOption, error) {
	out := make(map[int64]domain.AnswerOption, len(ids))
	for _, chunk := range chunkIDs(ids, r.chunkSize) {
		opts, err := r.store.ListOptions(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("%w: list options: %w", ErrDataFetch, err)
		}
		for _, o := range opts {
			out[o.ID] = o
		}
	}
	return out, nil
}

func chunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = defaultChunkSize
	}
	var chunks [][]int64
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// optionIDs devuelve los ids de opcion distintos en orden de aparicion.
func optionIDs(answers []domain.RawAnswer) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, a := range answers {
		if a.AnswerOptionID == nil {
			continue
		}
		id := *a.AnswerOptionID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func validQuestions(in []domain.Question) []domain.Question {
	out := make([]domain.Question, 0, len(in))
	for _, q := range in {
		if q.ID <= 0 {
			continue
		}
		out = append(out, q)
	}
	return out
}

func validAnswers(in []domain.RawAnswer) []domain.RawAnswer {
	out := make([]domain.RawAnswer, 0, len(in))
	for _, a := range in {
		if a.QuestionID <= 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}
