package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"vida-plena/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous match")
)

// AnswerStore define las lecturas que necesita el generador de reportes.
// Todas las operaciones son de solo lectura.
type AnswerStore interface {
	// FindInstrument busca un test cuyo nombre contenga pattern (sin distinguir mayusculas).
	FindInstrument(ctx context.Context, pattern string) (domain.Instrument, error)
	ListQuestions(ctx context.Context, instrumentID int64) ([]domain.Question, error)
	// ListAnswers devuelve las respuestas ordenadas por pregunta.
	ListAnswers(ctx context.Context, clientID, instrumentID int64) ([]domain.RawAnswer, error)
	ListOptions(ctx context.Context, ids []int64) ([]domain.AnswerOption, error)
	// ListScaleKeys devuelve (nil, nil) si la tabla de claves no existe.
	ListScaleKeys(ctx context.Context, instrumentID int64) ([]domain.ScaleKey, error)
	ClientName(ctx context.Context, clientID int64) (string, error)
	ListClientInstruments(ctx context.Context, clientID int64) ([]domain.Instrument, error)
}

// pgUndefinedTable es el SQLSTATE de Postgres para tabla inexistente.
const pgUndefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}
	return strings.Contains(err.Error(), "no such table")
}

// pickInstrument aplica la regla de unicidad sobre las coincidencias encontradas.
func pickInstrument(matches []domain.Instrument) (domain.Instrument, error) {
	switch len(matches) {
	case 0:
		return domain.Instrument{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return domain.Instrument{}, ErrAmbiguous
	}
}

func likePattern(pattern string) string {
	return "%" + strings.ToLower(strings.TrimSpace(pattern)) + "%"
}

func clientDisplayName(name, username string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return strings.TrimSpace(username)
}
