package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vida-plena/internal/domain"
)

// SQLAnswerStore implementa AnswerStore sobre database/sql. Sirve tanto para
// SQLite (modo offline y tests) como para Postgres via pgx/stdlib.
type SQLAnswerStore struct {
	db *sql.DB
}

func NewSQLAnswerStore(db *sql.DB) *SQLAnswerStore {
	return &SQLAnswerStore{db: db}
}

func (s *SQLAnswerStore) FindInstrument(ctx context.Context, pattern string) (domain.Instrument, error) {
	const query = `
		SELECT id, testname
		FROM tests
		WHERE LOWER(testname) LIKE $1
		ORDER BY id
		LIMIT 2
	`
	rows, err := s.db.QueryContext(ctx, query, likePattern(pattern))
	if err != nil {
		return domain.Instrument{}, err
	}
	defer rows.Close()

	var matches []domain.Instrument
	for rows.Next() {
		var in domain.Instrument
		if err := rows.Scan(&in.ID, &in.Name); err != nil {
			return domain.Instrument{}, err
		}
		matches = append(matches, in)
	}
	if err := rows.Err(); err != nil {
		return domain.Instrument{}, err
	}
	return pickInstrument(matches)
}

func (s *SQLAnswerStore) ListQuestions(ctx context.Context, instrumentID int64) ([]domain.Question, error) {
	const query = `
		SELECT id, testid, COALESCE(section, 0), COALESCE(NULLIF(chatype, ''), dat_type, '')
		FROM questions
		WHERE testid = $1 AND id > 0
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.InstrumentID, &q.Section, &q.ScaleTag); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLAnswerStore) ListAnswers(ctx context.Context, clientID, instrumentID int64) ([]domain.RawAnswer, error) {
	const query = `
		SELECT questionid, answerid, COALESCE(details, '')
		FROM testsanswers
		WHERE clientid = $1 AND testid = $2 AND questionid IS NOT NULL
		ORDER BY questionid, id
	`
	rows, err := s.db.QueryContext(ctx, query, clientID, instrumentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawAnswer
	for rows.Next() {
		var (
			a        domain.RawAnswer
			optionID sql.NullInt64
		)
		if err := rows.Scan(&a.QuestionID, &optionID, &a.FreeText); err != nil {
			return nil, err
		}
		if optionID.Valid {
			id := optionID.Int64
			a.AnswerOptionID = &id
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLAnswerStore) ListOptions(ctx context.Context, ids []int64) ([]domain.AnswerOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inList(ids)
	query := fmt.Sprintf(`
		SELECT id, questionid, COALESCE(answer, ''), COALESCE(dat_info, '')
		FROM answeroptions
		WHERE id IN (%s)
	`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AnswerOption
	for rows.Next() {
		var o domain.AnswerOption
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Tag); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLAnswerStore) ListScaleKeys(ctx context.Context, instrumentID int64) ([]domain.ScaleKey, error) {
	const query = `
		SELECT k.questionid, k.scale, COALESCE(k.scale_label, ''), k.keyed_direction, k.weight
		FROM maci_key k
		JOIN questions q ON q.id = k.questionid
		WHERE q.testid = $1
		ORDER BY k.questionid, k.scale
	`
	rows, err := s.db.QueryContext(ctx, query, instrumentID)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	var out []domain.ScaleKey
	for rows.Next() {
		var k domain.ScaleKey
		if err := rows.Scan(&k.QuestionID, &k.Scale, &k.ScaleLabel, &k.KeyedDirection, &k.Weight); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *SQLAnswerStore) ClientName(ctx context.Context, clientID int64) (string, error) {
	const query = `
		SELECT COALESCE(name, ''), username
		FROM users
		WHERE id = $1
	`
	var name, username string
	err := s.db.QueryRowContext(ctx, query, clientID).Scan(&name, &username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("client name: %w", err)
	}
	return clientDisplayName(name, username), nil
}

func (s *SQLAnswerStore) ListClientInstruments(ctx context.Context, clientID int64) ([]domain.Instrument, error) {
	const query = `
		SELECT DISTINCT t.id, t.testname
		FROM testsanswers a
		JOIN tests t ON t.id = a.testid
		WHERE a.clientid = $1 AND LOWER(t.testname) NOT LIKE '%entrevista%'
		ORDER BY t.id
	`
	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Instrument
	for rows.Next() {
		var in domain.Instrument
		if err := rows.Scan(&in.ID, &in.Name); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// inList arma "$1, $2, ..." para una lista de ids.
func inList(ids []int64) (string, []any) {
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(ph, ", "), args
}
