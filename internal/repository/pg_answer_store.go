package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vida-plena/internal/domain"
)

// PgAnswerStore implementa AnswerStore usando pgxpool.
type PgAnswerStore struct {
	pool *pgxpool.Pool
}

func NewPgAnswerStore(pool *pgxpool.Pool) *PgAnswerStore {
	return &PgAnswerStore{pool: pool}
}

func (s *PgAnswerStore) FindInstrument(ctx context.Context, pattern string) (domain.Instrument, error) {
	const query = `
		SELECT id, testname
		FROM tests
		WHERE testname ILIKE $1
		ORDER BY id
		LIMIT 2
	`
	rows, err := s.pool.Query(ctx, query, likePattern(pattern))
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

func (s *PgAnswerStore) ListQuestions(ctx context.Context, instrumentID int64) ([]domain.Question, error) {
	const query = `
		SELECT id, testid, COALESCE(section, 0), COALESCE(NULLIF(chatype, ''), dat_type, '')
		FROM questions
		WHERE testid = $1 AND id > 0
		ORDER BY id
	`
	rows, err := s.pool.Query(ctx, query, instrumentID)
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

func (s *PgAnswerStore) ListAnswers(ctx context.Context, clientID, instrumentID int64) ([]domain.RawAnswer, error) {
	const query = `
		SELECT questionid, answerid, COALESCE(details, '')
		FROM testsanswers
		WHERE clientid = $1 AND testid = $2 AND questionid IS NOT NULL
		ORDER BY questionid, id
	`
	rows, err := s.pool.Query(ctx, query, clientID, instrumentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawAnswer
	for rows.Next() {
		var a domain.RawAnswer
		if err := rows.Scan(&a.QuestionID, &a.AnswerOptionID, &a.FreeText); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PgAnswerStore) ListOptions(ctx context.Context, ids []int64) ([]domain.AnswerOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT id, questionid, COALESCE(answer, ''), COALESCE(dat_info, '')
		FROM answeroptions
		WHERE id = ANY($1)
	`
	rows, err := s.pool.Query(ctx, query, ids)
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

func (s *PgAnswerStore) ListScaleKeys(ctx context.Context, instrumentID int64) ([]domain.ScaleKey, error) {
	const query = `
		SELECT k.questionid, k.scale, COALESCE(k.scale_label, ''), k.keyed_direction, k.weight
		FROM maci_key k
		JOIN questions q ON q.id = k.questionid
		WHERE q.testid = $1
		ORDER BY k.questionid, k.scale
	`
	rows, err := s.pool.Query(ctx, query, instrumentID)
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
	if err := rows.Err(); err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (s *PgAnswerStore) ClientName(ctx context.Context, clientID int64) (string, error) {
	const query = `
		SELECT COALESCE(name, ''), username
		FROM users
		WHERE id = $1
	`
	var name, username string
	err := s.pool.QueryRow(ctx, query, clientID).Scan(&name, &username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("client name: %w", err)
	}
	return clientDisplayName(name, username), nil
}

func (s *PgAnswerStore) ListClientInstruments(ctx context.Context, clientID int64) ([]domain.Instrument, error) {
	const query = `
		SELECT DISTINCT t.id, t.testname
		FROM testsanswers a
		JOIN tests t ON t.id = a.testid
		WHERE a.clientid = $1 AND t.testname NOT ILIKE '%entrevista%'
		ORDER BY t.id
	`
	rows, err := s.pool.Query(ctx, query, clientID)
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
