package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vida-plena/internal/domain"
	"vida-plena/internal/report"
	"vida-plena/internal/repository"
	"vida-plena/internal/scoring"
)

// ScoredReport is one client's scored result on one instrument.
type ScoredReport struct {
	ClientID    int64             `json:"client_id"`
	ClientName  string            `json:"client_name,omitempty"`
	Instrument  domain.Instrument `json:"instrument"`
	Result      scoring.Result    `json:"result"`
	Notes       []string          `json:"notes,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// Subject is the report header data for this result.
func (r ScoredReport) Subject() report.Subject {
	return report.Subject{ClientID: r.ClientID, ClientName: r.ClientName, GeneratedAt: r.GeneratedAt}
}

// Document is a rendered report ready to be written or served.
type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ClientInstrument is an instrument a client has answered.
type ClientInstrument struct {
	domain.Instrument
	Kind scoring.Kind `json:"kind,omitempty"`
}

// ReportService runs read, score and render for a single report request.
// It keeps no state between requests.
type ReportService struct {
	store      repository.AnswerStore
	reader     *AnswerReader
	strategies map[scoring.Kind]scoring.Strategy
	logger     *zap.Logger
	loc        *time.Location
	now        func() time.Time
}

func NewReportService(store repository.AnswerStore, chunkSize int, loc *time.Location, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		store:      store,
		reader:     NewAnswerReader(store, chunkSize, logger),
		strategies: scoring.DefaultStrategies(),
		logger:     logger,
		loc:        loc,
		now:        time.Now,
	}
}

// Score reads and scores one instrument for a client.
func (s *ReportService) Score(ctx context.Context, clientID int64, kind scoring.Kind) (ScoredReport, error) {
	strategy, ok := s.strategies[kind]
	if !ok {
		return ScoredReport{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, kind)
	}

	set, err := s.reader.Read(ctx, clientID, kind)
	if err != nil {
		return ScoredReport{}, err
	}

	res := strategy.Score(set.Input)
	if res.FallbackNote != "" {
		s.logger.Warn("scored without scale key",
			zap.Int64("client_id", clientID),
			zap.String("instrument", string(kind)),
		)
	}

	name, err := s.store.ClientName(ctx, clientID)
	if err != nil {
		s.logger.Warn("client name lookup failed",
			zap.Int64("client_id", clientID),
			zap.Error(err),
		)
		name = ""
	}

	return ScoredReport{
		ClientID:    clientID,
		ClientName:  name,
		Instrument:  set.Instrument,
		Result:      res,
		Notes:       set.Notes,
		GeneratedAt: s.now().In(s.loc),
	}, nil
}

// Table scores and shapes the report without rendering it.
func (s *ReportService) Table(ctx context.Context, clientID int64, kind scoring.Kind) (ScoredReport, report.Table, error) {
	scored, err := s.Score(ctx, clientID, kind)
	if err != nil {
		return ScoredReport{}, report.Table{}, err
	}
	return scored, report.Build(scored.Subject(), scored.Result, scored.Notes...), nil
}

// Document renders the report in format ("pdf", "csv" or "json").
func (s *ReportService) Document(ctx context.Context, clientID int64, kind scoring.Kind, format string) (Document, error) {
	renderer, err := report.RendererFor(format)
	if err != nil {
		return Document{}, err
	}
	scored, tbl, err := s.Table(ctx, clientID, kind)
	if err != nil {
		return Document{}, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, tbl); err != nil {
		return Document{}, fmt.Errorf("render %s: %w", renderer.Extension(), err)
	}
	s.logger.Info("report generated",
		zap.Int64("client_id", clientID),
		zap.String("instrument", string(kind)),
		zap.String("format", renderer.Extension()),
		zap.Int("bytes", buf.Len()),
	)
	return Document{
		FileName:    report.FileName(kind, scored.Subject(), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// ClientInstruments lists the instruments a client has answered, leaving
// interviews out.
func (s *ReportService) ClientInstruments(ctx context.Context, clientID int64) ([]ClientInstrument, error) {
	instruments, err := s.store.ListClientInstruments(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list client instruments: %w", ErrDataFetch, err)
	}
	out := make([]ClientInstrument, 0, len(instruments))
	for _, in := range instruments {
		if strings.Contains(strings.ToLower(in.Name), "entrevista") {
			continue
		}
		kind, _ := KindForName(in.Name)
		out = append(out, ClientInstrument{Instrument: in, Kind: kind})
	}
	return out, nil
}
