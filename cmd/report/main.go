package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vida-plena/internal/config"
	"vida-plena/internal/db"
	"vida-plena/internal/email"
	"vida-plena/internal/repository"
	"vida-plena/internal/scoring"
	"vida-plena/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "could not generate report: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		clientID   = flag.Int64("client", 0, "id del cliente")
		instrument = flag.String("instrument", "", "chaside | ippr | maci | dat | all")
		format     = flag.String("format", "pdf", "pdf | csv | json")
		outDir     = flag.String("out", ".", "directorio de salida")
		store      = flag.String("store", "", "postgres | sqlite (por defecto STORE_DRIVER)")
		mailTo     = flag.String("mail", "", "envia el reporte a esta direccion en lugar de escribirlo")
	)
	flag.Parse()

	if *clientID <= 0 {
		return errors.New("-client is required")
	}

	_ = godotenv.Load()
	if *store != "" {
		os.Setenv("STORE_DRIVER", *store)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := zap.NewExample()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	answers, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		loc = time.UTC
	}
	svc := service.NewReportService(answers, cfg.FetchChunkSize, loc, logger)

	kinds, err := resolveKinds(ctx, svc, *clientID, *instrument)
	if err != nil {
		return err
	}
	if *mailTo != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			return err
		}
		mailer := service.NewReportMailer(svc, sender, logger)
		for _, kind := range kinds {
			doc, err := mailer.Send(ctx, *clientID, kind, *format, *mailTo)
			if err != nil {
				return fmt.Errorf("%s: %w", kind.Title(), err)
			}
			fmt.Printf("%s -> %s\n", doc.FileName, *mailTo)
		}
		return nil
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	for _, kind := range kinds {
		doc, err := svc.Document(ctx, *clientID, kind, *format)
		if err != nil {
			return fmt.Errorf("%s: %w", kind.Title(), err)
		}
		path := filepath.Join(*outDir, doc.FileName)
		if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

// resolveKinds expande "all" a los instrumentos que el cliente respondio.
func resolveKinds(ctx context.Context, svc *service.ReportService, clientID int64, name string) ([]scoring.Kind, error) {
	if name != "all" {
		kind, ok := scoring.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", service.ErrUnknownInstrument, name)
		}
		return []scoring.Kind{kind}, nil
	}
	taken, err := svc.ClientInstruments(ctx, clientID)
	if err != nil {
		return nil, err
	}
	var kinds []scoring.Kind
	for _, in := range taken {
		if in.Kind != "" && !slices.Contains(kinds, in.Kind) {
			kinds = append(kinds, in.Kind)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: client %d has no scored instruments", service.ErrInstrumentNotFound, clientID)
	}
	return kinds, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.AnswerStore, func(), error) {
	if cfg.StoreDriver == config.StoreDriverSQLite {
		conn, err := db.OpenSQL(ctx, db.DriverSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLAnswerStore(conn), func() { conn.Close() }, nil
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewPgAnswerStore(pool), pool.Close, nil
}
