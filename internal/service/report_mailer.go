package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"vida-plena/internal/email"
	"vida-plena/internal/scoring"
)

var ErrInvalidRecipient = errors.New("invalid recipient")

// ReportMailer renders a report and sends it as an email attachment.
type ReportMailer struct {
	reports *ReportService
	sender  email.Sender
	logger  *zap.Logger
}

func NewReportMailer(reports *ReportService, sender email.Sender, logger *zap.Logger) *ReportMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = email.NewDisabledSender("")
	}
	return &ReportMailer{reports: reports, sender: sender, logger: logger}
}

// Send renders the report and mails it to the given address.
func (m *ReportMailer) Send(ctx context.Context, clientID int64, kind scoring.Kind, format, to string) (Document, error) {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}
	doc, err := m.reports.Document(ctx, clientID, kind, format)
	if err != nil {
		return Document{}, err
	}

	msg := email.Message{
		To:      addr.Address,
		Subject: fmt.Sprintf("Reporte %s", kind.Title()),
		Body:    fmt.Sprintf("Se adjunta el reporte %s del cliente %d.\n", kind.Title(), clientID),
		Attachments: []email.Attachment{
			{Name: doc.FileName, ContentType: doc.ContentType, Data: doc.Body},
		},
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return Document{}, fmt.Errorf("send report: %w", err)
	}
	m.logger.Info("report mailed",
		zap.Int64("client_id", clientID),
		zap.String("instrument", string(kind)),
		zap.String("file", doc.FileName),
	)
	return doc, nil
}
