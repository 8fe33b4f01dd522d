package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"vida-plena/internal/email"
	"vida-plena/internal/scoring"
)

type mockSender struct {
	sent []email.Message
	err  error
}

func (m *mockSender) Send(_ context.Context, msg email.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestReportMailer_SendsRenderedReport(t *testing.T) {
	sender := &mockSender{}
	mailer := NewReportMailer(newTestReportService(newMockStore()), sender, zap.NewNop())

	doc, err := mailer.Send(context.Background(), 12, scoring.KindChaside, "csv", "Psicologa <psico@vidaplena.ec>")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "psico@vidaplena.ec" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].Name != doc.FileName || msg.Attachments[0].ContentType != doc.ContentType {
		t.Fatalf("unexpected attachments: %+v", msg.Attachments)
	}
}

func TestReportMailer_InvalidRecipient(t *testing.T) {
	sender := &mockSender{}
	mailer := NewReportMailer(newTestReportService(newMockStore()), sender, zap.NewNop())

	_, err := mailer.Send(context.Background(), 12, scoring.KindChaside, "pdf", "not-an-address")
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestReportMailer_DisabledSender(t *testing.T) {
	mailer := NewReportMailer(newTestReportService(newMockStore()), nil, zap.NewNop())

	_, err := mailer.Send(context.Background(), 12, scoring.KindChaside, "pdf", "psico@vidaplena.ec")
	if !errors.Is(err, email.ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestReportMailer_PropagatesReportErrors(t *testing.T) {
	store := newMockStore()
	store.answersErr = errors.New("timeout")
	sender := &mockSender{}
	mailer := NewReportMailer(newTestReportService(store), sender, zap.NewNop())

	_, err := mailer.Send(context.Background(), 12, scoring.KindChaside, "pdf", "psico@vidaplena.ec")
	if !errors.Is(err, ErrDataFetch) {
		t.Fatalf("expected ErrDataFetch, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}
