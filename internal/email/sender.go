package email

import (
	"context"
	"errors"
)

var ErrDisabled = errors.New("email sender disabled")

// Attachment es un archivo adjunto al correo.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message es un correo con reporte adjunto.
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender define la interfaz para el envio de reportes por correo.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) Send(_ context.Context, _ Message) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return errors.Join(ErrDisabled, errors.New(s.reason))
}
