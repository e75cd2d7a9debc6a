package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// SMTPSender implementa domain.EmailSender sobre SMTP autenticado.
// Un intento por invocación: el reintento es responsabilidad del proveedor
// de pagos vía redelivery del webhook, no nuestra.
type SMTPSender struct {
	client *mail.Client
	from   string
	log    *zap.Logger
}

var _ domain.EmailSender = (*SMTPSender)(nil)

func NewSMTPSender(host string, port int, user, pass, from string, log *zap.Logger) (*SMTPSender, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(user),
		mail.WithPassword(pass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: from, log: log}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	s.log.Debug("email entregado al transporte", zap.String("to", msg.To))
	return nil
}
