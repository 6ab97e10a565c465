// Package mail delivers outbound notification mail.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/louisbranch/talevortex/internal/platform/logging"
	platformotel "github.com/louisbranch/talevortex/internal/platform/otel"
	"github.com/louisbranch/talevortex/internal/platform/timeouts"
)

// Message is a plain-text mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP settings. Fields are read with the TALEVORTEX_SMTP_ prefix.
type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"TaleVortex <no-reply@talevortex.local>"`
}

// Configured reports whether cfg carries enough to reach an SMTP server.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.Username) != "" && c.Password != ""
}

// NewSender returns an SMTP sender when cfg is complete and a console sender
// otherwise.
func NewSender(cfg Config, logger *zap.Logger) Sender {
	logger = logging.OrNop(logger)
	if !cfg.Configured() {
		logger.Warn("smtp credentials missing, mail will be logged instead of sent")
		return NewConsoleSender(logger)
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends mail over STARTTLS with PLAIN auth.
type SMTPSender struct {
	cfg Config
}

// NewSMTPSender builds an SMTP sender.
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send dials the server and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	ctx, span := platformotel.Tracer("mail").Start(ctx, "mail.send")
	defer span.End()
	span.SetAttributes(attribute.String("mail.host", s.cfg.Host))

	ctx, cancel := context.WithTimeout(ctx, timeouts.MailSend)
	defer cancel()

	m, err := buildMessage(s.cfg.From, msg)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return nil, errors.New("mail recipient is required")
	}
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

// ConsoleSender logs messages instead of delivering them.
type ConsoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender builds a sender that writes to logger.
func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logging.OrNop(logger)}
}

// Send logs msg at info level.
func (s *ConsoleSender) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("mail recipient is required")
	}
	s.logger.Info("mail not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
