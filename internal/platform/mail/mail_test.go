package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigConfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "empty", cfg: Config{}, want: false},
		{name: "host only", cfg: Config{Host: "smtp.example.com"}, want: false},
		{name: "complete", cfg: Config{Host: "smtp.example.com", Username: "u", Password: "p"}, want: true},
	}
	for _, tc := range tests {
		if got := tc.cfg.Configured(); got != tc.want {
			t.Errorf("%s: Configured() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewSenderFallsBackToConsole(t *testing.T) {
	t.Parallel()

	if _, ok := NewSender(Config{}, nil).(*ConsoleSender); !ok {
		t.Fatal("expected console sender without credentials")
	}
	cfg := Config{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "a@example.com"}
	if _, ok := NewSender(cfg, zap.NewNop()).(*SMTPSender); !ok {
		t.Fatal("expected smtp sender with credentials")
	}
}

func TestConsoleSenderLogsMessage(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	sender := NewConsoleSender(zap.New(core))

	err := sender.Send(context.Background(), Message{
		To:      "ada@example.com",
		Subject: "Your login link",
		Body:    "https://example.com/login/abc",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["to"] != "ada@example.com" || fields["body"] != "https://example.com/login/abc" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestConsoleSenderRequiresRecipient(t *testing.T) {
	t.Parallel()

	if err := NewConsoleSender(nil).Send(context.Background(), Message{}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	m, err := buildMessage("TaleVortex <no-reply@example.com>", Message{
		To:      "ada@example.com",
		Subject: "Your login link",
		Body:    "Follow the link",
	})
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{"Subject: Your login link", "<ada@example.com>", "Follow the link"} {
		if !strings.Contains(raw, want) {
			t.Errorf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestBuildMessageRejectsBadAddresses(t *testing.T) {
	t.Parallel()

	if _, err := buildMessage("no-reply@example.com", Message{}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	if _, err := buildMessage("not an address", Message{To: "ada@example.com"}); err == nil {
		t.Fatal("expected error for invalid sender")
	}
}
