package publicauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/talevortex/internal/platform/errors"
	"github.com/louisbranch/talevortex/internal/platform/mail"
	"github.com/louisbranch/talevortex/internal/platform/timeouts"
	"github.com/louisbranch/talevortex/internal/services/auth/magiclink"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
)

// Users resolves the account behind a verified email.
type Users interface {
	EnsureUser(ctx context.Context, email string) (domain.User, error)
}

// Tokens issues and verifies login tokens.
type Tokens interface {
	Issue(email string) (string, time.Time, error)
	Verify(raw string) (string, error)
}

type service struct {
	users   Users
	tokens  Tokens
	sender  mail.Sender
	baseURL string
}

func newService(users Users, tokens Tokens, sender mail.Sender, baseURL string) service {
	return service{users: users, tokens: tokens, sender: sender, baseURL: baseURL}
}

// requestLink mails a login link to rawEmail and returns the normalized
// address.
func (s service) requestLink(ctx context.Context, rawEmail string) (string, error) {
	email, err := magiclink.NormalizeEmail(rawEmail)
	if err != nil {
		return "", err
	}
	token, expiresAt, err := s.tokens.Issue(email)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.MailSend)
	defer cancel()
	link := magiclink.LoginURL(s.baseURL, token)
	msg := mail.Message{
		To:      email,
		Subject: "Your TaleVortex sign-in link",
		Body:    loginBody(link, expiresAt),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		failure := apperrors.Wrap(apperrors.CodeMailDeliveryFailed, "send login link", err)
		failure.Metadata = map[string]string{"Link": link}
		return "", failure
	}
	return email, nil
}

// completeLogin verifies token and returns the account it signs in.
func (s service) completeLogin(ctx context.Context, token string) (domain.User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.EnsureUser(ctx, email)
}

func loginBody(link string, expiresAt time.Time) string {
	var b strings.Builder
	b.WriteString("Use the link below to sign in to TaleVortex.\n\n")
	b.WriteString(link)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The link expires at %s. If you did not ask for it, ignore this message.\n", expiresAt.UTC().Format("2006-01-02 15:04 MST"))
	return b.String()
}
