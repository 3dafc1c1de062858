package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const (
	MailPurposeInitial = "initial"
	MailPurposeResend  = "resend"
)

// Mailer delivers verification mail. Delivery is best-effort; the
// session service logs failures and never propagates them
type Mailer interface {
	SendVerification(email, token, purpose string) error
}

// NoopMailer stands in when mail delivery is disabled, e.g. in local
// development and tests
type NoopMailer struct{}

func (NoopMailer) SendVerification(email, _, purpose string) error {
	zap.L().Debug("Mail delivery disabled, skipping verification mail",
		zap.String("email", email),
		zap.String("purpose", purpose))

	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string

	// Domain and SSLEnabled shape the verification link baked into the
	// message body
	Domain     string
	SSLEnabled bool
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("no mail host provided")
	}

	if cfg.Sender == "" {
		return nil, errors.New("no sender address provided")
	}

	return &SMTPMailer{cfg: cfg}, nil
}

func (s *SMTPMailer) SendVerification(email, token, purpose string) error {
	if email == s.cfg.Sender {
		return errors.New("invalid email address")
	}

	scheme := "http"
	if s.cfg.SSLEnabled {
		scheme = "https"
	}

	verifLink := fmt.Sprintf("%v://%v/api/users/verify/%v", scheme, s.cfg.Domain, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Sender)
	m.SetHeader("To", email)

	if purpose == MailPurposeResend {
		m.SetHeader("Subject", "Verification email resent")
	} else {
		m.SetHeader("Subject", "Verify your email to start using ContactsApp")
	}

	m.SetBody("text/html", fmt.Sprintf(
		"Hello from <strong>ContactsApp</strong>!<br /><a href='%v'>Click here</a> to validate your account.<br />Or paste this link into your browser: %v", verifLink, verifLink))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Sender, s.cfg.Password)

	return d.DialAndSend(m)
}
