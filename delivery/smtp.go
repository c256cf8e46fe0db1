package delivery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SMTPConfig addresses the relay. Account and Password are optional; when
// Account is set the sender authenticates with PLAIN.
type SMTPConfig struct {
	Host     string
	Port     string
	Account  string
	Password string
	From     string
	Subject  string
}

func (c SMTPConfig) Validate() error {
	switch {
	case c.Host == "":
		return errors.New("smtp host required")
	case c.Port == "":
		return errors.New("smtp port required")
	case c.From == "":
		return errors.New("smtp from address required")
	}
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender mails one-time codes.
type SMTPSender struct {
	cfg      SMTPConfig
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Subject == "" {
		cfg.Subject = "Your verification code"
	}

	s := &SMTPSender{cfg: cfg, sendMail: smtp.SendMail}
	if cfg.Account != "" {
		s.auth = smtp.PlainAuth("", cfg.Account, cfg.Password, cfg.Host)
	}
	return s, nil
}

// SendCode mails code to email. net/smtp takes no context, so ctx is only
// checked before the relay is dialed.
func (s *SMTPSender) SendCode(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(email, "\r\n") {
		return fmt.Errorf("invalid recipient %q", email)
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := s.sendMail(addr, s.auth, s.cfg.From, []string{email}, s.message(email, code)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) message(to, code string) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.cfg.From + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + s.cfg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString("Your one-time code is " + code + ". It expires in a few minutes.\r\n")
	return []byte(b.String())
}
