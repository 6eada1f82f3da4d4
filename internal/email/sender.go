package email

import (
	"esignserver/internal/config"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

const pkg = "email/"

// Sender delivers plain-text mail over SMTP. A fresh connection is dialed
// per send, which is fine for the low volume this service produces.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.SMTP) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *Sender) Send(to []string, subject string, body string) error {
	op := pkg + "Send"

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
