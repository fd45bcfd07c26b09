// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPSender delivers through a plain SMTP relay with STARTTLS.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

// Send dials the relay and delivers one plain-text message. gomail has no
// context support; the deadline lives in the surrounding request lifecycle.
func (s *SMTPSender) Send(_ context.Context, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
