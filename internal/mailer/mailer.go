// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer dispatches best-effort operator notifications through one
// of two interchangeable transports: direct SMTP or the SendGrid API.
// There is no queue and no retry; callers decide whether a send failure
// matters (for the intake pipeline it does not).
package mailer

import (
	"context"
	"fmt"
)

// Sender is a single outbound transport.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// Result reports the outcome of a notification attempt that did not error.
type Result struct {
	OK      bool
	Warning string
}

// WarningNotConfigured is attached when no transport is configured.
const WarningNotConfigured = "Email provider not configured."

// Options selects and configures the transport. Provider is "smtp" or
// "sendgrid"; missing credentials for the selected provider leave the
// mailer unconfigured rather than failing.
type Options struct {
	Provider string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	SendGridAPIKey string

	From string
	To   string
}

// Mailer wraps the selected transport. The zero transport (nothing
// configured) reports a warning instead of erroring.
type Mailer struct {
	sender Sender
}

// New selects a transport from the options. SendGrid is used when chosen
// and keyed; otherwise SMTP when host and credentials are present;
// otherwise the mailer stays unconfigured.
func New(opts Options) *Mailer {
	from, to := opts.From, opts.To
	if from == "" {
		from = opts.SMTPUser
	}
	if to == "" {
		to = opts.SMTPUser
	}

	if opts.Provider == "sendgrid" && opts.SendGridAPIKey != "" {
		return &Mailer{sender: &SendGridSender{
			APIKey: opts.SendGridAPIKey,
			From:   from,
			To:     to,
		}}
	}

	if opts.SMTPHost != "" && opts.SMTPUser != "" && opts.SMTPPass != "" {
		port := opts.SMTPPort
		if port == 0 {
			port = 587
		}
		return &Mailer{sender: &SMTPSender{
			Host: opts.SMTPHost,
			Port: port,
			User: opts.SMTPUser,
			Pass: opts.SMTPPass,
			From: from,
			To:   to,
		}}
	}

	return &Mailer{}
}

// NewWithSender wraps an explicit transport.
func NewWithSender(s Sender) *Mailer {
	return &Mailer{sender: s}
}

// Configured reports whether a transport is wired.
func (m *Mailer) Configured() bool {
	return m != nil && m.sender != nil
}

// Notify dispatches one message. With no transport configured it returns
// a warning Result and no error. A configured transport that fails at send
// time returns the error; the caller owns the severity decision.
func (m *Mailer) Notify(ctx context.Context, subject, body string) (Result, error) {
	if !m.Configured() {
		return Result{OK: false, Warning: WarningNotConfigured}, nil
	}
	if err := m.sender.Send(ctx, subject, body); err != nil {
		return Result{}, fmt.Errorf("sending notification: %w", err)
	}
	return Result{OK: true}, nil
}
