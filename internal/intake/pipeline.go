// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package intake orchestrates one lead submission through its stages:
// honeypot check, validation, captcha verification, persistence, and
// best-effort notification. Each run is independent; the pipeline holds
// no mutable state across executions.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/leadflow/internal/captcha"
	"github.com/olegiv/leadflow/internal/mailer"
	"github.com/olegiv/leadflow/internal/model"
	"github.com/olegiv/leadflow/internal/store"
)

// State identifies how far a submission progressed.
type State int

const (
	StateReceived State = iota
	StateHoneypotChecked
	StateValidated
	StateCaptchaVerified
	StatePersisted
	StateNotified
	StateCompleted
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateHoneypotChecked:
		return "honeypot_checked"
	case StateValidated:
		return "validated"
	case StateCaptchaVerified:
		return "captcha_verified"
	case StatePersisted:
		return "persisted"
	case StateNotified:
		return "notified"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ErrCaptchaFailed reports a missing token or a negative verdict from the
// verdict service. Client-correctable.
var ErrCaptchaFailed = errors.New("captcha failed")

// StorageError wraps a persistence failure so handlers can map it to a
// server fault without leaking backend detail.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WarningEmailFailed is attached when the lead was saved but the operator
// notification could not be sent.
const WarningEmailFailed = "Saved, but email failed to send."

// notifySubject is the operator notification subject line.
const notifySubject = "New lead"

// Submission carries the raw request fields into the pipeline.
type Submission struct {
	Name         string
	Email        string
	CaptchaToken string
	Honeypot     string
	RemoteIP     string
}

// Result is the outcome of a successful run. Discarded marks the silent
// honeypot exit: the caller must still respond as if the submission were
// accepted.
type Result struct {
	State     State
	Lead      model.Lead
	Warning   string
	Discarded bool
}

// Pipeline wires the collaborators for the public submission endpoint.
type Pipeline struct {
	store    store.Store
	verifier *captcha.Verifier
	mailer   *mailer.Mailer
}

// New creates a pipeline over the given collaborators.
func New(s store.Store, v *captcha.Verifier, m *mailer.Mailer) *Pipeline {
	return &Pipeline{store: s, verifier: v, mailer: m}
}

// Run executes the stages in order. Error taxonomy:
// model.ErrInvalidName / model.ErrInvalidEmail and ErrCaptchaFailed are
// client errors; *StorageError and captcha transport failures are server
// faults. Once the lead is persisted the run always succeeds; notification
// problems only attach a warning.
func (p *Pipeline) Run(ctx context.Context, sub Submission) (Result, error) {
	// A populated decoy field means a bot filled in every input. Complete
	// silently without persisting so the bot learns nothing.
	if sub.Honeypot != "" {
		slog.Info("honeypot triggered", "ip", sub.RemoteIP)
		return Result{State: StateCompleted, Discarded: true}, nil
	}

	name, email, err := model.ValidateLead(sub.Name, sub.Email)
	if err != nil {
		return Result{State: StateHoneypotChecked}, err
	}

	ok, err := p.verifier.Verify(ctx, sub.CaptchaToken, sub.RemoteIP)
	if err != nil {
		// An unreachable verdict service is a pipeline failure, never an
		// implicit pass.
		return Result{State: StateValidated}, fmt.Errorf("verifying captcha: %w", err)
	}
	if !ok {
		return Result{State: StateValidated}, ErrCaptchaFailed
	}

	lead, err := p.store.InsertLead(ctx, name, email)
	if err != nil {
		return Result{State: StateCaptchaVerified}, &StorageError{Err: err}
	}

	res := Result{State: StatePersisted, Lead: lead}

	body := fmt.Sprintf("Name: %s\nEmail: %s\n", lead.Name, lead.Email)
	mailRes, err := p.mailer.Notify(ctx, notifySubject, body)
	switch {
	case err != nil:
		slog.Error("lead notification failed", "error", err, "lead_id", lead.ID)
		res.Warning = WarningEmailFailed
	case !mailRes.OK:
		slog.Warn("lead notification skipped", "warning", mailRes.Warning, "lead_id", lead.ID)
		res.Warning = WarningEmailFailed
	default:
		res.State = StateNotified
	}

	// Persistence already succeeded, so the submission is complete from the
	// caller's perspective whatever the notification outcome was.
	res.State = StateCompleted
	return res, nil
}
