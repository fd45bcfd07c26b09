// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/leadflow/internal/intake"
	"github.com/olegiv/leadflow/internal/middleware"
	"github.com/olegiv/leadflow/internal/model"
)

// Form field names accepted by the public intake endpoint. The captcha
// token name matches what the Turnstile browser widget posts; the decoy
// field is rendered invisibly on the form to trap bots.
const (
	fieldName         = "name"
	fieldEmail        = "email"
	fieldCaptchaToken = "cf-turnstile-response"
	fieldHoneypot     = "website"
)

// LeadHandler serves the public lead submission endpoint.
type LeadHandler struct {
	pipeline *intake.Pipeline
}

// NewLeadHandler creates a lead handler over the intake pipeline.
func NewLeadHandler(p *intake.Pipeline) *LeadHandler {
	return &LeadHandler{pipeline: p}
}

// leadRequest is the JSON request body for POST /api/lead.
type leadRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	CaptchaToken string `json:"cf-turnstile-response"`
	Honeypot     string `json:"website"`
}

// parseSubmission reads the submission fields from either a JSON body or
// a classic form post, so both fetch() clients and plain HTML forms work.
func parseSubmission(r *http.Request) (intake.Submission, error) {
	sub := intake.Submission{RemoteIP: middleware.GetClientIP(r)}

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var req leadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return sub, err
		}
		sub.Name = req.Name
		sub.Email = req.Email
		sub.CaptchaToken = req.CaptchaToken
		sub.Honeypot = req.Honeypot
		return sub, nil
	}

	if err := r.ParseForm(); err != nil {
		return sub, err
	}
	sub.Name = r.FormValue(fieldName)
	sub.Email = r.FormValue(fieldEmail)
	sub.CaptchaToken = r.FormValue(fieldCaptchaToken)
	sub.Honeypot = r.FormValue(fieldHoneypot)
	return sub, nil
}

// Submit handles POST /api/lead.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmission(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.pipeline.Run(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidName):
			writeJSONError(w, http.StatusBadRequest, "Please provide a valid name.")
		case errors.Is(err, model.ErrInvalidEmail):
			writeJSONError(w, http.StatusBadRequest, "Please provide a valid email.")
		case errors.Is(err, intake.ErrCaptchaFailed):
			writeJSONError(w, http.StatusBadRequest, "Captcha failed.")
		default:
			slog.Error("lead submission failed", "error", err, "ip", sub.RemoteIP)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	// Honeypot hits land here too: they get the same success body as a
	// genuine submission.
	data := make(map[string]any)
	if res.Warning != "" {
		data["warning"] = res.Warning
	}
	writeJSONSuccess(w, data)
}
