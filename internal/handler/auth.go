// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/leadflow/internal/auth"
)

// AuthHandler serves admin login and logout.
type AuthHandler struct {
	creds auth.Credentials
	gate  auth.Gate
}

// NewAuthHandler creates an auth handler over the configured credentials
// and the active gate.
func NewAuthHandler(creds auth.Credentials, gate auth.Gate) *AuthHandler {
	return &AuthHandler{creds: creds, gate: gate}
}

// loginRequest is the JSON request body for POST /admin/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// parseLogin reads credentials from a JSON body or a form post.
func parseLogin(r *http.Request) (loginRequest, error) {
	var req loginRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.FormValue("username")
	req.Password = r.FormValue("password")
	return req, nil
}

// Login handles POST /admin/login. On success in token mode the response
// carries the signed token; in session mode the session cookie set by the
// surrounding session middleware is the credential and no token is issued.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.creds.Verify(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			slog.Error("admin login attempted without configured credentials")
			writeJSONError(w, http.StatusInternalServerError, "Admin not configured.")
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := h.gate.Issue(r)
	if err != nil {
		slog.Error("issuing admin credential failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	slog.Info("admin logged in", "username", req.Username)

	data := make(map[string]any)
	if token != "" {
		data["token"] = token
	}
	writeJSONSuccess(w, data)
}

// Logout handles POST /admin/logout. Revocation is a no-op in token mode;
// the response is identical either way.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Revoke(r); err != nil {
		slog.Error("revoking admin session failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSONSuccess(w, nil)
}
