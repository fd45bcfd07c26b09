// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubGate grants or denies admin status unconditionally.
type stubGate struct {
	admin bool
}

func (g stubGate) IsAdmin(*http.Request) bool          { return g.admin }
func (g stubGate) Issue(*http.Request) (string, error) { return "", nil }
func (g stubGate) Revoke(*http.Request) error          { return nil }

func TestRequireAdmin_Denied(t *testing.T) {
	called := false
	handler := RequireAdmin(stubGate{admin: false})(http.HandlerFunc(
		func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("protected handler ran for unauthenticated request")
	}

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding 401 body: %v", err)
	}
	if body.OK || body.Error != "Unauthorized" {
		t.Errorf("body = %+v, want ok=false error=Unauthorized", body)
	}
}

func TestRequireAdmin_Allowed(t *testing.T) {
	handler := RequireAdmin(stubGate{admin: true})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
