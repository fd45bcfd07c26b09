// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/leadflow/internal/auth"
)

const testTokenSecret = "0123456789abcdef0123456789abcdef"

func testCredentials(t *testing.T) auth.Credentials {
	t.Helper()
	hash, err := auth.HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return auth.Credentials{Username: "admin", PasswordHash: hash}
}

func postLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLogin_TokenMode(t *testing.T) {
	gate := auth.NewTokenGate([]byte(testTokenSecret), time.Hour)
	h := NewAuthHandler(testCredentials(t), gate)

	rec := postLogin(t, h, `{"username":"admin","password":"hunter2!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	decodeJSON(t, rec, &res)
	if !res.OK || res.Token == "" {
		t.Fatalf("response = %+v, want ok with a token", res)
	}

	// The issued token must satisfy the gate.
	check := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	check.Header.Set("Authorization", "Bearer "+res.Token)
	if !gate.IsAdmin(check) {
		t.Error("gate rejected its own freshly issued token")
	}
}

func TestLogin_FormPost(t *testing.T) {
	gate := auth.NewTokenGate([]byte(testTokenSecret), time.Hour)
	h := NewAuthHandler(testCredentials(t), gate)

	form := "username=admin&password=hunter2%21"
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	gate := auth.NewTokenGate([]byte(testTokenSecret), time.Hour)
	h := NewAuthHandler(testCredentials(t), gate)

	rec := postLogin(t, h, `{"username":"admin","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if res := decodeResponse(t, rec); res.Error != "Invalid credentials." {
		t.Errorf("error = %q, want %q", res.Error, "Invalid credentials.")
	}
}

func TestLogin_WrongUsername(t *testing.T) {
	gate := auth.NewTokenGate([]byte(testTokenSecret), time.Hour)
	h := NewAuthHandler(testCredentials(t), gate)

	rec := postLogin(t, h, `{"username":"root","password":"hunter2!"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	gate := auth.NewTokenGate([]byte(testTokenSecret), time.Hour)
	h := NewAuthHandler(auth.Credentials{}, gate)

	rec := postLogin(t, h, `{"username":"admin","password":"hunter2!"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if res := decodeResponse(t, rec); res.Error != "Admin not configured." {
		t.Errorf("error = %q, want %q", res.Error, "Admin not configured.")
	}
}

func TestLogout_TokenMode(t *testing.T) {
	gate := auth.NewTokenGate([]byte(testTokenSecret), time.Hour)
	h := NewAuthHandler(testCredentials(t), gate)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if res := decodeResponse(t, rec); !res.OK {
		t.Errorf("response = %+v, want ok", res)
	}
}
