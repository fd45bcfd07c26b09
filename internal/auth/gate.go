// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Gate resolves whether a request carries the admin credential and manages
// its lifecycle. A deployment uses exactly one implementation: SessionGate
// for the monolithic deployment (server-side flag in a cookie session) or
// TokenGate for the stateless deployment (self-expiring signed token).
// Callers depend only on this interface, never on scheme mechanics.
type Gate interface {
	// IsAdmin reports whether the request presents a valid admin credential.
	// Malformed, expired, or forged credentials resolve to false, never to
	// an error: the response must not distinguish the failure modes.
	IsAdmin(r *http.Request) bool

	// Issue grants the admin credential after a successful login. The
	// returned token is empty for the session scheme, where the credential
	// travels in the session cookie instead.
	Issue(r *http.Request) (token string, err error)

	// Revoke destroys the caller's credential. A no-op for self-expiring
	// tokens, which have no server-side state to clear.
	Revoke(r *http.Request) error
}

// sessionKeyIsAdmin is the session key holding the admin flag.
const sessionKeyIsAdmin = "is_admin"

// SessionGate tracks the admin flag in a server-side session managed by scs.
// Requests must pass through the session manager's LoadAndSave middleware.
type SessionGate struct {
	sm *scs.SessionManager
}

// NewSessionGate creates a session-backed gate on the given manager.
func NewSessionGate(sm *scs.SessionManager) *SessionGate {
	return &SessionGate{sm: sm}
}

// IsAdmin reads the session flag; an absent session yields false.
func (g *SessionGate) IsAdmin(r *http.Request) (isAdmin bool) {
	// scs panics when session data is not loaded into the context.
	defer func() {
		if rec := recover(); rec != nil {
			isAdmin = false
		}
	}()
	return g.sm.GetBool(r.Context(), sessionKeyIsAdmin)
}

// Issue regenerates the session ID to prevent fixation, then sets the flag.
func (g *SessionGate) Issue(r *http.Request) (string, error) {
	if err := g.sm.RenewToken(r.Context()); err != nil {
		return "", fmt.Errorf("renewing session token: %w", err)
	}
	g.sm.Put(r.Context(), sessionKeyIsAdmin, true)
	return "", nil
}

// Revoke destroys the whole session.
func (g *SessionGate) Revoke(r *http.Request) error {
	if err := g.sm.Destroy(r.Context()); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// TokenGate issues and verifies HMAC-signed bearer tokens carrying a role
// claim and an expiry. Nothing is persisted server-side; revocation happens
// only by natural expiry.
type TokenGate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// DefaultTokenTTL is the token lifetime when none is configured.
const DefaultTokenTTL = 12 * time.Hour

// NewTokenGate creates a token-backed gate signing with the given secret.
// A zero or negative ttl falls back to DefaultTokenTTL.
func NewTokenGate(secret []byte, ttl time.Duration) *TokenGate {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenGate{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a fresh admin token. The request is unused; the credential is
// entirely self-contained.
func (g *TokenGate) Issue(_ *http.Request) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(g.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// IsAdmin extracts the bearer token and verifies signature, expiry, and the
// role claim. Every verification failure resolves to false.
func (g *TokenGate) IsAdmin(r *http.Request) bool {
	raw := bearerToken(r)
	if raw == "" || len(g.secret) == 0 {
		return false
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(g.now))
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}

// Revoke is a no-op: tokens expire on their own.
func (g *TokenGate) Revoke(_ *http.Request) error {
	return nil
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
