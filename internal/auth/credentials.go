// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
)

// Errors returned by Credentials.Verify. Handlers must keep these
// distinguishable: ErrNotConfigured is an operator-facing 500,
// ErrInvalidCredentials is a 401 that never says which part was wrong.
var (
	ErrNotConfigured      = errors.New("admin credentials not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials holds the single configured admin identity. This is a
// deliberately single-admin system: one username, one pre-computed
// argon2id password hash, both supplied through configuration.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Configured reports whether enough credential material is present for
// logins to be possible at all.
func (c Credentials) Configured() bool {
	return c.Username != "" && c.PasswordHash != ""
}

// Verify checks a login attempt against the configured identity.
// Returns ErrNotConfigured when no admin is set up, ErrInvalidCredentials
// for a wrong username or password, nil on success.
func (c Credentials) Verify(username, password string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if username != c.Username {
		return ErrInvalidCredentials
	}
	valid, err := CheckPassword(password, c.PasswordHash)
	if err != nil {
		// A malformed stored hash is a configuration problem, but reporting
		// it as such would leak which part of the login failed.
		return ErrInvalidCredentials
	}
	if !valid {
		return ErrInvalidCredentials
	}
	return nil
}
