// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain entities and their validation rules.
package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Limits for lead fields, applied after trimming.
const (
	MaxNameLength  = 80
	MaxEmailLength = 120
)

// Validation errors returned by ValidateLead. Handlers map these to
// client-facing messages.
var (
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidEmail = errors.New("invalid email")
)

// emailPattern is deliberately permissive: exactly one "@" with a "."
// somewhere after it, and no whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Lead is a captured marketing submission. ID and CreatedAt are assigned
// by the store on insert and never change afterwards.
type Lead struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateLead normalizes and validates a raw submission. Name and email are
// trimmed, email is lower-cased. Rules apply in order and the first failure
// wins. Pure function, no I/O.
func ValidateLead(rawName, rawEmail string) (name, email string, err error) {
	name = strings.TrimSpace(rawName)
	email = strings.ToLower(strings.TrimSpace(rawEmail))

	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", "", ErrInvalidName
	}
	if !emailPattern.MatchString(email) || utf8.RuneCountInString(email) > MaxEmailLength {
		return "", "", ErrInvalidEmail
	}
	return name, email, nil
}
