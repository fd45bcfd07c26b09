// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/olegiv/leadflow/internal/version"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	startedAt time.Time
	info      version.Info
}

// NewHealthHandler creates a health handler anchored at process start.
func NewHealthHandler(info version.Info) *HealthHandler {
	return &HealthHandler{startedAt: time.Now(), info: info}
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, map[string]any{
		"uptime":  int64(time.Since(h.startedAt).Seconds()),
		"version": h.info.Version,
	})
}
