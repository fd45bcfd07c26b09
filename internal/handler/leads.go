// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/leadflow/internal/model"
	"github.com/olegiv/leadflow/internal/store"
)

// csvTimeFormat is the created_at layout in CSV exports.
const csvTimeFormat = "2006-01-02 15:04:05"

// LeadsHandler serves the admin lead listing and CSV export.
type LeadsHandler struct {
	store store.Store
}

// NewLeadsHandler creates a leads handler over the store.
func NewLeadsHandler(s store.Store) *LeadsHandler {
	return &LeadsHandler{store: s}
}

// List handles GET /api/leads.
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.ListLeads(r.Context())
	if err != nil {
		slog.Error("listing leads failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	// An empty result is an empty array, never null.
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSONSuccess(w, map[string]any{"rows": leads})
}

// Export handles GET /api/leads/export, streaming all leads as CSV.
func (h *LeadsHandler) Export(w http.ResponseWriter, r *http.Request) {
	leads, err := h.store.ListLeads(r.Context())
	if err != nil {
		slog.Error("exporting leads failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	var b strings.Builder
	b.WriteString("id,name,email,created_at\n")
	for _, lead := range leads {
		b.WriteString(strconv.FormatInt(lead.ID, 10))
		b.WriteByte(',')
		b.WriteString(quoteCSV(lead.Name))
		b.WriteByte(',')
		b.WriteString(quoteCSV(lead.Email))
		b.WriteByte(',')
		b.WriteString(lead.CreatedAt.Format(csvTimeFormat))
		b.WriteByte('\n')
	}

	_, _ = fmt.Fprint(w, b.String())
}

// quoteCSV wraps a value in quotes, doubling any embedded quotes. Name and
// email are always quoted so commas in free text cannot shift columns.
func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
