// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/entradalive/entrada/cliparse"
	"github.com/entradalive/entrada/metrics"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/models"
	"github.com/entradalive/entrada/validation"
)

type ValidationHandler struct {
	ledger  *validation.Ledger
	cfg     cliparse.Config
	metrics *metrics.Metrics
}

func NewValidationHandler(ledger *validation.Ledger, cfg cliparse.Config, m *metrics.Metrics) *ValidationHandler {
	return &ValidationHandler{ledger: ledger, cfg: cfg, metrics: m}
}

// historyResponse is the GET /api/validate/history payload.
type historyResponse struct {
	Records  []validation.Record `json:"records"`
	Counters validation.Counters `json:"counters"`
}

// ValidateEntry handles POST /api/validate/entry.
// Reconciles a ticket QR payload against an ID card QR payload and
// records the verdict in the history ledger.
func (h *ValidationHandler) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateEntryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TicketQr == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ticketQr is required")
		return
	}
	if req.IDCardQr == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "idCardQr is required")
		return
	}

	result := h.ledger.ValidateEntry(req.TicketQr, req.IDCardQr)
	rec := h.ledger.Record(result)

	h.metrics.IncrementVerdict(result.IsValid)
	slog.Info("entry validated",
		"record_id", rec.ID,
		"valid", result.IsValid,
	)

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// GetHistory handles GET /api/validate/history.
// Returns today's records, oldest first, with derived counters.
func (h *ValidationHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	records := h.ledger.TodayRecords()

	middleware.JSONResponse(w, http.StatusOK, historyResponse{
		Records:  records,
		Counters: validation.Summarize(records),
	})
}

// ClearHistory handles DELETE /api/validate/history (admin)
func (h *ValidationHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	if err := h.ledger.ClearHistory(); err != nil {
		slog.Error("failed to clear validation history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	slog.Info("validation history cleared")
	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"cleared": true})
}
