// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entradalive/entrada/models"
	"github.com/entradalive/entrada/testutil"
	"github.com/entradalive/entrada/validation"
)

func newValidationHandler() (*ValidationHandler, *validation.Ledger) {
	ledger := validation.NewLedger(validation.NewMemoryStore())
	cfg := testutil.GetTestConfig()
	return NewValidationHandler(ledger, cfg, nil), ledger
}

func TestValidateEntry(t *testing.T) {
	handler, _ := newValidationHandler()

	tests := []struct {
		name            string
		requestBody     interface{}
		expectedStatus  int
		expectedValid   bool
		expectedMessage string
	}{
		{
			name: "matching RUTs",
			requestBody: models.ValidateEntryRequest{
				TicketQr: "12.345.678-5",
				IDCardQr: "https://portal.sidiv.registrocivil.cl/docstatus?RUN=12.345.678-5&type=CEDULA",
			},
			expectedStatus:  http.StatusOK,
			expectedValid:   true,
			expectedMessage: validation.MsgMatch,
		},
		{
			name: "mismatched RUTs",
			requestBody: models.ValidateEntryRequest{
				TicketQr: "12.345.678-5",
				IDCardQr: "11.111.111-1",
			},
			expectedStatus:  http.StatusOK,
			expectedValid:   false,
			expectedMessage: validation.MsgMismatch,
		},
		{
			name: "unreadable ticket",
			requestBody: models.ValidateEntryRequest{
				TicketQr: "garbage with no rut",
				IDCardQr: "11.111.111-1",
			},
			expectedStatus:  http.StatusOK,
			expectedValid:   false,
			expectedMessage: validation.MsgTicketNotFound,
		},
		{
			name: "unreadable id card",
			requestBody: models.ValidateEntryRequest{
				TicketQr: "12.345.678-5",
				IDCardQr: "garbage with no rut",
			},
			expectedStatus:  http.StatusOK,
			expectedValid:   false,
			expectedMessage: validation.MsgIDCardNotFound,
		},
		{
			name:           "missing ticketQr",
			requestBody:    models.ValidateEntryRequest{IDCardQr: "11.111.111-1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing idCardQr",
			requestBody:    models.ValidateEntryRequest{TicketQr: "12.345.678-5"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest("POST", "/api/validate/entry", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.ValidateEntry(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var rec validation.Record
			if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if rec.ID == "" {
				t.Error("Expected recorded verdict to carry an id")
			}
			if rec.IsValid != tt.expectedValid {
				t.Errorf("Expected isValid=%v, got %v", tt.expectedValid, rec.IsValid)
			}
			if rec.Message != tt.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tt.expectedMessage, rec.Message)
			}
		})
	}
}

func TestGetHistory(t *testing.T) {
	handler, ledger := newValidationHandler()

	// Two verdicts today: one valid, one mismatch
	ledger.Record(ledger.ValidateEntry("12.345.678-5", "12345678-5"))
	ledger.Record(ledger.ValidateEntry("12.345.678-5", "11.111.111-1"))

	req := httptest.NewRequest("GET", "/api/validate/history", nil)
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Records  []validation.Record `json:"records"`
		Counters validation.Counters `json:"counters"`
	}
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(resp.Records))
	}
	if resp.Counters.Valid != 1 || resp.Counters.Invalid != 1 || resp.Counters.Total != 2 {
		t.Errorf("Unexpected counters: %+v", resp.Counters)
	}
	// Oldest first
	if resp.Records[0].Timestamp.After(resp.Records[1].Timestamp) {
		t.Error("Expected records ordered oldest first")
	}
}

func TestClearHistory(t *testing.T) {
	handler, ledger := newValidationHandler()
	ledger.Record(ledger.ValidateEntry("12.345.678-5", "12345678-5"))

	t.Run("requires admin key", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/validate/history", nil)
		w := httptest.NewRecorder()

		handler.ClearHistory(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("clears with admin key", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/validate/history", nil)
		req.Header.Set("X-Admin-Key", testutil.TestAdminKey())
		w := httptest.NewRecorder()

		handler.ClearHistory(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		if got := len(ledger.TodayRecords()); got != 0 {
			t.Errorf("Expected empty history after clear, got %d records", got)
		}
	})
}
