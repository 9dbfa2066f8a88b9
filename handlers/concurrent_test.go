// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	_ "github.com/lib/pq"

	"github.com/entradalive/entrada/models"
	"github.com/entradalive/entrada/testutil"
)

// TestConcurrentPurchases_NoOversell hammers one event with more buyers
// than seats. The row lock in CreatePurchase must keep availability >= 0.
func TestConcurrentPurchases_NoOversell(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewPurchaseHandler(db, cfg, &recordingSender{}, nil)

	const seats = 5
	const buyers = 12

	testutil.CreateTestEvent(t, db, "agotado", 10000, seats)

	userIDs := make([]int, buyers)
	for i := range userIDs {
		userIDs[i] = testutil.CreateTestUser(t, db, fmt.Sprintf("buyer%d@example.cl", i), "")
	}

	var wg sync.WaitGroup
	codes := make([]int, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			body, _ := json.Marshal(models.CreatePurchaseRequest{
				UserID:   userIDs[i],
				EventID:  "agotado",
				Quantity: 1,
			})
			req := httptest.NewRequest("POST", "/api/purchases", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.CreatePurchase(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	conflicts := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("Unexpected status %d", code)
		}
	}

	if created != seats {
		t.Errorf("Expected exactly %d successful purchases, got %d", seats, created)
	}
	if conflicts != buyers-seats {
		t.Errorf("Expected %d conflicts, got %d", buyers-seats, conflicts)
	}

	var available int
	if err := db.QueryRow("SELECT available_tickets FROM events WHERE id = 'agotado'").Scan(&available); err != nil {
		t.Fatal(err)
	}
	if available != 0 {
		t.Errorf("Expected 0 seats left, got %d", available)
	}
}

// TestConcurrentTicketUse_SingleWinner scans the same ticket from many
// kiosks at once; exactly one scan may succeed.
func TestConcurrentTicketUse_SingleWinner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewTicketHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "comprador@example.cl", "123456785")
	testutil.CreateTestEvent(t, db, "concierto", 20000, 10)
	_, orderNumber := testutil.CreateTestPurchase(t, db, userID, "concierto", 1, "123456785")
	ticketNumber := orderNumber + "-T001"

	const kiosks = 8
	var wg sync.WaitGroup
	codes := make([]int, kiosks)

	for i := 0; i < kiosks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := httptest.NewRequest("POST", "/api/tickets/"+ticketNumber+"/validate", nil)
			req.SetPathValue("ticketNumber", ticketNumber)
			w := httptest.NewRecorder()

			handler.UseTicket(w, req)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, code := range codes {
		if code == http.StatusOK {
			winners++
		} else if code != http.StatusConflict {
			t.Errorf("Unexpected status %d", code)
		}
	}
	if winners != 1 {
		t.Errorf("Expected exactly 1 winning scan, got %d", winners)
	}
}
