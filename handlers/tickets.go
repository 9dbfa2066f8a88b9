// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/entradalive/entrada/cliparse"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/models"
)

type TicketHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTicketHandler(db *sql.DB, cfg cliparse.Config) *TicketHandler {
	return &TicketHandler{db: db, cfg: cfg}
}

const ticketColumns = "id, purchase_id, ticket_number, qr_code_data, is_used, used_at, created_at"

func scanTicket(row interface{ Scan(...interface{}) error }) (models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.PurchaseID, &t.TicketNumber, &t.QRCodeData,
		&t.IsUsed, &t.UsedAt, &t.CreatedAt)
	return t, err
}

// GetTicket handles GET /api/tickets/{ticketNumber}
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketNumber := r.PathValue("ticketNumber")
	if ticketNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ticket number is required")
		return
	}

	ticket, err := scanTicket(h.db.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = $1`, ticketNumber))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ticket not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ticket", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ticket)
}

// UseTicket handles POST /api/tickets/{ticketNumber}/validate.
// Marks the ticket used exactly once; a second attempt gets a 409.
func (h *TicketHandler) UseTicket(w http.ResponseWriter, r *http.Request) {
	ticketNumber := r.PathValue("ticketNumber")
	if ticketNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ticket number is required")
		return
	}

	// Single conditional UPDATE so two concurrent scans cannot both win
	result, err := h.db.Exec(`
		UPDATE tickets SET is_used = TRUE, used_at = NOW(), updated_at = NOW()
		WHERE ticket_number = $1 AND is_used = FALSE
	`, ticketNumber)
	if err != nil {
		slog.Error("failed to mark ticket used", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if n, _ := result.RowsAffected(); n == 0 {
		// Either missing or already used
		var isUsed bool
		err := h.db.QueryRow(`SELECT is_used FROM tickets WHERE ticket_number = $1`, ticketNumber).Scan(&isUsed)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Ticket not found")
			return
		}
		if err != nil {
			slog.Error("failed to query ticket", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Ticket already used")
		return
	}

	ticket, err := scanTicket(h.db.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE ticket_number = $1`, ticketNumber))
	if err != nil {
		slog.Error("failed to load ticket", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("ticket used", "ticket_number", ticketNumber)
	middleware.JSONResponse(w, http.StatusOK, ticket)
}

// ListByPurchase handles GET /api/tickets/purchase/{purchaseID}
func (h *TicketHandler) ListByPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := strconv.Atoi(r.PathValue("purchaseID"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	purchase, err := scanPurchase(h.db.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, purchaseID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Purchase not found")
		return
	}
	if err != nil {
		slog.Error("failed to query purchase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE purchase_id = $1
		ORDER BY ticket_number
	`, purchaseID)
	if err != nil {
		slog.Error("failed to query tickets", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			slog.Error("failed to scan ticket", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		tickets = append(tickets, ticket)
	}

	middleware.JSONResponse(w, http.StatusOK, models.PurchaseTicketsResponse{
		Tickets:  tickets,
		Purchase: purchase,
	})
}
