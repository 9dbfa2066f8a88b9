// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entradalive/entrada/cliparse"
	"github.com/entradalive/entrada/mailer"
	"github.com/entradalive/entrada/metrics"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/models"
)

type PurchaseHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	sender  mailer.Sender
	mailLog *mailer.Logger
	metrics *metrics.Metrics
}

func NewPurchaseHandler(db *sql.DB, cfg cliparse.Config, sender mailer.Sender, m *metrics.Metrics) *PurchaseHandler {
	return &PurchaseHandler{
		db:      db,
		cfg:     cfg,
		sender:  sender,
		mailLog: mailer.NewLogger(db),
		metrics: m,
	}
}

const purchaseColumns = "id, order_number, user_id, event_id, quantity, unit_price, service_charge, total_price, purchase_date, status, email_sent, email_sent_at, qr_code_data, created_at"

func scanPurchase(row interface{ Scan(...interface{}) error }) (models.Purchase, error) {
	var p models.Purchase
	err := row.Scan(&p.ID, &p.OrderNumber, &p.UserID, &p.EventID, &p.Quantity,
		&p.UnitPrice, &p.ServiceCharge, &p.TotalPrice, &p.PurchaseDate, &p.Status,
		&p.EmailSent, &p.EmailSentAt, &p.QRCodeData, &p.CreatedAt)
	return p, err
}

// newOrderNumber builds an order identifier like ORD-20260830-A1B2C3D4.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// CreatePurchase handles POST /api/purchases
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePurchaseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.UserID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.EventID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "eventId is required")
		return
	}
	if req.Quantity < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	// Load the buyer up front; the RUT becomes the ticket QR payload
	var user models.User
	err := h.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, req.UserID).
		Scan(&user.ID, &user.Email, &user.Name, &user.LastName, &user.Rut,
			&user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Lock the event row so concurrent purchases cannot oversell
	event, err := scanEvent(tx.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, req.EventID))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		slog.Error("failed to query event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !event.IsActive {
		middleware.ErrorResponse(w, http.StatusConflict, "Event is not active")
		return
	}
	if event.AvailableTickets < req.Quantity {
		middleware.ErrorResponse(w, http.StatusConflict, "Not enough tickets available")
		return
	}

	// Fill in prices the client left at zero
	if req.UnitPrice == 0 {
		req.UnitPrice = event.Price
	}
	if req.TotalPrice == 0 {
		req.TotalPrice = req.UnitPrice*float64(req.Quantity) + req.ServiceCharge
	}

	now := time.Now()
	orderNumber := newOrderNumber(now)

	// Buyer RUT rides on every ticket QR; fall back to the ticket number
	// for accounts created before RUT capture.
	qrPayload := user.Rut

	var purchaseID int
	err = tx.QueryRow(`
		INSERT INTO purchases (order_number, user_id, event_id, quantity, unit_price,
			service_charge, total_price, purchase_date, status, qr_code_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''))
		RETURNING id
	`, orderNumber, req.UserID, req.EventID, req.Quantity, req.UnitPrice,
		req.ServiceCharge, req.TotalPrice, now, models.StatusCompleted, qrPayload).Scan(&purchaseID)
	if err != nil {
		slog.Error("failed to insert purchase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create purchase")
		return
	}

	for i := 1; i <= req.Quantity; i++ {
		ticketNumber := fmt.Sprintf("%s-T%03d", orderNumber, i)
		ticketQR := qrPayload
		if ticketQR == "" {
			ticketQR = ticketNumber
		}
		_, err = tx.Exec(`
			INSERT INTO tickets (purchase_id, ticket_number, qr_code_data)
			VALUES ($1, $2, $3)
		`, purchaseID, ticketNumber, ticketQR)
		if err != nil {
			slog.Error("failed to insert ticket", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create purchase")
			return
		}
	}

	_, err = tx.Exec(`
		UPDATE events SET available_tickets = available_tickets - $1, updated_at = NOW()
		WHERE id = $2
	`, req.Quantity, req.EventID)
	if err != nil {
		slog.Error("failed to decrement availability", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create purchase")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit purchase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create purchase")
		return
	}

	h.metrics.IncrementPurchase()
	slog.Info("purchase created",
		"purchase_id", purchaseID,
		"order_number", orderNumber,
		"event_id", req.EventID,
		"quantity", req.Quantity,
	)

	purchase, err := scanPurchase(h.db.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, purchaseID))
	if err != nil {
		slog.Error("failed to load created purchase", "error", err, "purchase_id", purchaseID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create purchase")
		return
	}

	tickets, err := h.ticketsByPurchase(purchaseID)
	if err != nil {
		slog.Error("failed to load tickets", "error", err, "purchase_id", purchaseID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create purchase")
		return
	}

	h.sendConfirmation(r.Context(), user, event, purchase)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePurchaseResponse{
		Purchase: purchase,
		Tickets:  tickets,
	})
}

// sendConfirmation delivers the confirmation email and records the attempt.
// Failures are logged but never fail the purchase.
func (h *PurchaseHandler) sendConfirmation(ctx context.Context, user models.User, event models.Event, purchase models.Purchase) {
	msg := mailer.ConfirmationMessage(user, event, purchase, h.cfg.BaseURL)
	sendErr := h.sender.Send(ctx, msg)

	status := models.EmailSent
	if sendErr != nil {
		status = models.EmailFailed
		slog.Error("failed to send confirmation email", "error", sendErr, "purchase_id", purchase.ID)
	}
	h.metrics.IncrementEmail(status)

	if err := h.mailLog.LogDelivery(purchase.ID, mailer.EmailTypeConfirmation, msg, sendErr); err != nil {
		slog.Error("failed to log email delivery", "error", err, "purchase_id", purchase.ID)
	}

	if sendErr == nil {
		_, err := h.db.Exec(`
			UPDATE purchases SET email_sent = TRUE, email_sent_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, purchase.ID)
		if err != nil {
			slog.Error("failed to mark email sent", "error", err, "purchase_id", purchase.ID)
		}
	}
}

// GetPurchase handles GET /api/purchases/{id}
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	purchase, err := scanPurchase(h.db.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Purchase not found")
		return
	}
	if err != nil {
		slog.Error("failed to query purchase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, purchase)
}

// GetByOrderNumber handles GET /api/purchases/order/{orderNumber}
func (h *PurchaseHandler) GetByOrderNumber(w http.ResponseWriter, r *http.Request) {
	orderNumber := r.PathValue("orderNumber")
	if orderNumber == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "order number is required")
		return
	}

	purchase, err := scanPurchase(h.db.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE order_number = $1`, orderNumber))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Purchase not found")
		return
	}
	if err != nil {
		slog.Error("failed to query purchase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, purchase)
}

// ListByUser handles GET /api/purchases/user/{userID}
func (h *PurchaseHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.PathValue("userID"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE user_id = $1
		ORDER BY purchase_date DESC
	`, userID)
	if err != nil {
		slog.Error("failed to query purchases", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			slog.Error("failed to scan purchase", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		purchases = append(purchases, purchase)
	}

	middleware.JSONResponse(w, http.StatusOK, purchases)
}

// ListPurchases handles GET /api/purchases (paginated, optional status filter)
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	where := ""
	args := []interface{}{}
	if status := r.URL.Query().Get("status"); status != "" {
		args = append(args, status)
		where = "WHERE status = $1"
	}

	var total int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM purchases "+where, args...).Scan(&total); err != nil {
		slog.Error("failed to count purchases", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf("SELECT %s FROM purchases %s ORDER BY purchase_date DESC LIMIT $%d OFFSET $%d",
		purchaseColumns, where, len(args)-1, len(args))

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query purchases", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	purchases := []models.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			slog.Error("failed to scan purchase", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		purchases = append(purchases, purchase)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPurchasesResponse{
		Purchases:  purchases,
		Pagination: newPagination(page, perPage, total),
	})
}

// UpdateStatus handles PUT /api/purchases/{id}/status
func (h *PurchaseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	var req models.UpdatePurchaseStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	valid := false
	for _, s := range models.ValidStatuses {
		if req.Status == s {
			valid = true
			break
		}
	}
	if !valid {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"status must be one of: "+strings.Join(models.ValidStatuses, ", "))
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	purchase, err := scanPurchase(tx.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Purchase not found")
		return
	}
	if err != nil {
		slog.Error("failed to query purchase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Cancelling or refunding a live purchase returns its tickets to the pool
	wasLive := purchase.Status == models.StatusPending || purchase.Status == models.StatusCompleted
	nowDead := req.Status == models.StatusCancelled || req.Status == models.StatusRefunded
	if wasLive && nowDead {
		_, err = tx.Exec(`
			UPDATE events SET available_tickets = available_tickets + $1, updated_at = NOW()
			WHERE id = $2
		`, purchase.Quantity, purchase.EventID)
		if err != nil {
			slog.Error("failed to restore availability", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update purchase")
			return
		}
	}

	_, err = tx.Exec(`UPDATE purchases SET status = $1, updated_at = NOW() WHERE id = $2`, req.Status, id)
	if err != nil {
		slog.Error("failed to update purchase status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update purchase")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit status update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update purchase")
		return
	}

	slog.Info("purchase status updated", "purchase_id", id, "from", purchase.Status, "to", req.Status)

	updated, err := scanPurchase(h.db.QueryRow(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		slog.Error("failed to load updated purchase", "error", err, "purchase_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update purchase")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}

func (h *PurchaseHandler) ticketsByPurchase(purchaseID int) ([]models.Ticket, error) {
	rows, err := h.db.Query(`
		SELECT id, purchase_id, ticket_number, qr_code_data, is_used, used_at, created_at
		FROM tickets
		WHERE purchase_id = $1
		ORDER BY ticket_number
	`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.PurchaseID, &t.TicketNumber, &t.QRCodeData,
			&t.IsUsed, &t.UsedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
