// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"github.com/entradalive/entrada/cliparse"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/models"
)

type EventHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewEventHandler(db *sql.DB, cfg cliparse.Config) *EventHandler {
	return &EventHandler{db: db, cfg: cfg}
}

const eventColumns = "id, title, artist, date, time, venue, location, price, image, description, category, available_tickets, total_tickets, is_active, created_at"

func scanEvent(row interface{ Scan(...interface{}) error }) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Artist, &e.Date, &e.Time, &e.Venue, &e.Location,
		&e.Price, &e.Image, &e.Description, &e.Category,
		&e.AvailableTickets, &e.TotalTickets, &e.IsActive, &e.CreatedAt)
	return e, err
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	// Build filter clauses
	where := []string{}
	args := []interface{}{}
	if category := r.URL.Query().Get("category"); category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	// Default to active events only; ?active=all includes deactivated ones
	if r.URL.Query().Get("active") != "all" {
		where = append(where, "is_active = TRUE")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM events "+whereClause, args...).Scan(&total); err != nil {
		slog.Error("failed to count events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf("SELECT %s FROM events %s ORDER BY date, id LIMIT $%d OFFSET $%d",
		eventColumns, whereClause, len(args)-1, len(args))

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query events", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			slog.Error("failed to scan event", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		events = append(events, event)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListEventsResponse{
		Events:     events,
		Pagination: newPagination(page, perPage, total),
	})
}

// GetEvent handles GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	event, err := scanEvent(h.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		slog.Error("failed to query event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, event)
}

// CreateEvent handles POST /api/events (admin)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var req models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Date == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date is required")
		return
	}
	if req.Price < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if req.TotalTickets < 0 || req.AvailableTickets < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ticket counts must not be negative")
		return
	}
	if req.AvailableTickets == 0 && req.TotalTickets > 0 {
		req.AvailableTickets = req.TotalTickets
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	_, err := h.db.Exec(`
		INSERT INTO events (id, title, artist, date, time, venue, location, price,
			image, description, category, available_tickets, total_tickets, is_active)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8,
			NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), $12, $13, $14)
	`, req.ID, req.Title, req.Artist, req.Date, req.Time, req.Venue, req.Location, req.Price,
		req.Image, req.Description, req.Category, req.AvailableTickets, req.TotalTickets, isActive)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			middleware.ErrorResponse(w, http.StatusConflict, "Event already exists")
			return
		}
		slog.Error("failed to insert event", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	event, err := scanEvent(h.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, req.ID))
	if err != nil {
		slog.Error("failed to load created event", "error", err, "event_id", req.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create event")
		return
	}

	slog.Info("event created", "event_id", req.ID, "title", req.Title)
	middleware.JSONResponse(w, http.StatusCreated, event)
}

// UpdateEvent handles PUT /api/events/{id} (admin, partial update)
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	var req models.UpdateEventRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Build SET clause from the fields actually present
	set := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Artist != nil {
		add("artist", *req.Artist)
	}
	if req.Date != nil {
		add("date", *req.Date)
	}
	if req.Time != nil {
		add("time", *req.Time)
	}
	if req.Venue != nil {
		add("venue", *req.Venue)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "price must not be negative")
			return
		}
		add("price", *req.Price)
	}
	if req.Image != nil {
		add("image", *req.Image)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.AvailableTickets != nil {
		if *req.AvailableTickets < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "availableTickets must not be negative")
			return
		}
		add("available_tickets", *req.AvailableTickets)
	}
	if req.TotalTickets != nil {
		add("total_tickets", *req.TotalTickets)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	if len(set) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "no fields to update")
		return
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	result, err := h.db.Exec(query, args...)
	if err != nil {
		slog.Error("failed to update event", "error", err, "event_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}

	event, err := scanEvent(h.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		slog.Error("failed to load updated event", "error", err, "event_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update event")
		return
	}

	slog.Info("event updated", "event_id", id)
	middleware.JSONResponse(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/{id} (admin).
// Deactivates rather than deletes so existing purchases keep their event.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "event id is required")
		return
	}

	result, err := h.db.Exec(`UPDATE events SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to deactivate event", "error", err, "event_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return
	}

	slog.Info("event deactivated", "event_id", id)
	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}
