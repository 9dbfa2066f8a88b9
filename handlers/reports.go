// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/entradalive/entrada/cliparse"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/models"
)

type ReportsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewReportsHandler(db *sql.DB, cfg cliparse.Config) *ReportsHandler {
	return &ReportsHandler{db: db, cfg: cfg}
}

// SalesReport handles GET /api/reports/sales (admin).
// Aggregates completed purchases; optional eventId and date range filters.
func (h *ReportsHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	where := []string{"p.status = 'completed'"}
	args := []interface{}{}
	if eventID := r.URL.Query().Get("eventId"); eventID != "" {
		args = append(args, eventID)
		where = append(where, fmt.Sprintf("p.event_id = $%d", len(args)))
	}
	if from := r.URL.Query().Get("from"); from != "" {
		args = append(args, from)
		where = append(where, fmt.Sprintf("p.purchase_date >= $%d", len(args)))
	}
	if to := r.URL.Query().Get("to"); to != "" {
		args = append(args, to)
		where = append(where, fmt.Sprintf("p.purchase_date <= $%d", len(args)))
	}
	whereClause := "WHERE " + strings.Join(where, " AND ")

	query := fmt.Sprintf(`
		SELECT e.title, COALESCE(e.category, 'sin categoría'), p.quantity, p.total_price
		FROM purchases p
		JOIN events e ON e.id = p.event_id
		%s`, whereClause)

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query sales", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	report := models.SalesReport{
		ByEvent:    map[string]models.EventSales{},
		ByCategory: map[string]models.CategorySales{},
	}

	for rows.Next() {
		var title, category string
		var quantity int
		var total float64
		if err := rows.Scan(&title, &category, &quantity, &total); err != nil {
			slog.Error("failed to scan sales row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		report.Summary.TotalSales += total
		report.Summary.TotalTickets += quantity
		report.Summary.PurchaseCount++

		ev := report.ByEvent[title]
		ev.TotalSales += total
		ev.TotalTickets += quantity
		report.ByEvent[title] = ev

		cat := report.ByCategory[category]
		cat.TicketsSold += quantity
		cat.TotalSales += total
		report.ByCategory[category] = cat
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate sales rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if report.Summary.PurchaseCount > 0 {
		report.Summary.AverageSale = report.Summary.TotalSales / float64(report.Summary.PurchaseCount)
	}
	for name, cat := range report.ByCategory {
		if cat.TicketsSold > 0 {
			cat.AveragePrice = cat.TotalSales / float64(cat.TicketsSold)
			report.ByCategory[name] = cat
		}
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}
