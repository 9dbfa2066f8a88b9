// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/entradalive/entrada/cliparse"
	"github.com/entradalive/entrada/handlers"
	"github.com/entradalive/entrada/mailer"
	"github.com/entradalive/entrada/metrics"
	"github.com/entradalive/entrada/middleware"
	"github.com/entradalive/entrada/validation"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, ledger *validation.Ledger, sender mailer.Sender, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	eventHandler := handlers.NewEventHandler(db, cfg)
	purchaseHandler := handlers.NewPurchaseHandler(db, cfg, sender, m)
	ticketHandler := handlers.NewTicketHandler(db, cfg)
	validationHandler := handlers.NewValidationHandler(ledger, cfg, m)
	reportsHandler := handlers.NewReportsHandler(db, cfg)

	// handle registers an API route wrapped with request logging and a
	// duration observation labeled by the route pattern.
	handle := func(pattern string, h http.HandlerFunc) {
		method, route, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(pattern, middleware.WithLogging(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			h(w, r)
			m.ObserveRequest(method, route, time.Since(start).Seconds())
		}))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Users
	handle("POST /api/users", userHandler.CreateUser)
	handle("POST /api/users/login", userHandler.Login)
	handle("GET /api/users", userHandler.ListUsers)
	handle("GET /api/users/{id}", userHandler.GetUser)
	handle("GET /api/users/email/{email}", userHandler.GetUserByEmail)

	// Events (mutations require X-Admin-Key)
	handle("GET /api/events", eventHandler.ListEvents)
	handle("GET /api/events/{id}", eventHandler.GetEvent)
	handle("POST /api/events", eventHandler.CreateEvent)
	handle("PUT /api/events/{id}", eventHandler.UpdateEvent)
	handle("DELETE /api/events/{id}", eventHandler.DeleteEvent)

	// Purchases
	handle("POST /api/purchases", purchaseHandler.CreatePurchase)
	handle("GET /api/purchases", purchaseHandler.ListPurchases)
	handle("GET /api/purchases/{id}", purchaseHandler.GetPurchase)
	handle("GET /api/purchases/order/{orderNumber}", purchaseHandler.GetByOrderNumber)
	handle("GET /api/purchases/user/{userID}", purchaseHandler.ListByUser)
	handle("PUT /api/purchases/{id}/status", purchaseHandler.UpdateStatus)

	// Tickets
	handle("GET /api/tickets/{ticketNumber}", ticketHandler.GetTicket)
	handle("POST /api/tickets/{ticketNumber}/validate", ticketHandler.UseTicket)
	handle("GET /api/tickets/purchase/{purchaseID}", ticketHandler.ListByPurchase)

	// Entry validation (kiosk)
	handle("POST /api/validate/entry", validationHandler.ValidateEntry)
	handle("GET /api/validate/history", validationHandler.GetHistory)
	handle("DELETE /api/validate/history", validationHandler.ClearHistory)

	// Reports (admin)
	handle("GET /api/reports/sales", reportsHandler.SalesReport)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("entrada API v1"))
	})

	return mux
}
