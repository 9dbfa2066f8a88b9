// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Entrada API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, ledger, sender, m)

# Endpoints

Health and observability:

	GET /health
	GET /metrics

Users:

	POST /api/users               - Signup
	POST /api/users/login         - Login (session token)
	GET  /api/users               - Paginated list
	GET  /api/users/{id}          - Lookup by ID
	GET  /api/users/email/{email} - Lookup by email

Events (mutations require X-Admin-Key):

	GET    /api/events      - Paginated list (category/active filters)
	GET    /api/events/{id}
	POST   /api/events
	PUT    /api/events/{id}
	DELETE /api/events/{id} - Deactivate

Purchases:

	POST /api/purchases                      - Create order + tickets
	GET  /api/purchases                      - Paginated list
	GET  /api/purchases/{id}
	GET  /api/purchases/order/{orderNumber}
	GET  /api/purchases/user/{userID}
	PUT  /api/purchases/{id}/status

Tickets:

	GET  /api/tickets/{ticketNumber}
	POST /api/tickets/{ticketNumber}/validate - Mark used (409 if used)
	GET  /api/tickets/purchase/{purchaseID}

Entry validation (kiosk):

	POST   /api/validate/entry   - Reconcile ticket vs ID card QR
	GET    /api/validate/history - Today's records + counters
	DELETE /api/validate/history - Admin wipe

Reports (admin):

	GET /api/reports/sales

# Handler Initialization

The router creates handler instances with dependency injection:

	userHandler := handlers.NewUserHandler(db, cfg)
	purchaseHandler := handlers.NewPurchaseHandler(db, cfg, sender, m)
	validationHandler := handlers.NewValidationHandler(ledger, cfg, m)

All handlers receive the database connection and configuration; the
purchase and validation handlers additionally get the mail sender,
metrics, and the validation ledger.
*/
package router
