// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Entrada API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - UserHandler: Signup, login, user lookup
  - EventHandler: Event catalog CRUD
  - PurchaseHandler: Orders, tickets, confirmation email
  - TicketHandler: Ticket lookup and single-use marking
  - ValidationHandler: Kiosk entry validation over the history ledger
  - ReportsHandler: Sales aggregation

Handlers are created via constructor functions that accept *sql.DB and Config:

	eventHandler := handlers.NewEventHandler(db, cfg)

# Purchase Flow

Purchases are transactional. The event row is locked, availability is
checked and decremented, and one ticket per seat is created:

	POST /api/purchases → CreatePurchase

	ORD-20260830-A1B2C3D4       order number
	ORD-20260830-A1B2C3D4-T001  ticket numbers

Each ticket QR payload carries the buyer's normalized RUT so the entry
kiosk can reconcile it against the scanned ID card. After commit, a
confirmation email goes out and the attempt lands in email_logs.

# Entry Validation

The kiosk flow reconciles two QR payloads through validation.Ledger:

	POST   /api/validate/entry    → verdict, recorded in history
	GET    /api/validate/history  → today's records + counters
	DELETE /api/validate/history  → admin wipe

# Admin Operations

Event mutations, report access, and history clearing require the
X-Admin-Key header, checked against the key derived from ADMIN_KEY_SALT.
*/
package handlers
