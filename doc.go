// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Entrada API server.

Entrada is a consumer event-ticketing service for the Chilean market:
users buy tickets to events, each ticket carries the buyer's RUT in its
QR payload, and an entry kiosk reconciles the ticket QR against the
national ID card QR at the door.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... ADMIN_KEY_SALT=secret go run main.go

Or with flags:

	go run main.go -p 5000 -d "postgres://..." -admin-salt secret

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - BASE_URL (-base-url): Public frontend origin used in email links
  - MAIL_FROM (-mail-from): Confirmation email sender address

# Architecture

The server uses a handler-based architecture with dependency injection:

  - rut: Chilean RUT normalization and check digit validation
  - scan: Multi-strategy QR payload extraction (ticket and ID card)
  - validation: Entry reconciliation, bounded history ledger, scan session
  - handlers: HTTP request handlers (users, events, purchases, tickets,
    entry validation, reports)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Password hashing, admin key and session token generation
  - mailer: Confirmation email building, delivery, and logging
  - metrics: Prometheus counters
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
