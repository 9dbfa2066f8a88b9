// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names are camelCase to match the web frontend's wire format.

# Request Types

Types for parsing incoming JSON:

  - CreateUserRequest: email, name, lastName, rut, password
  - LoginRequest: email, password
  - CreateEventRequest / UpdateEventRequest: event catalog fields
  - CreatePurchaseRequest: userId, eventId, quantity, prices
  - UpdatePurchaseStatusRequest: status
  - ValidateEntryRequest: ticketQr, idCardQr

# Response Types

  - LoginResponse: sessionToken, user
  - CreatePurchaseResponse: purchase + generated tickets
  - List*Response: items + pagination
  - ErrorResponse: error, message

# Domain Types

  - User: account with optional RUT and bcrypt-hashed password (hash never
    serialized)
  - Event: catalog entry with availability counters
  - Purchase: order with per-ticket breakdown and email state
  - Ticket: individual admission with QR payload and used flag
  - EmailLog: record of confirmation dispatch attempts
  - SalesReport: aggregated sales summary for the admin report endpoint

# Constants

Purchase statuses:

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
*/
package models
