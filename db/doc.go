// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - users: accounts with optional RUT and password hash
  - events: catalog entries with availability counters
  - purchases: orders linking a user to an event
  - tickets: one row per admission, with QR payload and used flag
  - email_logs: confirmation dispatch attempts per purchase
  - validation_record: entry reconciliation ledger (insertion-ordered by seq)

# Relationships

	users 1──* purchases
	events 1──* purchases
	purchases 1──* tickets
	purchases 1──* email_logs

Tickets and email logs cascade on purchase deletion. validation_record
stands alone: the ledger owns its rows exclusively.

# Indexes

Performance indexes on:

  - users.email (unique)
  - events.category, events.is_active
  - purchases.order_number (unique), user_id, event_id, status
  - tickets.ticket_number (unique), purchase_id
  - validation_record.validated_at
*/
package db
