// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validation reconciles ticket and ID card RUTs into admission
verdicts and keeps the bounded validation history.

# Reconciliation

ValidateEntry extracts a RUT from each payload and compares the normalized
forms:

	res := ledger.ValidateEntry(ticketQr, idCardQr)
	rec := ledger.Record(res)

Extraction failures are expected, recoverable outcomes: they surface as a
Result with IsValid false and a message naming the side that failed, never
as an error. Ticket extraction failure short-circuits — the ID card payload
is not attempted.

# History Ledger

Records append to an injected Store (memory or Postgres) capped at 500
entries with FIFO eviction. Appends are mutex-serialized so concurrent
kiosks preserve the eviction invariant. TodayRecords filters by local
calendar day, recomputing from the store each call; Summarize derives
valid/invalid/total counters from any record slice.

Storage faults are logged at the ledger boundary and degrade to "no
history" — they never fail a validation.

# Scan Session

ScanSession is the kiosk state machine:

	awaiting_ticket --SubmitTicket--> awaiting_id_card --SubmitIDCard--> result

SubmitIDCard accepts scanned or manually typed input. Reset returns to
awaiting_ticket, clearing transient state but not recorded history.
*/
package validation
