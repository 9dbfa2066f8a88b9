// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HistoryCap is the maximum number of records the ledger retains. The
// oldest records are evicted first when an append exceeds the cap.
const HistoryCap = 500

// Store is the injected persistence dependency for validation records.
// Stores keep records in insertion order and hold no retention policy of
// their own; the Ledger enforces the cap. TrimOldest exists because a SQL
// store cannot express FIFO eviction through Append/QueryAll alone.
type Store interface {
	Append(rec Record) error
	QueryAll() ([]Record, error)
	TrimOldest(keep int) error
	Clear() error
}

// Ledger reconciles scanned identifiers and owns the bounded validation
// history. Appends are serialized with a mutex so the FIFO-eviction-at-cap
// invariant holds when several kiosks share one ledger.
type Ledger struct {
	mu    sync.Mutex
	store Store
	cap   int
	now   func() time.Time
}

// NewLedger creates a ledger over the given store with the default cap.
func NewLedger(store Store) *Ledger {
	return &Ledger{
		store: store,
		cap:   HistoryCap,
		now:   time.Now,
	}
}

// ValidateEntry reconciles a ticket payload against an ID card payload.
// The timestamp is captured once, up front. The result is not persisted;
// callers that want history call Record with it.
func (l *Ledger) ValidateEntry(ticketRaw, idCardRaw string) Result {
	return reconcile(ticketRaw, idCardRaw, l.now())
}

// Record persists a validation result as an immutable record, evicting the
// oldest entries when the history exceeds the cap. Storage faults are
// logged and swallowed: a broken history store must not fail the
// validation flow, so the generated record is returned regardless.
func (l *Ledger) Record(res Result) Record {
	rec := Record{
		ID:     newRecordID(res.Timestamp),
		Result: res,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Append(rec); err != nil {
		slog.Error("failed to append validation record", "error", err, "record_id", rec.ID)
		return rec
	}
	if err := l.store.TrimOldest(l.cap); err != nil {
		slog.Error("failed to trim validation history", "error", err)
	}
	return rec
}

// TodayRecords returns the records whose timestamp falls on the current
// local calendar day, oldest first. The filter is recomputed from the
// store on every call. Storage faults degrade to an empty history.
func (l *Ledger) TodayRecords() []Record {
	all, err := l.store.QueryAll()
	if err != nil {
		slog.Error("failed to query validation history", "error", err)
		return []Record{}
	}

	today := l.now()
	y, m, d := today.Date()

	records := []Record{}
	for _, rec := range all {
		ry, rm, rd := rec.Timestamp.Local().Date()
		if ry == y && rm == m && rd == d {
			records = append(records, rec)
		}
	}
	return records
}

// Counters derives aggregate counts over today's records. Callers that
// already hold the day's records can use Summarize directly instead of
// paying for a second store query.
func (l *Ledger) Counters() Counters {
	return Summarize(l.TodayRecords())
}

// ClearHistory removes all validation records.
func (l *Ledger) ClearHistory() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear validation history: %w", err)
	}
	return nil
}

// newRecordID derives a unique record id from the validation timestamp
// plus a random component.
func newRecordID(ts time.Time) string {
	return fmt.Sprintf("val_%d_%s", ts.UnixMilli(), uuid.NewString()[:8])
}
