// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRecordGeneratesUniqueIDs(t *testing.T) {
	ledger := newTestLedger()

	res := ledger.ValidateEntry("12345678-5", "12345678-5")
	rec1 := ledger.Record(res)
	rec2 := ledger.Record(res)

	assert.NotEmpty(t, rec1.ID)
	assert.NotEmpty(t, rec2.ID)
	assert.NotEqual(t, rec1.ID, rec2.ID)
	assert.Contains(t, rec1.ID, "val_")
}

func TestLedgerCapEvictsOldestFirst(t *testing.T) {
	store := NewMemoryStore()
	ledger := NewLedger(store)

	for i := 0; i < HistoryCap+1; i++ {
		res := ledger.ValidateEntry("12345678-5", "12345678-5")
		res.Message = fmt.Sprintf("entry %d", i)
		ledger.Record(res)
	}

	all, err := store.QueryAll()
	require.NoError(t, err)
	require.Len(t, all, HistoryCap)

	// Entry 0 was evicted; the survivors start at entry 1.
	assert.Equal(t, "entry 1", all[0].Message)
	assert.Equal(t, fmt.Sprintf("entry %d", HistoryCap), all[len(all)-1].Message)
}

func TestLedgerTodayRecordsFiltersByCalendarDay(t *testing.T) {
	store := NewMemoryStore()
	ledger := NewLedger(store)

	now := time.Date(2025, 8, 30, 10, 0, 0, 0, time.Local)
	ledger.now = func() time.Time { return now }

	yesterday := Result{IsValid: true, Message: MsgMatch, Timestamp: now.AddDate(0, 0, -1)}
	earlierToday := Result{IsValid: true, Message: MsgMatch, Timestamp: now.Add(-3 * time.Hour)}
	justNow := Result{IsValid: false, Message: MsgMismatch, Timestamp: now}

	for _, res := range []Result{yesterday, earlierToday, justNow} {
		ledger.Record(res)
	}

	records := ledger.TodayRecords()
	require.Len(t, records, 2)
	assert.True(t, records[0].IsValid)
	assert.False(t, records[1].IsValid)

	c := Summarize(records)
	assert.Equal(t, Counters{Valid: 1, Invalid: 1, Total: 2}, c)
	assert.Equal(t, c, ledger.Counters())

	// Re-queryable: same answer on a second call.
	assert.Len(t, ledger.TodayRecords(), 2)
}

func TestLedgerClearHistory(t *testing.T) {
	store := NewMemoryStore()
	ledger := NewLedger(store)

	ledger.Record(ledger.ValidateEntry("12345678-5", "12345678-5"))
	require.NoError(t, ledger.ClearHistory())

	all, err := store.QueryAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

// faultyStore simulates history storage I/O faults.
type faultyStore struct{}

var errStorage = errors.New("disk on fire")

func (faultyStore) Append(Record) error            { return errStorage }
func (faultyStore) QueryAll() ([]Record, error)    { return nil, errStorage }
func (faultyStore) TrimOldest(int) error           { return errStorage }
func (faultyStore) Clear() error                   { return errStorage }

// Storage faults must not fail the validation flow: Record still returns a
// record and TodayRecords degrades to empty.
func TestLedgerDegradesOnStorageFault(t *testing.T) {
	ledger := NewLedger(faultyStore{})

	res := ledger.ValidateEntry("12345678-5", "12345678-5")
	rec := ledger.Record(res)
	assert.True(t, rec.IsValid)
	assert.NotEmpty(t, rec.ID)

	assert.Empty(t, ledger.TodayRecords())
	assert.Error(t, ledger.ClearHistory())
}

func TestMemoryStoreTrimOldest(t *testing.T) {
	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(Record{ID: fmt.Sprintf("r%d", i)}))
	}

	require.NoError(t, store.TrimOldest(3))

	all, err := store.QueryAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r2", all[0].ID)
	assert.Equal(t, "r4", all[2].ID)

	// Trimming below the count is a no-op.
	require.NoError(t, store.TrimOldest(10))
	all, _ = store.QueryAll()
	assert.Len(t, all, 3)
}
