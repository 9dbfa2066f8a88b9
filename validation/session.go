// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import "errors"

// Step is the kiosk scan flow state.
type Step string

const (
	StepAwaitingTicket Step = "awaiting_ticket"
	StepAwaitingIDCard Step = "awaiting_id_card"
	StepResult         Step = "result"
)

var (
	ErrNotAwaitingTicket = errors.New("session is not awaiting a ticket scan")
	ErrNotAwaitingIDCard = errors.New("session is not awaiting an id card scan")
)

// ScanSession drives one kiosk validation cycle:
//
//	awaiting_ticket -> awaiting_id_card -> result
//
// The ID card step accepts either a scanned payload or manually typed text;
// both take the same path into reconciliation. Reset returns to
// awaiting_ticket and clears transient state only — recorded history is
// untouched. The cycle is inherently restartable.
type ScanSession struct {
	ledger    *Ledger
	step      Step
	ticketRaw string
	result    *Record
}

func NewScanSession(ledger *Ledger) *ScanSession {
	return &ScanSession{
		ledger: ledger,
		step:   StepAwaitingTicket,
	}
}

// Step returns the current flow state.
func (s *ScanSession) Step() Step {
	return s.step
}

// Result returns the last recorded verdict, or nil before one exists.
func (s *ScanSession) Result() *Record {
	return s.result
}

// SubmitTicket stores the ticket payload and advances to the ID card step.
// The payload is held raw; extraction happens at reconciliation time so a
// failed ticket extraction still produces a recorded verdict.
func (s *ScanSession) SubmitTicket(raw string) error {
	if s.step != StepAwaitingTicket {
		return ErrNotAwaitingTicket
	}
	s.ticketRaw = raw
	s.step = StepAwaitingIDCard
	return nil
}

// SubmitIDCard reconciles the held ticket payload against the ID card
// payload, records the verdict, and advances to the result step. Manual
// RUT entry goes through here too.
func (s *ScanSession) SubmitIDCard(raw string) (Record, error) {
	if s.step != StepAwaitingIDCard {
		return Record{}, ErrNotAwaitingIDCard
	}

	res := s.ledger.ValidateEntry(s.ticketRaw, raw)
	rec := s.ledger.Record(res)
	s.result = &rec
	s.step = StepResult
	return rec, nil
}

// Reset clears transient scan state and returns to the ticket step.
func (s *ScanSession) Reset() {
	s.ticketRaw = ""
	s.result = nil
	s.step = StepAwaitingTicket
}
