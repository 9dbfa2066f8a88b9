// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"time"

	"github.com/entradalive/entrada/scan"
)

// User-facing verdict messages. The UI renders these directly, so each
// failure mode gets its own distinguishable string.
const (
	MsgTicketNotFound = "No se pudo extraer el RUT del QR de la entrada. Verifica que el código sea válido."
	MsgIDCardNotFound = "No se pudo extraer el RUT del carnet de identidad. Verifica que el código sea válido."
	MsgMatch          = "Entrada válida. Los RUTs coinciden."
	MsgMismatch       = "Entrada inválida. Los RUTs NO coinciden."
)

// Result is the outcome of reconciling a ticket RUT against an ID card RUT.
// TicketRut and IDCardRut are normalized; empty means not extracted.
type Result struct {
	IsValid   bool      `json:"isValid"`
	TicketRut string    `json:"ticketRut,omitempty"`
	IDCardRut string    `json:"idCardRut,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is a Result persisted to the history log with a generated id.
// Records are immutable once written.
type Record struct {
	ID string `json:"id"`
	Result
}

// Counters are aggregate counts derived from a record sequence. They are
// recomputed from the ledger on every query, never stored, so they cannot
// drift from the source of truth.
type Counters struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Total   int `json:"total"`
}

// Summarize derives counters from a record sequence.
func Summarize(records []Record) Counters {
	var c Counters
	for _, r := range records {
		if r.IsValid {
			c.Valid++
		} else {
			c.Invalid++
		}
	}
	c.Total = c.Valid + c.Invalid
	return c
}

// reconcile runs both extractors and compares the normalized RUTs.
// Extraction failures short-circuit: if the ticket RUT cannot be recovered
// the ID card payload is not even attempted, so the failure message always
// names the side that failed.
func reconcile(ticketRaw, idCardRaw string, now time.Time) Result {
	ticketRut, ok := scan.ExtractTicket(ticketRaw)
	if !ok {
		return Result{
			IsValid:   false,
			Message:   MsgTicketNotFound,
			Timestamp: now,
		}
	}

	idCardRut, ok := scan.ExtractIDCard(idCardRaw)
	if !ok {
		return Result{
			IsValid:   false,
			TicketRut: ticketRut,
			Message:   MsgIDCardNotFound,
			Timestamp: now,
		}
	}

	res := Result{
		IsValid:   ticketRut == idCardRut,
		TicketRut: ticketRut,
		IDCardRut: idCardRut,
		Timestamp: now,
	}
	if res.IsValid {
		res.Message = MsgMatch
	} else {
		res.Message = MsgMismatch
	}
	return res
}
