// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validation

import (
	"database/sql"
	"fmt"
)

// PostgresStore persists validation records to the validation_record table.
// Insertion order is preserved by the seq column; retention is the
// Ledger's job.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(rec Record) error {
	_, err := s.db.Exec(`
		INSERT INTO validation_record (id, is_valid, ticket_rut, id_card_rut, message, validated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.IsValid, nullable(rec.TicketRut), nullable(rec.IDCardRut), rec.Message, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert validation record: %w", err)
	}
	return nil
}

func (s *PostgresStore) QueryAll() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, is_valid, ticket_rut, id_card_rut, message, validated_at
		FROM validation_record
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var ticketRut, idCardRut sql.NullString
		if err := rows.Scan(&rec.ID, &rec.IsValid, &ticketRut, &idCardRut, &rec.Message, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan validation record: %w", err)
		}
		rec.TicketRut = ticketRut.String
		rec.IDCardRut = idCardRut.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) TrimOldest(keep int) error {
	_, err := s.db.Exec(`
		DELETE FROM validation_record
		WHERE seq NOT IN (
			SELECT seq FROM validation_record ORDER BY seq DESC LIMIT $1
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to trim validation records: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM validation_record`)
	if err != nil {
		return fmt.Errorf("failed to clear validation records: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
