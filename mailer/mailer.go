// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/entradalive/entrada/models"
)

// EmailTypeConfirmation marks a purchase confirmation email in the log.
const EmailTypeConfirmation = "purchase_confirmation"

// Message is an outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers outgoing mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes outgoing mail to the structured log instead of a
// relay. Used in development; swap for a real SMTP sender in production.
type LogSender struct {
	From string
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	slog.Info("email delivered (log sender)",
		"from", s.From,
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
	)
	return nil
}

// ConfirmationMessage builds the purchase confirmation email for a
// completed order. baseURL is the public frontend origin, used for the
// "mis entradas" link.
func ConfirmationMessage(user models.User, event models.Event, purchase models.Purchase, baseURL string) Message {
	eventTime := ""
	if event.Time != nil {
		eventTime = " " + *event.Time
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s %s,\n\n", user.Name, user.LastName)
	fmt.Fprintf(&b, "Tu compra fue confirmada.\n\n")
	fmt.Fprintf(&b, "Orden: %s\n", purchase.OrderNumber)
	fmt.Fprintf(&b, "Evento: %s - %s\n", event.Title, event.Artist)
	fmt.Fprintf(&b, "Fecha: %s%s\n", event.Date, eventTime)
	fmt.Fprintf(&b, "Lugar: %s, %s\n", event.Venue, event.Location)
	fmt.Fprintf(&b, "Entradas: %d\n", purchase.Quantity)
	fmt.Fprintf(&b, "Cargo por servicio: $%.0f\n", purchase.ServiceCharge)
	fmt.Fprintf(&b, "Total: $%.0f\n\n", purchase.TotalPrice)
	fmt.Fprintf(&b, "Puedes ver tus entradas en %s/mis-entradas\n", baseURL)

	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Confirmación de compra %s", purchase.OrderNumber),
		Body:    b.String(),
	}
}

// Logger persists delivery attempts to the email_logs table.
type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

// LogDelivery records an attempt. A non-nil sendErr marks the row
// failed and stores the error message.
func (l *Logger) LogDelivery(purchaseID int, emailType string, msg Message, sendErr error) error {
	status := models.EmailSent
	var errMsg sql.NullString
	if sendErr != nil {
		status = models.EmailFailed
		errMsg = sql.NullString{String: sendErr.Error(), Valid: true}
	}

	_, err := l.db.Exec(`
		INSERT INTO email_logs (purchase_id, email_type, recipient_email, subject, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		purchaseID, emailType, msg.To, msg.Subject, status, errMsg,
	)
	return err
}

// ByPurchase returns logged delivery attempts for a purchase, newest first.
func (l *Logger) ByPurchase(purchaseID int) ([]models.EmailLog, error) {
	rows, err := l.db.Query(`
		SELECT id, purchase_id, email_type, recipient_email, subject, status, error_message, sent_at
		FROM email_logs
		WHERE purchase_id = $1
		ORDER BY sent_at DESC`,
		purchaseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.EmailLog{}
	for rows.Next() {
		var log models.EmailLog
		var errMsg sql.NullString
		if err := rows.Scan(&log.ID, &log.PurchaseID, &log.EmailType, &log.RecipientEmail,
			&log.Subject, &log.Status, &errMsg, &log.SentAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			log.ErrorMessage = &errMsg.String
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
