// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mailer builds and delivers purchase confirmation emails.

Delivery goes through the Sender interface; LogSender is the default
implementation and writes each message to the structured log, which is
enough for development and tests. Every delivery attempt, successful or
not, is persisted to the email_logs table through Logger so support can
answer "did the confirmation go out" without grepping server logs.

	sender := &mailer.LogSender{From: cfg.MailFrom}
	msg := mailer.ConfirmationMessage(user, event, purchase, cfg.BaseURL)
	err := sender.Send(ctx, msg)
	logger.LogDelivery(purchase.ID, mailer.EmailTypeConfirmation, msg, err)
*/
package mailer
