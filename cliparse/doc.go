// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: PostgreSQL connection string (required)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - BaseURL: Public base URL used in email links (default: localhost dev server)
  - MailFrom: Sender address for confirmation emails

# CLI Flags

	-p            Server port
	-d            Database URL
	-admin-salt   Admin key salt
	-base-url     Public base URL
	-mail-from    Confirmation email sender

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	ADMIN_KEY_SALT → -admin-salt
	BASE_URL       → -base-url
	MAIL_FROM      → -mail-from

CLI flags take precedence over environment variables. main loads a .env
file (if present) before parsing, so local development can keep secrets
there.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
*/
package cliparse
