// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Key

The admin key uses HMAC-SHA256 to create a deterministic, verifiable
service-wide key:

	adminKey := auth.GenerateAdminKey(salt)
	err := auth.ValidateAdminKey(adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same salt always produces the same key. This allows validation without
storing the key in the database. Admin-only endpoints (event management,
report access, history clearing) check it via the X-Admin-Key header.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded and issued on login.

# Passwords

User passwords are hashed with bcrypt at default cost:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

CheckPassword returns ErrInvalidCredentials on any mismatch.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
