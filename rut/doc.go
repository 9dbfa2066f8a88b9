// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package rut implements Chilean RUT (Rol Único Tributario) check digit
computation and formatting.

# Validation

A RUT is a 7-8 digit body plus a check character (0-9 or K) derived from the
body via the módulo-11 algorithm:

	rut.IsValid("12.345.678-5") // true
	rut.IsValid("12345678-K")   // false (wrong check char)

IsValid accepts any separator style; dots and hyphens are stripped before
checking.

# Normalization

The canonical comparison form is uppercase with no separators:

	rut.Normalize("12.345.678-k") // "12345678K"

Normalize is idempotent.

# Display Formatting

Format is the inverse of Normalize:

	rut.Format("123456785") // "12.345.678-5"

# Check Digit

ComputeCheckChar exposes the raw módulo-11 computation for a numeric body.
It returns an error only for non-digit input; callers validating scanned
text should use IsValid, which folds that case into a false result.
*/
package rut
