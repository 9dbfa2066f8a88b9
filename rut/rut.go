// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rut

import (
	"fmt"
	"strings"
)

// Normalize strips dots and hyphens from a RUT string, uppercases it and
// trims surrounding whitespace.
// Example: "12.345.678-k" -> "12345678K"
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, ".", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(strings.TrimSpace(s))
}

// ComputeCheckChar calculates the módulo-11 check character for a numeric
// RUT body. Returns an error if the body contains non-digit characters.
//
// Digits are walked right to left with weights cycling 2,3,4,5,6,7,2,3,...
// The remainder 11-(sum%11) maps to '0' when 11 and 'K' when 10.
func ComputeCheckChar(body string) (byte, error) {
	if body == "" {
		return 0, fmt.Errorf("empty RUT body")
	}

	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit character %q in RUT body", c)
		}
		sum += int(c-'0') * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	remainder := 11 - (sum % 11)
	switch remainder {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + remainder), nil
	}
}

// IsValid reports whether a RUT string (in any separator style) carries the
// correct check character for its body. Comparison is case-insensitive on 'K'.
func IsValid(raw string) bool {
	normalized := Normalize(raw)
	if len(normalized) < 2 {
		return false
	}

	body := normalized[:len(normalized)-1]
	provided := normalized[len(normalized)-1]

	expected, err := ComputeCheckChar(body)
	if err != nil {
		return false
	}
	return provided == expected
}

// Format renders a normalized RUT for display, re-inserting dots every three
// digits from the right of the body and a hyphen before the check character.
// Example: "12345678K" -> "12.345.678-K"
// Strings too short to carry a check character are returned unchanged.
func Format(normalized string) string {
	n := Normalize(normalized)
	if len(n) < 2 {
		return normalized
	}

	body := n[:len(n)-1]
	check := n[len(n)-1]

	var b strings.Builder
	for i, c := range body {
		remaining := len(body) - i
		if i > 0 && remaining%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	return b.String() + "-" + string(check)
}
