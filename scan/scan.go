// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scan

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/entradalive/entrada/rut"
)

// A Strategy attempts to pull a RUT candidate out of a raw scanned payload.
// Attempt returns the candidate and true, or "" and false when the payload
// does not match the strategy's shape. Candidates are syntactic only; the
// extractor still has to checksum-validate them.
type Strategy struct {
	Name    string
	Attempt func(raw string) (string, bool)
}

var (
	// RUT-shaped run of digits with optional hyphen before the check char.
	anyRutPattern = regexp.MustCompile(`\d{7,8}-?[\dkK]`)

	// Dotted or undotted display format, hyphen required.
	formattedRutPattern = regexp.MustCompile(`\d{1,2}\.?\d{3}\.?\d{3}-[\dkK]`)

	// Bare digit run with trailing check char, no separators.
	bareRutPattern = regexp.MustCompile(`\d{7,8}[\dkK]`)

	// Querystring fallback when the payload is not a parseable URL.
	runParamPattern = regexp.MustCompile(`(?i)[?&]RUN=([^&]+)`)
)

// jsonRutKeys is the ordered precedence for case-varied RUT keys in JSON
// payloads. First present, non-empty key wins.
var jsonRutKeys = []string{"rut", "RUT", "run", "RUN"}

// TicketStrategies is the decoding order for ticket QR payloads.
var TicketStrategies = []Strategy{
	{"regex", attemptRegex},
	{"structured", attemptStructured},
	{"json", attemptJSON},
	{"whole", attemptWhole},
}

// IDCardStrategies is the decoding order for Chilean ID card payloads.
// Card encodings are more heterogeneous: Registro Civil URLs, PDF417 text
// dumps with RUN: lines, MRZ-like '<'-delimited strings.
var IDCardStrategies = []Strategy{
	{"url", attemptURL},
	{"json", attemptJSON},
	{"line", attemptLine},
	{"mrz", attemptMRZ},
	{"formatted", attemptFormatted},
	{"bare", attemptBare},
}

// ExtractTicket recovers a normalized RUT from a ticket QR payload.
// Returns "" and false when no strategy yields a checksum-valid candidate.
func ExtractTicket(raw string) (string, bool) {
	return extract(raw, TicketStrategies, "ticket")
}

// ExtractIDCard recovers a normalized RUT from an ID card payload.
func ExtractIDCard(raw string) (string, bool) {
	return extract(raw, IDCardStrategies, "id_card")
}

// extract runs strategies in declared order and returns the first candidate
// that passes checksum validation. A candidate that matches syntactically
// but fails the checksum is discarded; later strategies are still tried.
func extract(raw string, strategies []Strategy, role string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	for _, s := range strategies {
		candidate, ok := s.Attempt(trimmed)
		if !ok {
			continue
		}
		normalized := rut.Normalize(candidate)
		if rut.IsValid(normalized) {
			return normalized, true
		}
		slog.Debug("scan candidate failed checksum",
			"role", role,
			"strategy", s.Name,
		)
	}

	return "", false
}

// attemptRegex finds the first RUT-shaped substring anywhere in the text.
func attemptRegex(raw string) (string, bool) {
	m := anyRutPattern.FindString(raw)
	return m, m != ""
}

// attemptStructured handles the two ticket encodings:
//
//	new (preferred): the payload is the RUT itself, no pipes
//	legacy:          ORD:<order>|EMAIL:<email>|QTY:<n>|RUT:<rut>
func attemptStructured(raw string) (string, bool) {
	if !strings.Contains(raw, "|") {
		return raw, true
	}

	fields := map[string]string{}
	for _, part := range strings.Split(raw, "|") {
		key, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if v := fields["RUT"]; v != "" {
		return v, true
	}
	return "", false
}

// attemptJSON parses the payload as a JSON object and checks the case-varied
// RUT keys in fixed precedence order.
func attemptJSON(raw string) (string, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return "", false
	}

	for _, key := range jsonRutKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		s := stringifyJSONValue(v)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// attemptWhole treats the entire payload as the RUT.
func attemptWhole(raw string) (string, bool) {
	return raw, true
}

// attemptURL handles the Registro Civil document-status URL format,
// e.g. https://portal.sidiv.registrocivil.cl/docstatus?RUN=12.345.678-5&...
// When the payload is not an absolute URL, falls back to a querystring
// regex and URL-decodes the value.
func attemptURL(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" && u.Host != "" {
		q := u.Query()
		run := q.Get("RUN")
		if run == "" {
			run = q.Get("run")
		}
		return run, run != ""
	}

	m := runParamPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	decoded, err := url.QueryUnescape(m[1])
	if err != nil {
		decoded = m[1]
	}
	return decoded, decoded != ""
}

// attemptLine scans individual lines for a RUN: or RUT: prefix.
func attemptLine(raw string) (string, bool) {
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r'
	}) {
		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "RUN:") || strings.HasPrefix(upper, "RUT:") {
			return strings.TrimSpace(line[4:]), true
		}
	}
	return "", false
}

// attemptMRZ takes the first segment of a '<'-delimited card encoding,
// e.g. 12345678-5<JUAN<PEREZ<...
func attemptMRZ(raw string) (string, bool) {
	first, _, _ := strings.Cut(raw, "<")
	first = strings.TrimSpace(first)
	return first, first != ""
}

// attemptFormatted finds a dotted or hyphenated display-format RUT.
func attemptFormatted(raw string) (string, bool) {
	m := formattedRutPattern.FindString(raw)
	return m, m != ""
}

// attemptBare finds a separator-free digit run with check char.
func attemptBare(raw string) (string, bool) {
	m := bareRutPattern.FindString(raw)
	return m, m != ""
}

func stringifyJSONValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return ""
	}
}
