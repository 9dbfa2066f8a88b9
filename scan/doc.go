// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scan extracts RUTs from raw QR/barcode payload text.

Payloads come from the scanning layer (camera decode or manual text entry)
and are untrusted: they may be a bare RUT, a legacy pipe-delimited ticket
encoding, JSON, a Registro Civil URL, or a PDF417 ID card text dump.

# Strategy Chains

Each role has a fixed, ordered list of decoding strategies. A strategy
produces a syntactic candidate; the extractor normalizes it and runs the
módulo-11 checksum. The first candidate that validates wins — strategies
are tried until one VALIDATES, not merely until one matches:

	rutValue, ok := scan.ExtractTicket("ORD:123|EMAIL:a@b.cl|QTY:2|RUT:12.345.678-5")
	// "123456785", true

Ticket order: RUT-shaped regex, structured (pipe/bare), JSON key lookup,
whole string.

ID card order: URL query param RUN, JSON key lookup, RUN:/RUT: line prefix,
'<'-delimited first segment, display-format regex, bare digit-run regex.

The two chains are intentionally asymmetric; a URL-embedded RUN parameter
extracts only via the ID card chain.

# Failure Behavior

Extraction never panics past the boundary: empty input, malformed JSON and
unparseable URLs each fall through to the next strategy, and exhaustion
returns ("", false). Checksum-invalid candidates are discarded whole, never
corrected.
*/
package scan
