package sip

import (
	"strconv"
	"strings"
)

// Lexical primitives of RFC 3261 §25. These are hand-rolled byte scanners,
// not a regex engine: spec §5 requires O(n) parsing with no backtracking,
// and a backtracking regex engine cannot give that guarantee.

// isTokenChar reports whether c belongs to the token alphabet:
// ALPHA / DIGIT / "-" / "." / "!" / "%" / "*" / "_" / "+" / "`" / "'" / "~"
func isTokenChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '!', '%', '*', '_', '+', '`', '\'', '~':
		return true
	}
	return false
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWSP(c byte) bool {
	return c == ' ' || c == '\t'
}

// isUnreserved reports whether c is a URI "unreserved" octet per RFC 3986,
// the set that MUST be stored decoded for canonical URI equivalence
// (spec §3.2, RFC 3261 §19.1.4).
func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '~':
		return true
	}
	return false
}

// token consumes one or more token characters from s starting at i.
// Returns the consumed slice and the index just past it.
func lexToken(s string, i int) (string, int) {
	start := i
	for i < len(s) && isTokenChar(s[i]) {
		i++
	}
	return s[start:i], i
}

// lexQuotedString consumes a balanced "..." with backslash escapes starting
// at s[i] == '"'. Returns the decoded content (without quotes) and the index
// just past the closing quote.
func lexQuotedString(s string, i int) (string, int, error) {
	if i >= len(s) || s[i] != '"' {
		return "", i, newParseError(ErrInvalidHeader, "quoted-string", i, "expected opening quote")
	}
	i++
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		if c == '"' {
			return b.String(), i + 1, nil
		}
		if c == '\\' && i+1 < len(s) {
			b.WriteByte(s[i+1])
			i += 2
			continue
		}
		b.WriteByte(c)
		i++
	}
	return "", i, newParseError(ErrInvalidHeader, "quoted-string", i, "unterminated quoted-string")
}

// lexComment consumes a balanced, nestable "(...)" comment starting at
// s[i] == '(' (RFC 3261 §25.1 comment = LPAREN *(ctext / quoted-pair /
// comment) RPAREN). Returns the decoded content (escapes resolved, nested
// parens kept literal) and the index just past the closing paren.
func lexComment(s string, i int) (string, int, error) {
	if i >= len(s) || s[i] != '(' {
		return "", i, newParseError(ErrInvalidHeader, "comment", i, "expected opening paren")
	}
	i++
	var b strings.Builder
	depth := 1
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		case c == '(':
			depth++
			b.WriteByte(c)
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return b.String(), i, nil
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", i, newParseError(ErrInvalidHeader, "comment", i, "unterminated comment")
}

// lexLWS skips optional CRLF followed by one-or-more SP/HTAB, per spec §3.1.
// Semantically LWS collapses to a single space; this scanner is used only
// to skip it, never to re-emit it, since output never inserts LWS between a
// header name and its colon.
func lexLWS(s string, i int) int {
	for {
		j := i
		if j+1 < len(s) && s[j] == '\r' && s[j+1] == '\n' {
			j += 2
		}
		start := j
		for j < len(s) && isWSP(s[j]) {
			j++
		}
		if j == start {
			return i
		}
		i = j
	}
}

// skipWS skips plain SP/HTAB (no CRLF) — used within a single unfolded line.
func skipWS(s string, i int) int {
	for i < len(s) && isWSP(s[i]) {
		i++
	}
	return i
}

func trimWS(s string) string {
	i, j := 0, len(s)
	for i < j && isWSP(s[i]) {
		i++
	}
	for j > i && isWSP(s[j-1]) {
		j--
	}
	return s[i:j]
}

// decodeEscaped decodes a single "%" HEXDIG HEXDIG sequence starting at
// s[i] == '%'. Returns the decoded byte and index past the triplet.
func decodeEscaped(s string, i int) (byte, int, error) {
	if i+2 >= len(s) {
		return 0, i, newParseError(ErrInvalidURI, "escaped", i, "truncated percent-escape")
	}
	v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
	if err != nil {
		return 0, i, newParseError(ErrInvalidURI, "escaped", i, "invalid hex digits in percent-escape")
	}
	return byte(v), i + 3, nil
}

// unescapeUnreserved decodes percent-escapes of unreserved octets in s and
// leaves every other percent-escape untouched (verbatim), per spec §3.2:
// "Percent-escapes of unreserved octets are decoded on parse; all other
// escapes are preserved verbatim until render."
func unescapeUnreserved(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			if v, next, err := decodeEscaped(s, i); err == nil && isUnreserved(v) {
				b.WriteByte(v)
				i = next
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// fullyUnescape decodes every percent-escape in s, unconditionally. Uri.Equal
// does not call it: user and password compare byte-exact on their stored
// form.
func fullyUnescape(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			if v, next, err := decodeEscaped(s, i); err == nil {
				b.WriteByte(v)
				i = next
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

// escapeExcept percent-escapes every byte in s that is neither unreserved
// nor present in safe (the component-specific "safe" additions table in
// spec §4.2).
func escapeExcept(s string, safe string) string {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isUnreserved(c) && strings.IndexByte(safe, c) < 0 {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xF])
	}
	return b.String()
}

// renderURIComponent re-emits a URI component that may already contain
// preserved (not-unreserved) percent-escapes from parse time: an existing
// "%" HEXDIG HEXDIG triplet passes through untouched, anything else unsafe
// gets freshly escaped. This is what keeps render idempotent without
// double-escaping bytes the parser intentionally left alone (spec §3.2).
func renderURIComponent(s string, safe string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			b.WriteByte(s[i+2])
			i += 2
			continue
		}
		if isUnreserved(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0xF])
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Safe-set additions over `unreserved` for each URI component, per spec §4.2.
const (
	safeUser     = "&=+$,;?/"
	safePassword = "&=+$,"
	safeParam    = "[]/:&+$"
	safeHeader   = "[]/?:+$"
)

// quoteIfNeeded renders a parameter value, quoting it if it contains any
// character outside the token alphabet (mirrors the teacher's
// HeaderParams.ToString, generalized into the lexer layer).
func quoteIfNeeded(v string) string {
	if v == "" {
		return v
	}
	plain := true
	for i := 0; i < len(v); i++ {
		if !isTokenChar(v[i]) {
			plain = false
			break
		}
	}
	if plain {
		return v
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}
