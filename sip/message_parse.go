package sip

import (
	"strings"
	"unicode/utf8"
)

// headBodyBoundary is the RFC 3261 §25/§7 message terminator: the header
// block always ends at the first blank line, i.e. CRLF CRLF. A lone LF is
// never accepted (spec §6.1).
const headBodyBoundary = "\r\n\r\n"

// ParseMessage parses a complete, already-framed SIP message per spec
// §4.5's parse protocol: locate the CRLFCRLF boundary, validate the head
// as UTF-8, parse the start-line, unfold and dispatch headers, and attach
// the body verbatim with no Content-Length cross-check (that belongs to
// the transaction/transport layer, spec §1).
func ParseMessage(data []byte) (Message, error) {
	idx := strings.Index(string(data), headBodyBoundary)
	if idx < 0 {
		return nil, newParseError(ErrInvalidMessage, "message", 0, "missing CRLFCRLF head/body boundary")
	}
	head := data[:idx]
	body := data[idx+len(headBodyBoundary):]

	if !utf8.Valid(head) {
		return nil, newParseError(ErrInvalidMessage, "message", 0, "message head is not valid UTF-8")
	}

	lines := unfoldLines(strings.Split(string(head), "\r\n"))
	if len(lines) == 0 || lines[0] == "" {
		return nil, newParseError(ErrInvalidMessage, "message", 0, "empty start-line")
	}

	msg, err := parseStartLine(lines[0])
	if err != nil {
		return nil, err
	}

	var target *messageData
	switch m := msg.(type) {
	case *Request:
		target = &m.messageData
	case *Response:
		target = &m.messageData
	}

	if err := parseHeaderLinesInto(target, lines[1:]); err != nil {
		return nil, err
	}
	target.body = body
	target.raw = append([]byte(nil), data...)

	return msg, nil
}

// unfoldLines joins RFC 3261 §7.3.1 folded continuation lines (a line
// beginning with SP/HTAB) onto the previous logical line, collapsing the
// fold to a single space per spec §3.1's LWS rule.
func unfoldLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) > 0 && isWSP(line[0]) && len(out) > 0 {
			out[len(out)-1] = out[len(out)-1] + " " + trimWS(line)
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseStartLine dispatches between Request-Line and Status-Line per spec
// §4.5 step 3: try request-line first, then status-line. Disambiguation is
// by the first token — "SIP/" (case-insensitive) means Status-Line,
// anything else means Request-Line — matching the state-machine-free
// design spec §4.4.6 calls for (no intermediate suspensions, no
// backtracking between the two attempts).
func parseStartLine(s string) (Message, error) {
	i1 := strings.IndexByte(s, ' ')
	if i1 < 0 {
		return nil, newParseError(ErrInvalidMessage, "start-line", 0, s)
	}
	rest := s[i1+1:]
	i2 := strings.IndexByte(rest, ' ')
	if i2 < 0 {
		return nil, newParseError(ErrInvalidMessage, "start-line", i1, s)
	}
	token1 := s[:i1]
	token2 := rest[:i2]
	token3 := rest[i2+1:]

	if len(token1) >= 4 && strings.EqualFold(token1[:4], "SIP/") {
		version, err := ParseVersion(token1)
		if err != nil {
			return nil, newParseError(ErrInvalidResponse, "Status-Line", 0, "bad SIP-Version")
		}
		status, err := ParseStatusCode(token2)
		if err != nil {
			return nil, newParseError(ErrInvalidResponse, "Status-Line", i1+1, "bad Status-Code")
		}
		resp := &Response{Reason: Reason{Status: status, Phrase: token3}}
		resp.version = version
		return resp, nil
	}

	method, err := parseMethod(token1)
	if err != nil {
		return nil, newParseError(ErrInvalidRequest, "Request-Line", 0, "bad Method")
	}
	uri, err := ParseURI(token2)
	if err != nil {
		return nil, err
	}
	version, err := ParseVersion(token3)
	if err != nil {
		return nil, newParseError(ErrInvalidRequest, "Request-Line", i1+1+i2+1, "bad SIP-Version")
	}
	req := &Request{Method: method, RequestURI: uri}
	req.version = version
	return req, nil
}

// parseHeaderLinesInto dispatches each unfolded header line into zero or
// more Header values (spec §4.5 step 4) and appends them, in order, to m's
// header list.
func parseHeaderLinesInto(m *messageData, lines []string) error {
	for _, line := range lines {
		if line == "" {
			continue
		}
		name, value, err := splitHeaderLine(line)
		if err != nil {
			return err
		}
		headers, err := ParseHeader(name, value)
		if err != nil {
			return err
		}
		for _, h := range headers {
			m.headers.Add(h)
		}
	}
	return nil
}

// splitHeaderLine splits "field-name HCOLON field-value" (spec §3.1): the
// name ends at the first colon, optional WSP on either side of it is not
// part of either token.
func splitHeaderLine(line string) (name, value string, err error) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", "", newParseError(ErrInvalidMessage, "message-header", 0, "missing HCOLON in header line")
	}
	name = strings.TrimRight(line[:colon], " \t")
	if name == "" {
		return "", "", newParseError(ErrInvalidMessage, "message-header", 0, "empty header name")
	}
	value = trimWS(line[colon+1:])
	return name, value, nil
}
