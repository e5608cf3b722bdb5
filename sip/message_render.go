package sip

import "strings"

// RenderMode selects one of the three canonical string renderings spec
// §4.4/§4.5 requires: Preserved echoes the original input bytes verbatim,
// Normalized always uses each header's full RFC-canonical name, Compact
// substitutes the single-letter alias (RFC 3261 §20) where one exists.
type RenderMode int

const (
	ModePreserved RenderMode = iota
	ModeNormalized
	ModeCompact
)

// compactHeaderNames maps a lowercased full header name to its RFC 3261
// §20 compact alias, restricted to the headers this library models (spec
// §4.4.3's "Compact X" call-outs).
var compactHeaderNames = map[string]string{
	"via":              "v",
	"from":             "f",
	"to":               "t",
	"call-id":          "i",
	"contact":          "m",
	"content-encoding": "e",
	"content-length":   "l",
	"content-type":     "c",
	"subject":          "s",
	"supported":        "k",
}

// Serialize renders msg in the requested mode (spec §4.5 "Render
// protocol"). Preserved returns the exact bytes msg was parsed from when
// available (spec §8.1 rule 1); a message built programmatically (never
// parsed) has no original bytes to echo, so Preserved falls back to
// Normalized, which is still a faithful, round-trippable rendering.
func Serialize(msg Message, mode RenderMode) string {
	if mode == ModePreserved {
		if raw, ok := rawBytes(msg); ok {
			return string(raw)
		}
		mode = ModeNormalized
	}
	return renderMessage(msg, mode == ModeCompact)
}

func rawBytes(msg Message) ([]byte, bool) {
	switch m := msg.(type) {
	case *Request:
		return m.raw, m.raw != nil
	case *Response:
		return m.raw, m.raw != nil
	}
	return nil, false
}

// renderMessage writes the start-line (always canonical per spec §4.5),
// then each header in the requested name form, then CRLF and the verbatim
// body.
func renderMessage(msg Message, compact bool) string {
	var b strings.Builder
	b.WriteString(msg.StartLine())
	b.WriteString("\r\n")
	for _, h := range msg.Headers() {
		name := h.Name()
		if compact {
			if alias, ok := compactHeaderNames[strings.ToLower(name)]; ok {
				name = alias
			}
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(h.Value())
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	if body := msg.Body(); len(body) > 0 {
		b.Write(body)
	}
	return b.String()
}
