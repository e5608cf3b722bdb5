package sip

import (
	"io"
	"strconv"
	"strings"
)

// TokenListHeader covers the many headers whose grammar is a
// comma-separated list of bare tokens with no per-element parameters, and
// whose order carries no meaning (spec §4.4.4): Allow, Content-Encoding,
// Content-Language, Proxy-Require, Require, Supported, Unsupported,
// In-Reply-To. One struct, parameterized by header name, replaces eight
// near-identical teacher-style header types.
type TokenListHeader struct {
	headerName string
	Tokens     OrderedCollection[string]
}

func newTokenListHeader(name string, tokens []string) *TokenListHeader {
	return &TokenListHeader{
		headerName: name,
		Tokens:     NewOrderedCollection(strings.EqualFold, tokens...),
	}
}

func (h *TokenListHeader) Name() string { return h.headerName }
func (h *TokenListHeader) Value() string {
	return strings.Join(h.Tokens.Items, ", ")
}
func (h *TokenListHeader) String() string { return h.headerName + ": " + h.Value() }
func (h *TokenListHeader) StringWrite(w io.StringWriter) {
	w.WriteString(h.headerName)
	w.WriteString(": ")
	w.WriteString(h.Value())
}
func (h *TokenListHeader) headerClone() Header {
	if h == nil {
		return (*TokenListHeader)(nil)
	}
	items := make([]string, len(h.Tokens.Items))
	copy(items, h.Tokens.Items)
	return newTokenListHeader(h.headerName, items)
}

// Has reports whether token is present, case-insensitively — the check a
// proxy performs against Require/Supported when deciding 420/Unsupported
// (spec §6.1).
func (h *TokenListHeader) Has(token string) bool {
	for _, t := range h.Tokens.Items {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

// parseTokenListHeader returns a parser for the comma-separated token list
// headers (Allow, Supported, ...). An entirely empty value is the empty list
// spec §4.4.3 requires to be legal (e.g. "Allow:" means zero methods); only
// a comma with nothing between its ends is a malformed element.
func parseTokenListHeader(name string) func(string) (Header, error) {
	return func(value string) (Header, error) {
		if trimWS(value) == "" {
			return newTokenListHeader(name, nil), nil
		}
		var tokens []string
		for _, part := range strings.Split(value, ",") {
			tok := trimWS(part)
			if tok == "" {
				return nil, newParseError(ErrInvalidHeader, name, 0, "empty list element")
			}
			tokens = append(tokens, tok)
		}
		return newTokenListHeader(name, tokens), nil
	}
}

// acceptLikeEntry is one comma-separated element of Accept / Accept-Encoding
// / Accept-Language: a range token plus generic parameters (most commonly
// "q").
type acceptLikeEntry struct {
	Range  string
	Params HeaderParameters
}

func (e acceptLikeEntry) equal(o acceptLikeEntry) bool {
	return strings.EqualFold(e.Range, o.Range) && e.Params.Equal(o.Params)
}

func (e acceptLikeEntry) stringWrite(w io.StringWriter) {
	w.WriteString(e.Range)
	if e.Params.Len() > 0 {
		w.WriteString(";")
		e.Params.render(';', w)
	}
}

// AcceptHeader is the Accept header (spec §4.4.4): a list of media-range
// entries. Order is not semantically significant, so this is a multiset.
type AcceptHeader struct {
	Entries OrderedCollection[acceptLikeEntry]
}

func (h *AcceptHeader) Name() string { return "Accept" }
func (h *AcceptHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *AcceptHeader) String() string { return "Accept: " + h.Value() }
func (h *AcceptHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Accept: ")
	h.ValueStringWrite(w)
}
func (h *AcceptHeader) ValueStringWrite(w io.StringWriter) {
	for i, e := range h.Entries.Items {
		if i > 0 {
			w.WriteString(", ")
		}
		e.stringWrite(w)
	}
}
func (h *AcceptHeader) headerClone() Header {
	if h == nil {
		return (*AcceptHeader)(nil)
	}
	items := make([]acceptLikeEntry, len(h.Entries.Items))
	for i, e := range h.Entries.Items {
		items[i] = acceptLikeEntry{Range: e.Range, Params: e.Params.Clone()}
	}
	return &AcceptHeader{Entries: NewOrderedCollection(acceptLikeEntry.equal, items...)}
}

// AcceptEncodingHeader is the Accept-Encoding header (spec §4.4.4).
type AcceptEncodingHeader struct {
	Entries OrderedCollection[acceptLikeEntry]
}

func (h *AcceptEncodingHeader) Name() string { return "Accept-Encoding" }
func (h *AcceptEncodingHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *AcceptEncodingHeader) String() string { return "Accept-Encoding: " + h.Value() }
func (h *AcceptEncodingHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Accept-Encoding: ")
	h.ValueStringWrite(w)
}
func (h *AcceptEncodingHeader) ValueStringWrite(w io.StringWriter) {
	for i, e := range h.Entries.Items {
		if i > 0 {
			w.WriteString(", ")
		}
		e.stringWrite(w)
	}
}
func (h *AcceptEncodingHeader) headerClone() Header {
	if h == nil {
		return (*AcceptEncodingHeader)(nil)
	}
	items := make([]acceptLikeEntry, len(h.Entries.Items))
	for i, e := range h.Entries.Items {
		items[i] = acceptLikeEntry{Range: e.Range, Params: e.Params.Clone()}
	}
	return &AcceptEncodingHeader{Entries: NewOrderedCollection(acceptLikeEntry.equal, items...)}
}

// AcceptLanguageHeader is the Accept-Language header (spec §4.4.4).
type AcceptLanguageHeader struct {
	Entries OrderedCollection[acceptLikeEntry]
}

func (h *AcceptLanguageHeader) Name() string { return "Accept-Language" }
func (h *AcceptLanguageHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *AcceptLanguageHeader) String() string { return "Accept-Language: " + h.Value() }
func (h *AcceptLanguageHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Accept-Language: ")
	h.ValueStringWrite(w)
}
func (h *AcceptLanguageHeader) ValueStringWrite(w io.StringWriter) {
	for i, e := range h.Entries.Items {
		if i > 0 {
			w.WriteString(", ")
		}
		e.stringWrite(w)
	}
}
func (h *AcceptLanguageHeader) headerClone() Header {
	if h == nil {
		return (*AcceptLanguageHeader)(nil)
	}
	items := make([]acceptLikeEntry, len(h.Entries.Items))
	for i, e := range h.Entries.Items {
		items[i] = acceptLikeEntry{Range: e.Range, Params: e.Params.Clone()}
	}
	return &AcceptLanguageHeader{Entries: NewOrderedCollection(acceptLikeEntry.equal, items...)}
}

// parseAcceptLikeEntries parses Accept / Accept-Encoding / Accept-Language.
// An entirely empty value is the empty list spec §4.4.3 requires to be
// legal (e.g. "Accept:" means nothing is acceptable, not a parse failure).
func parseAcceptLikeEntries(value string) ([]acceptLikeEntry, error) {
	if trimWS(value) == "" {
		return nil, nil
	}
	var out []acceptLikeEntry
	for _, part := range strings.Split(value, ",") {
		s := trimWS(part)
		if s == "" {
			return nil, newParseError(ErrInvalidHeader, "Accept", 0, "empty list element")
		}
		semi := strings.IndexByte(s, ';')
		var rng string
		params := NewHeaderParameters()
		if semi < 0 {
			rng = trimWS(s)
		} else {
			rng = trimWS(s[:semi])
			i := semi + 1
			var err error
			if i, err = parseParamList(s, i, ';', "", &params); err != nil {
				return nil, err
			}
		}
		out = append(out, acceptLikeEntry{Range: rng, Params: params})
	}
	return out, nil
}

func parseAcceptHeader(value string) (Header, error) {
	entries, err := parseAcceptLikeEntries(value)
	if err != nil {
		return nil, err
	}
	return &AcceptHeader{Entries: NewOrderedCollection(acceptLikeEntry.equal, entries...)}, nil
}

func parseAcceptEncodingHeader(value string) (Header, error) {
	entries, err := parseAcceptLikeEntries(value)
	if err != nil {
		return nil, err
	}
	return &AcceptEncodingHeader{Entries: NewOrderedCollection(acceptLikeEntry.equal, entries...)}, nil
}

func parseAcceptLanguageHeader(value string) (Header, error) {
	entries, err := parseAcceptLikeEntries(value)
	if err != nil {
		return nil, err
	}
	return &AcceptLanguageHeader{Entries: NewOrderedCollection(acceptLikeEntry.equal, entries...)}, nil
}

// infoURIEntry is one "<URI> *(;param)" element of Alert-Info / Call-Info /
// Error-Info (spec §4.4.4).
type infoURIEntry struct {
	URI    Uri
	Params HeaderParameters
}

func (e infoURIEntry) equal(o infoURIEntry) bool {
	return e.URI.Equal(o.URI) && e.Params.Equal(o.Params)
}

func (e infoURIEntry) stringWrite(w io.StringWriter) {
	w.WriteString("<")
	e.URI.StringWrite(w)
	w.WriteString(">")
	if e.Params.Len() > 0 {
		w.WriteString(";")
		e.Params.render(';', w)
	}
}

// InfoURIListHeader is the shared shape of Alert-Info, Call-Info, and
// Error-Info (spec §4.4.4): a comma-list of bracketed URIs with params.
type InfoURIListHeader struct {
	headerName string
	Entries    OrderedCollection[infoURIEntry]
}

func (h *InfoURIListHeader) Name() string { return h.headerName }
func (h *InfoURIListHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *InfoURIListHeader) String() string { return h.headerName + ": " + h.Value() }
func (h *InfoURIListHeader) StringWrite(w io.StringWriter) {
	w.WriteString(h.headerName)
	w.WriteString(": ")
	h.ValueStringWrite(w)
}
func (h *InfoURIListHeader) ValueStringWrite(w io.StringWriter) {
	for i, e := range h.Entries.Items {
		if i > 0 {
			w.WriteString(", ")
		}
		e.stringWrite(w)
	}
}
func (h *InfoURIListHeader) headerClone() Header {
	if h == nil {
		return (*InfoURIListHeader)(nil)
	}
	items := make([]infoURIEntry, len(h.Entries.Items))
	for i, e := range h.Entries.Items {
		items[i] = infoURIEntry{URI: e.URI.Clone(), Params: e.Params.Clone()}
	}
	return &InfoURIListHeader{headerName: h.headerName, Entries: NewOrderedCollection(infoURIEntry.equal, items...)}
}

func parseInfoURIListHeader(name string) func(string) (Header, error) {
	return func(value string) (Header, error) {
		var entries []infoURIEntry
		for _, part := range strings.Split(value, ",") {
			s := trimWS(part)
			if len(s) == 0 || s[0] != '<' {
				return nil, newParseError(ErrInvalidHeader, name, 0, "expected '<'")
			}
			end := strings.IndexByte(s, '>')
			if end < 0 {
				return nil, newParseError(ErrInvalidHeader, name, 0, "missing closing '>'")
			}
			u, err := ParseURI(s[1:end])
			if err != nil {
				return nil, err
			}
			params := NewHeaderParameters()
			rest := s[end+1:]
			if len(rest) > 0 {
				i := 0
				i = skipWS(rest, i)
				if i < len(rest) && rest[i] == ';' {
					i++
					if i, err = parseParamList(rest, i, ';', "", &params); err != nil {
						return nil, err
					}
				}
			}
			entries = append(entries, infoURIEntry{URI: u, Params: params})
		}
		return &InfoURIListHeader{headerName: name, Entries: NewOrderedCollection(infoURIEntry.equal, entries...)}, nil
	}
}

// WarningEntry is one element of a Warning header (spec §4.4.4).
type WarningEntry struct {
	Code  WarnCode
	Agent string
	Text  string
}

func (e WarningEntry) equal(o WarningEntry) bool {
	return e.Code == o.Code && e.Agent == o.Agent && e.Text == o.Text
}

func (e WarningEntry) stringWrite(w io.StringWriter) {
	w.WriteString(e.Code.String())
	w.WriteString(" ")
	w.WriteString(e.Agent)
	w.WriteString(" \"")
	for i := 0; i < len(e.Text); i++ {
		c := e.Text[i]
		if c == '"' || c == '\\' {
			w.WriteString("\\")
		}
		w.WriteString(string(c))
	}
	w.WriteString("\"")
}

// WarningHeader is the Warning header (spec §4.4.4): a list of
// (warn-code, warn-agent, warn-text) triples.
type WarningHeader struct {
	Entries OrderedCollection[WarningEntry]
}

func (h *WarningHeader) Name() string { return "Warning" }
func (h *WarningHeader) Value() string {
	var b strings.Builder
	h.ValueStringWrite(&b)
	return b.String()
}
func (h *WarningHeader) String() string { return "Warning: " + h.Value() }
func (h *WarningHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Warning: ")
	h.ValueStringWrite(w)
}
func (h *WarningHeader) ValueStringWrite(w io.StringWriter) {
	for i, e := range h.Entries.Items {
		if i > 0 {
			w.WriteString(", ")
		}
		e.stringWrite(w)
	}
}
func (h *WarningHeader) headerClone() Header {
	if h == nil {
		return (*WarningHeader)(nil)
	}
	items := make([]WarningEntry, len(h.Entries.Items))
	copy(items, h.Entries.Items)
	return &WarningHeader{Entries: NewOrderedCollection(WarningEntry.equal, items...)}
}

func parseWarningHeader(value string) (Header, error) {
	var entries []WarningEntry
	for _, part := range strings.Split(value, ",") {
		s := trimWS(part)
		fields := strings.SplitN(s, " ", 3)
		if len(fields) != 3 {
			return nil, newParseError(ErrInvalidHeader, "Warning", 0, s)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, newParseError(ErrInvalidHeader, "Warning", 0, fields[0])
		}
		text, _, err := lexQuotedString(fields[2], 0)
		if err != nil {
			return nil, err
		}
		entries = append(entries, WarningEntry{Code: WarnCode(n), Agent: fields[1], Text: text})
	}
	return &WarningHeader{Entries: NewOrderedCollection(WarningEntry.equal, entries...)}, nil
}
