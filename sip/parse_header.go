package sip

import "strings"

// headerParseFunc turns a header field-value into a Header. Headers whose
// grammar is a comma-separated list of independent entries (Contact,
// Via, Route, Record-Route: the names in commaSplitHeaders below)
// get split on top-level commas before being handed to the per-entry
// parser; everything else receives the field-value whole.
type headerParseFunc func(value string) (Header, error)

// headerParsers maps a lowercased full or compact header name to its
// per-entry parser. Kept minimal and data-driven like the teacher's
// headersParsers map (sip/parse_header.go in the original retrieval), now
// covering the full header set spec §4.4 names instead of the teacher's
// eight.
var headerParsers = map[string]headerParseFunc{
	"to":   parseToHeader,
	"t":    parseToHeader,
	"from": parseFromHeader,
	"f":    parseFromHeader,

	"contact": parseContactHeaderOne,
	"m":       parseContactHeaderOne,

	"call-id": parseCallIDHeader,
	"i":       parseCallIDHeader,

	"cseq": parseCSeqHeader,

	"via": parseViaHeaderOne,
	"v":   parseViaHeaderOne,

	"max-forwards": parseMaxForwardsHeader,

	"content-length": parseContentLengthHeader,
	"l":              parseContentLengthHeader,

	"content-type": parseContentTypeHeader,
	"c":            parseContentTypeHeader,

	"content-disposition": parseContentDispositionHeader,
	"content-encoding":    parseTokenListHeader("Content-Encoding"),
	"e":                   parseTokenListHeader("Content-Encoding"),
	"content-language":    parseTokenListHeader("Content-Language"),

	"route":        parseRouteHeaderOne,
	"record-route": parseRecordRouteHeaderOne,
	"reply-to":     parseReplyToHeader,

	"expires":     parseExpiresHeader,
	"min-expires": parseMinExpiresHeader,
	"retry-after": parseRetryAfterHeader,

	"allow":           parseTokenListHeader("Allow"),
	"proxy-require":   parseTokenListHeader("Proxy-Require"),
	"require":         parseTokenListHeader("Require"),
	"supported":       parseTokenListHeader("Supported"),
	"k":               parseTokenListHeader("Supported"),
	"unsupported":     parseTokenListHeader("Unsupported"),
	"in-reply-to":     parseTokenListHeader("In-Reply-To"),

	"accept":          parseAcceptHeader,
	"accept-encoding": parseAcceptEncodingHeader,
	"accept-language": parseAcceptLanguageHeader,

	"alert-info": parseInfoURIListHeader("Alert-Info"),
	"call-info":  parseInfoURIListHeader("Call-Info"),
	"error-info": parseInfoURIListHeader("Error-Info"),

	"warning": parseWarningHeader,

	"user-agent":   parseUserAgentHeader,
	"server":       parseServerHeader,
	"organization": parseOrganizationHeader,
	"subject":      parseSubjectHeader,
	"s":            parseSubjectHeader,
	"mime-version": parseMIMEVersionHeader,
	"timestamp":    parseTimestampHeader,
	"date":         parseDateHeader,
	"priority":     parsePriorityHeader,

	"authorization":       parseAuthorizationHeader,
	"proxy-authorization": parseProxyAuthorizationHeader,
	"www-authenticate":    parseWWWAuthenticateHeader,
	"proxy-authenticate":  parseProxyAuthenticateHeader,
	"authentication-info": parseAuthenticationInfoHeader,
}

// commaSplitHeaders marks which header names must be split on top-level
// (not-inside-quotes/angle-brackets) commas before being parsed
// entry-by-entry and appended individually to the message's header list.
// Via/Contact/Route/Record-Route are legal here too but are typically one
// physical header line per entry in practice; splitting handles both forms.
var commaSplitHeaders = map[string]bool{
	"via": true, "v": true,
	"contact": true, "m": true,
	"route": true, "record-route": true,
}

// ParseHeader dispatches a raw "Name: value" pair (name already separated
// from value, both already unfolded) into zero or more Header values. Most
// names produce exactly one; comma-list-capable names may produce several.
func ParseHeader(name, value string) ([]Header, error) {
	lower := strings.ToLower(name)
	fn, ok := headerParsers[lower]
	if !ok {
		return []Header{&GenericHeader{HeaderName: name, Contents: value}}, nil
	}

	if !commaSplitHeaders[lower] {
		h, err := fn(value)
		if err != nil {
			return nil, err
		}
		return []Header{h}, nil
	}

	parts, err := splitTopLevelCommas(value)
	if err != nil {
		return nil, err
	}
	out := make([]Header, 0, len(parts))
	for _, part := range parts {
		h, err := fn(part)
		if err != nil {
			return nil, err
		}
		if _, wild := h.(ContactWildcard); wild && len(parts) > 1 {
			return nil, newParseError(ErrInvalidHeader, name, 0, "'*' cannot be combined with other Contact entries")
		}
		out = append(out, h)
	}
	return out, nil
}

// splitTopLevelCommas splits on commas that are not inside a quoted-string
// or an angle-bracketed URI, since both may legally contain a literal ','.
func splitTopLevelCommas(s string) ([]string, error) {
	var parts []string
	depth := 0
	inQuotes := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && (i == 0 || s[i-1] != '\\'):
			inQuotes = !inQuotes
		case inQuotes:
			continue
		case c == '<':
			depth++
		case c == '>':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if inQuotes {
		return nil, newParseError(ErrInvalidHeader, "header-value", start, "unterminated quoted-string")
	}
	parts = append(parts, s[start:])
	return parts, nil
}
