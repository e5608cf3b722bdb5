package sip

import "strings"

// ParseURI parses a SIP-URI, SIPS-URI, or an opaque absoluteURI, per RFC
// 3261 §19.1.1/§25 as reimplemented in spec §4.2. No backtracking: a single
// left-to-right scan dispatches on the scheme token and then the remaining
// grammar is a fixed sequence of optional parts.
func ParseURI(s string) (Uri, error) {
	u, i, err := parseURIAt(s, 0)
	if err != nil {
		return Uri{}, err
	}
	if i != len(s) {
		return Uri{}, newParseError(ErrRemainingUnparsedData, "URI", i, s[i:])
	}
	return u, nil
}

// parseURIAt parses a URI starting at s[i] and returns the index just past
// it, for embedding inside name-addr / header values that continue after
// the URI (angle brackets, parameters, trailing header text).
func parseURIAt(s string, i int) (Uri, int, error) {
	start := i
	scheme, j := lexScheme(s, i)
	if scheme == "" || j >= len(s) || s[j] != ':' {
		return Uri{}, start, newParseError(ErrInvalidURI, "URI", start, "missing scheme")
	}
	j++ // skip ':'

	switch strings.ToLower(scheme) {
	case "sip":
		return parseSipUriAt(s, j, SchemeSIP)
	case "sips":
		return parseSipUriAt(s, j, SchemeSIPS)
	default:
		return parseAbsoluteURIAt(s, j, scheme)
	}
}

// lexScheme consumes ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func lexScheme(s string, i int) (string, int) {
	start := i
	if i >= len(s) || !isAlpha(s[i]) {
		return "", i
	}
	i++
	for i < len(s) {
		c := s[i]
		if isAlpha(c) || isDigit(c) || c == '+' || c == '-' || c == '.' {
			i++
			continue
		}
		break
	}
	return s[start:i], i
}

// uriStopRunAngle and uriStopRunPlain are the sets of bytes that end a URI
// when it is embedded inside a name-addr or a header value without angle
// brackets (spec §3.2/§3.4.1).
const uriStopRunAngle = ">"
const uriStopRunPlain = " \t\r\n,;?"

func parseAbsoluteURIAt(s string, i int, scheme string) (Uri, int, error) {
	start := i
	for i < len(s) && !isStopByte(s[i], " \t\r\n,>") {
		i++
	}
	if i == start {
		return Uri{}, start, newParseError(ErrInvalidURI, "absoluteURI", start, "empty opaque-part")
	}
	opaque := s[start:i]

	u := Uri{Scheme: SchemeAbsolute, AbsoluteScheme: scheme}
	// absoluteURI parameters/headers, when present, are separated by ';'/'?'
	// already inside opaque per RFC 3986; spec keeps the opaque-part
	// verbatim and does not further decompose it, so Opaque carries the
	// whole remainder unparsed.
	u.Opaque = opaque
	u.Params = NewHeaderParameters()
	u.Headers = NewHeaderParameters()
	return u, i, nil
}

func isStopByte(c byte, set string) bool {
	return strings.IndexByte(set, c) >= 0
}

func parseSipUriAt(s string, i int, scheme Scheme) (Uri, int, error) {
	u := Uri{Scheme: scheme}
	start := i

	// userinfo = ( user / telephone-subscriber ) [ ":" password ] "@"
	if at := findUserinfoAt(s, i); at >= 0 {
		userPart := s[i:at]
		user, pass, hasPass, err := splitUserinfo(userPart)
		if err != nil {
			return Uri{}, start, err
		}
		u.HasUser = true
		u.User = unescapeUnreserved(user)
		if hasPass {
			u.HasPassword = true
			u.Password = unescapeUnreserved(pass)
		}
		i = at + 1
	}

	host, hostKind, hasPort, port, next, err := parseHostPort(s, i)
	if err != nil {
		return Uri{}, start, err
	}
	u.Host = host
	u.HostKind = hostKind
	u.HasPort = hasPort
	u.Port = port
	i = next

	params := NewHeaderParameters()
	if i < len(s) && s[i] == ';' {
		i++
		i, err = parseParamList(s, i, ';', "?>", &params)
		if err != nil {
			return Uri{}, start, err
		}
	}
	u.Params = params

	headers := NewHeaderParameters()
	if i < len(s) && s[i] == '?' {
		i++
		i, err = parseParamList(s, i, '&', ">", &headers)
		if err != nil {
			return Uri{}, start, err
		}
	}
	u.Headers = headers

	return u, i, nil
}

// findUserinfoAt scans forward from i for an unescaped '@' that terminates
// the userinfo part, stopping at the first ';', '?', '>', or whitespace
// (which would mean there is no userinfo — those chars cannot appear
// unescaped in userinfo before an '@').
func findUserinfoAt(s string, i int) int {
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '@':
			return j
		case '/', '?', '#', ';', '>', ' ', '\t', '\r', '\n':
			return -1
		}
	}
	return -1
}

func splitUserinfo(s string) (user, pass string, hasPass bool, err error) {
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		return s[:colon], s[colon+1:], true, nil
	}
	return s, "", false, nil
}

// parseHostPort parses hostport = host [ ":" port ], recognizing a
// bracketed IPv6 literal, a dotted IPv4 literal, or a hostname.
func parseHostPort(s string, i int) (host string, kind HostKind, hasPort bool, port uint16, next int, err error) {
	start := i
	if i < len(s) && s[i] == '[' {
		end := strings.IndexByte(s[i:], ']')
		if end < 0 {
			return "", 0, false, 0, start, newParseError(ErrInvalidURI, "IPv6reference", start, "unterminated IPv6 reference")
		}
		host = s[i+1 : i+end]
		kind = HostIPv6
		i = i + end + 1
	} else {
		j := i
		for j < len(s) && !isStopByte(s[j], ":;?>") && !isWSP(s[j]) && s[j] != '\r' && s[j] != '\n' {
			j++
		}
		host = s[i:j]
		if host == "" {
			return "", 0, false, 0, start, newParseError(ErrInvalidURI, "hostport", start, "empty host")
		}
		if isIPv4Literal(host) {
			kind = HostIPv4
		} else {
			kind = HostName
		}
		i = j
	}

	if i < len(s) && s[i] == ':' {
		j := i + 1
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k == j {
			return "", 0, false, 0, start, newParseError(ErrInvalidURI, "port", j, "empty port")
		}
		n := 0
		for _, c := range s[j:k] {
			n = n*10 + int(c-'0')
			if n > 65535 {
				return "", 0, false, 0, j, newParseError(ErrInvalidURI, "port", j, s[j:k])
			}
		}
		hasPort = true
		port = uint16(n)
		i = k
	}

	return host, kind, hasPort, port, i, nil
}

func isIPv4Literal(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		for i := 0; i < len(p); i++ {
			if !isDigit(p[i]) {
				return false
			}
		}
	}
	return true
}
