package sip

// parseParamList scans a sequence of sep-separated "name[=value]" entries
// starting at s[i], stopping at the first byte in stop (or end of string).
// value may be a quoted-string or a token; this mirrors the teacher's
// UnmarshalParams (sip/parse_uri.go) but is shared by both URI parameters
// and header parameters instead of being duplicated per call site.
func parseParamList(s string, i int, sep byte, stop string, out *HeaderParameters) (int, error) {
	for i < len(s) {
		for i < len(s) && isWSP(s[i]) {
			i++
		}
		name, next := lexToken(s, i)
		if name == "" {
			return i, newParseError(ErrInvalidURIParameter, "generic-param", i, "expected parameter name")
		}
		i = next
		var val *WrappedString
		if i < len(s) && s[i] == '=' {
			i++
			if i < len(s) && s[i] == '"' {
				dec, next, err := lexQuotedString(s, i)
				if err != nil {
					return i, err
				}
				val = quoted(dec)
				i = next
			} else {
				tok, next := lexToken(s, i)
				if stop != "" {
					// URI parameter and header values also admit "[]/:$".
					for next < len(s) && (isTokenChar(s[next]) || isStopByte(s[next], "[]/:$")) {
						next++
					}
					tok = s[i:next]
				}
				val = notWrapped(tok)
				i = next
			}
		}
		if err := out.Add(name, val); err != nil {
			return i, err
		}
		if i < len(s) && s[i] == sep {
			i++
			continue
		}
		break
	}
	if i < len(s) {
		c := s[i]
		for _, st := range stop {
			if byte(st) == c {
				return i, nil
			}
		}
		return i, newParseError(ErrRemainingUnparsedData, "generic-param", i, s[i:])
	}
	return i, nil
}
