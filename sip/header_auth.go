package sip

import (
	"io"
	"sort"
	"strconv"
	"strings"
)

// Credentials is the value carried by Authorization and Proxy-Authorization
// (spec §4.4.4). The teacher has no authentication header family at all;
// this one is grounded on ghettovoice-gosip's header/authorization.go,
// translated into the teacher's StringWrite/headerClone idiom instead of
// gosip's io.Writer-returning-(n,err)/generics-heavy RenderTo style.
type Credentials struct {
	Scheme string // "Digest", "Bearer", or any extension token

	// Digest fields, populated only when Scheme == "Digest".
	Username   string
	Realm      string
	Nonce      string
	DigestURI  string
	Response   string
	Algorithm  string
	CNonce     string
	Opaque     string
	QOP        string
	NonceCount uint32
	HasNonceCount bool

	// Bearer fields, populated only when Scheme == "Bearer".
	Token string

	// Params carries any parameter this struct doesn't name explicitly —
	// extension auth-params, or the entire credential set for an unknown
	// scheme.
	Params HeaderParameters
}

func (c *Credentials) stringWrite(w io.StringWriter) {
	w.WriteString(c.Scheme)
	w.WriteString(" ")
	switch strings.ToLower(c.Scheme) {
	case "digest":
		c.digestStringWrite(w)
	case "bearer":
		w.WriteString(c.Token)
	default:
		c.Params.render(',', w)
	}
}

func (c *Credentials) digestStringWrite(w io.StringWriter) {
	type kv struct{ k, v string }
	var pairs []kv
	add := func(name, value string, quote bool) {
		if value == "" {
			return
		}
		if quote {
			value = `"` + strings.ReplaceAll(strings.ReplaceAll(value, `\`, `\\`), `"`, `\"`) + `"`
		}
		pairs = append(pairs, kv{name, value})
	}
	add("username", c.Username, true)
	add("realm", c.Realm, true)
	add("nonce", c.Nonce, true)
	add("uri", c.DigestURI, true)
	add("response", c.Response, true)
	add("algorithm", c.Algorithm, false)
	add("cnonce", c.CNonce, true)
	add("opaque", c.Opaque, true)
	add("qop", c.QOP, false)
	if c.HasNonceCount {
		pairs = append(pairs, kv{"nc", strconv.FormatUint(uint64(c.NonceCount), 16)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })
	for i, p := range pairs {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(p.k)
		w.WriteString("=")
		w.WriteString(p.v)
	}
	if c.Params.Len() > 0 {
		if len(pairs) > 0 {
			w.WriteString(", ")
		}
		c.Params.render(',', w)
	}
}

func (c *Credentials) clone() Credentials {
	c2 := *c
	c2.Params = c.Params.Clone()
	return c2
}

func (c *Credentials) equal(o *Credentials) bool {
	if c == nil || o == nil {
		return c == o
	}
	return strings.EqualFold(c.Scheme, o.Scheme) &&
		c.Username == o.Username &&
		strings.EqualFold(c.Realm, o.Realm) &&
		c.Nonce == o.Nonce &&
		c.DigestURI == o.DigestURI &&
		c.Response == o.Response &&
		strings.EqualFold(c.Algorithm, o.Algorithm) &&
		c.CNonce == o.CNonce &&
		c.Opaque == o.Opaque &&
		strings.EqualFold(c.QOP, o.QOP) &&
		c.NonceCount == o.NonceCount &&
		c.Token == o.Token &&
		c.Params.Equal(o.Params)
}

// is32HexDigits reports whether v is exactly 32 hex digits, the shape
// RFC 3261 §25 requires for Digest's "response" field (spec §4.4.4, locked
// in by §8.4 S4: "...31hex"/"...33hex" MUST fail parse).
func is32HexDigits(v string) bool {
	if len(v) != 32 {
		return false
	}
	for i := 0; i < len(v); i++ {
		if !isHexDigit(v[i]) {
			return false
		}
	}
	return true
}

func parseCredentials(value string, headerName string) (Credentials, error) {
	i := skipWS(value, 0)
	scheme, next := lexToken(value, i)
	if scheme == "" {
		return Credentials{}, newParseError(ErrInvalidHeader, headerName, i, "missing auth-scheme")
	}
	i = skipWS(value, next)

	c := Credentials{Scheme: scheme, Params: NewHeaderParameters()}
	if strings.EqualFold(scheme, "bearer") {
		c.Token = value[i:]
		return c, nil
	}

	params := NewHeaderParameters()
	if _, err := parseParamList(value, i, ',', "", &params); err != nil {
		return Credentials{}, err
	}

	if !strings.EqualFold(scheme, "digest") {
		c.Params = params
		return c, nil
	}

	for _, kv := range params {
		switch strings.ToLower(kv.Name) {
		case "username":
			c.Username = kv.Value.str()
		case "realm":
			c.Realm = kv.Value.str()
		case "nonce":
			c.Nonce = kv.Value.str()
		case "uri":
			c.DigestURI = kv.Value.str()
		case "response":
			v := kv.Value.str()
			if !is32HexDigits(v) {
				return Credentials{}, newParseError(ErrInvalidHeader, headerName, 0, "response must be exactly 32 hex digits")
			}
			c.Response = v
		case "algorithm":
			c.Algorithm = kv.Value.str()
		case "cnonce":
			c.CNonce = kv.Value.str()
		case "opaque":
			c.Opaque = kv.Value.str()
		case "qop":
			c.QOP = kv.Value.str()
		case "nc":
			n, err := strconv.ParseUint(kv.Value.str(), 16, 32)
			if err != nil {
				return Credentials{}, newParseError(ErrInvalidHeader, headerName, 0, "invalid nonce-count")
			}
			c.NonceCount = uint32(n)
			c.HasNonceCount = true
		default:
			c.Params.Set(kv.Name, kv.Value)
		}
	}
	return c, nil
}

// AuthorizationHeader is the Authorization header (spec §4.4.4).
type AuthorizationHeader struct{ Credentials }

func (h *AuthorizationHeader) Name() string { return "Authorization" }
func (h *AuthorizationHeader) Value() string {
	var b strings.Builder
	h.stringWrite(&b)
	return b.String()
}
func (h *AuthorizationHeader) String() string { return "Authorization: " + h.Value() }
func (h *AuthorizationHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Authorization: ")
	h.stringWrite(w)
}
func (h *AuthorizationHeader) headerClone() Header {
	if h == nil {
		return (*AuthorizationHeader)(nil)
	}
	return &AuthorizationHeader{h.clone()}
}
func (h *AuthorizationHeader) Equal(o *AuthorizationHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Credentials.equal(&o.Credentials)
}

func parseAuthorizationHeader(value string) (Header, error) {
	c, err := parseCredentials(value, "Authorization")
	if err != nil {
		return nil, err
	}
	return &AuthorizationHeader{c}, nil
}

// ProxyAuthorizationHeader is the Proxy-Authorization header (spec §4.4.4).
type ProxyAuthorizationHeader struct{ Credentials }

func (h *ProxyAuthorizationHeader) Name() string { return "Proxy-Authorization" }
func (h *ProxyAuthorizationHeader) Value() string {
	var b strings.Builder
	h.stringWrite(&b)
	return b.String()
}
func (h *ProxyAuthorizationHeader) String() string { return "Proxy-Authorization: " + h.Value() }
func (h *ProxyAuthorizationHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Proxy-Authorization: ")
	h.stringWrite(w)
}
func (h *ProxyAuthorizationHeader) headerClone() Header {
	if h == nil {
		return (*ProxyAuthorizationHeader)(nil)
	}
	return &ProxyAuthorizationHeader{h.clone()}
}

func parseProxyAuthorizationHeader(value string) (Header, error) {
	c, err := parseCredentials(value, "Proxy-Authorization")
	if err != nil {
		return nil, err
	}
	return &ProxyAuthorizationHeader{c}, nil
}

// Challenge is the value carried by WWW-Authenticate and
// Proxy-Authenticate (spec §4.4.4).
type Challenge struct {
	Scheme    string
	Realm     string
	Domain    string
	Nonce     string
	Opaque    string
	Stale     bool
	HasStale  bool
	Algorithm string
	QOP       OrderedCollection[string]
	Params    HeaderParameters
}

func (c *Challenge) stringWrite(w io.StringWriter) {
	w.WriteString(c.Scheme)
	w.WriteString(" ")
	type kv struct{ k, v string }
	var pairs []kv
	add := func(name, value string, quote bool) {
		if value == "" {
			return
		}
		if quote {
			value = `"` + strings.ReplaceAll(strings.ReplaceAll(value, `\`, `\\`), `"`, `\"`) + `"`
		}
		pairs = append(pairs, kv{name, value})
	}
	add("realm", c.Realm, true)
	add("domain", c.Domain, true)
	add("nonce", c.Nonce, true)
	add("opaque", c.Opaque, true)
	if c.HasStale {
		pairs = append(pairs, kv{"stale", strconv.FormatBool(c.Stale)})
	}
	add("algorithm", c.Algorithm, false)
	if c.QOP.Len() > 0 {
		pairs = append(pairs, kv{"qop", `"` + strings.Join(c.QOP.Items, ",") + `"`})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })
	for i, p := range pairs {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(p.k)
		w.WriteString("=")
		w.WriteString(p.v)
	}
	if c.Params.Len() > 0 {
		if len(pairs) > 0 {
			w.WriteString(", ")
		}
		c.Params.render(',', w)
	}
}

func (c *Challenge) clone() Challenge {
	c2 := *c
	c2.Params = c.Params.Clone()
	items := make([]string, len(c.QOP.Items))
	copy(items, c.QOP.Items)
	c2.QOP = NewOrderedCollection(strings.EqualFold, items...)
	return c2
}

func (c *Challenge) equal(o *Challenge) bool {
	if c == nil || o == nil {
		return c == o
	}
	return strings.EqualFold(c.Scheme, o.Scheme) &&
		c.Realm == o.Realm &&
		c.Domain == o.Domain &&
		c.Nonce == o.Nonce &&
		c.Opaque == o.Opaque &&
		c.HasStale == o.HasStale && c.Stale == o.Stale &&
		strings.EqualFold(c.Algorithm, o.Algorithm) &&
		c.QOP.EqualMultiset(o.QOP) &&
		c.Params.Equal(o.Params)
}

func parseChallenge(value string, headerName string) (Challenge, error) {
	i := skipWS(value, 0)
	scheme, next := lexToken(value, i)
	if scheme == "" {
		return Challenge{}, newParseError(ErrInvalidHeader, headerName, i, "missing auth-scheme")
	}
	i = skipWS(value, next)

	params := NewHeaderParameters()
	if _, err := parseParamList(value, i, ',', "", &params); err != nil {
		return Challenge{}, err
	}

	c := Challenge{Scheme: scheme, Params: NewHeaderParameters()}
	for _, kv := range params {
		switch strings.ToLower(kv.Name) {
		case "realm":
			c.Realm = kv.Value.str()
		case "domain":
			c.Domain = kv.Value.str()
		case "nonce":
			c.Nonce = kv.Value.str()
		case "opaque":
			c.Opaque = kv.Value.str()
		case "stale":
			b, err := strconv.ParseBool(kv.Value.str())
			if err != nil {
				return Challenge{}, newParseError(ErrInvalidHeader, headerName, 0, "invalid stale flag")
			}
			c.Stale = b
			c.HasStale = true
		case "algorithm":
			c.Algorithm = kv.Value.str()
		case "qop":
			parts := strings.Split(kv.Value.str(), ",")
			for i := range parts {
				parts[i] = trimWS(parts[i])
			}
			c.QOP = NewOrderedCollection(strings.EqualFold, parts...)
		default:
			c.Params.Set(kv.Name, kv.Value)
		}
	}
	return c, nil
}

// WWWAuthenticateHeader is the WWW-Authenticate header (spec §4.4.4).
type WWWAuthenticateHeader struct{ Challenge }

func (h *WWWAuthenticateHeader) Name() string { return "WWW-Authenticate" }
func (h *WWWAuthenticateHeader) Value() string {
	var b strings.Builder
	h.stringWrite(&b)
	return b.String()
}
func (h *WWWAuthenticateHeader) String() string { return "WWW-Authenticate: " + h.Value() }
func (h *WWWAuthenticateHeader) StringWrite(w io.StringWriter) {
	w.WriteString("WWW-Authenticate: ")
	h.stringWrite(w)
}
func (h *WWWAuthenticateHeader) headerClone() Header {
	if h == nil {
		return (*WWWAuthenticateHeader)(nil)
	}
	return &WWWAuthenticateHeader{h.clone()}
}
func (h *WWWAuthenticateHeader) Equal(o *WWWAuthenticateHeader) bool {
	if h == nil || o == nil {
		return h == o
	}
	return h.Challenge.equal(&o.Challenge)
}

func parseWWWAuthenticateHeader(value string) (Header, error) {
	c, err := parseChallenge(value, "WWW-Authenticate")
	if err != nil {
		return nil, err
	}
	return &WWWAuthenticateHeader{c}, nil
}

// ProxyAuthenticateHeader is the Proxy-Authenticate header (spec §4.4.4).
type ProxyAuthenticateHeader struct{ Challenge }

func (h *ProxyAuthenticateHeader) Name() string { return "Proxy-Authenticate" }
func (h *ProxyAuthenticateHeader) Value() string {
	var b strings.Builder
	h.stringWrite(&b)
	return b.String()
}
func (h *ProxyAuthenticateHeader) String() string { return "Proxy-Authenticate: " + h.Value() }
func (h *ProxyAuthenticateHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Proxy-Authenticate: ")
	h.stringWrite(w)
}
func (h *ProxyAuthenticateHeader) headerClone() Header {
	if h == nil {
		return (*ProxyAuthenticateHeader)(nil)
	}
	return &ProxyAuthenticateHeader{h.clone()}
}

func parseProxyAuthenticateHeader(value string) (Header, error) {
	c, err := parseChallenge(value, "Proxy-Authenticate")
	if err != nil {
		return nil, err
	}
	return &ProxyAuthenticateHeader{c}, nil
}

// AuthenticationInfoHeader is the Authentication-Info header (spec §4.4.4):
// a bare auth-param list with no leading scheme token.
type AuthenticationInfoHeader struct {
	Params HeaderParameters
}

func (h *AuthenticationInfoHeader) Name() string { return "Authentication-Info" }
func (h *AuthenticationInfoHeader) Value() string {
	var b strings.Builder
	h.Params.render(',', &b)
	return b.String()
}
func (h *AuthenticationInfoHeader) String() string { return "Authentication-Info: " + h.Value() }
func (h *AuthenticationInfoHeader) StringWrite(w io.StringWriter) {
	w.WriteString("Authentication-Info: ")
	h.Params.render(',', w)
}
func (h *AuthenticationInfoHeader) headerClone() Header {
	if h == nil {
		return (*AuthenticationInfoHeader)(nil)
	}
	return &AuthenticationInfoHeader{Params: h.Params.Clone()}
}
func (h *AuthenticationInfoHeader) NextNonce() (string, bool) { return h.Params.Get("nextnonce") }
func (h *AuthenticationInfoHeader) RSPAuth() (string, bool)   { return h.Params.Get("rspauth") }

func parseAuthenticationInfoHeader(value string) (Header, error) {
	params := NewHeaderParameters()
	if _, err := parseParamList(value, 0, ',', "", &params); err != nil {
		return nil, err
	}
	return &AuthenticationInfoHeader{Params: params}, nil
}
