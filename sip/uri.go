package sip

import (
	"io"
	"strconv"
	"strings"
)

// Scheme tags the closed Uri sum of spec §3.2: Uri := Sip(SipUri) |
// Absolute(AbsoluteUri), with Sips as the third, TLS-mandating case.
type Scheme int

const (
	SchemeSIP Scheme = iota
	SchemeSIPS
	SchemeAbsolute
)

func (s Scheme) String() string {
	switch s {
	case SchemeSIP:
		return "sip"
	case SchemeSIPS:
		return "sips"
	default:
		return "absolute"
	}
}

// HostKind distinguishes the three host forms spec §3.2 names:
// IPv4 | IPv6 | Hostname.
type HostKind int

const (
	HostName HostKind = iota
	HostIPv4
	HostIPv6
)

// Uri is the RFC 3261 §19.1.1 / §19.1.3 grammar, modeled as a single struct
// tagged by Scheme rather than as separate SipUri/AbsoluteUri Go types: the
// two variants share every field used by sip/sips (user/password/host/port/
// params/headers) and the teacher's original Uri (sip/uri.go) already used
// one flat struct for the sip/sips case — SPEC_FULL only adds the
// AbsoluteUri arm (Opaque/AbsoluteScheme) on top of it.
type Uri struct {
	Scheme Scheme

	// AbsoluteScheme carries the original scheme token when Scheme ==
	// SchemeAbsolute (e.g. "tel", "mailto"); empty otherwise.
	AbsoluteScheme string
	// Opaque is the AbsoluteUri's opaque-part, verbatim, valid only when
	// Scheme == SchemeAbsolute.
	Opaque string

	// userinfo, per spec §3.2: Option<{user, password}>.
	HasUser  bool
	User     string
	HasPassword bool
	Password string

	Host     string
	HostKind HostKind
	HasPort  bool
	Port     uint16

	Params  HeaderParameters
	Headers HeaderParameters
}

// NewSipUri builds a minimal sip: URI with no optional fields, for
// programmatic construction (spec §3.2 "Lifecycle").
func NewSipUri(user, host string) Uri {
	return Uri{Scheme: SchemeSIP, HasUser: user != "", User: user, Host: host}
}

// IsSecure reports whether the URI mandates TLS (sips: or https:).
func (u Uri) IsSecure() bool {
	return u.Scheme == SchemeSIPS || (u.Scheme == SchemeAbsolute && strings.EqualFold(u.AbsoluteScheme, "https"))
}

// Transport returns the `transport` URI parameter, normalized to lowercase
// for comparison per spec §3.2.
func (u Uri) Transport() (string, bool) {
	v, ok := u.Params.Get("transport")
	if !ok {
		return "", false
	}
	return strings.ToLower(v), true
}

func (u Uri) UserParam() (string, bool)   { return u.Params.Get("user") }
func (u Uri) MethodParam() (string, bool) { return u.Params.Get("method") }
func (u Uri) MAddr() (string, bool)       { return u.Params.Get("maddr") }
func (u Uri) IsLR() bool                  { return u.Params.Has("lr") }

func (u Uri) TTL() (uint8, bool, error) {
	v, ok := u.Params.Get("ttl")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return 0, true, newParseError(ErrInvalidURIParameter, "ttl", 0, v)
	}
	return uint8(n), true, nil
}

func (u Uri) String() string {
	var b strings.Builder
	u.StringWrite(&b)
	return b.String()
}

func (u Uri) StringWrite(w io.StringWriter) {
	if u.Scheme == SchemeAbsolute {
		w.WriteString(u.AbsoluteScheme)
		w.WriteString(":")
		w.WriteString(u.Opaque)
		u.renderParamsAndHeaders(w)
		return
	}

	w.WriteString(u.Scheme.String())
	w.WriteString(":")

	if u.HasUser {
		w.WriteString(renderURIComponent(u.User, safeUser))
		if u.HasPassword {
			w.WriteString(":")
			w.WriteString(renderURIComponent(u.Password, safePassword))
		}
		w.WriteString("@")
	}

	if u.HostKind == HostIPv6 {
		w.WriteString("[")
		w.WriteString(u.Host)
		w.WriteString("]")
	} else {
		w.WriteString(u.Host)
	}

	if u.HasPort {
		w.WriteString(":")
		w.WriteString(strconv.Itoa(int(u.Port)))
	}

	u.renderParamsAndHeaders(w)
}

func (u Uri) renderParamsAndHeaders(w io.StringWriter) {
	for _, kv := range u.Params {
		w.WriteString(";")
		w.WriteString(kv.Name)
		if kv.Value != nil {
			w.WriteString("=")
			w.WriteString(renderURIComponent(kv.Value.Value, safeParam))
		}
	}
	if len(u.Headers) > 0 {
		w.WriteString("?")
		for i, kv := range u.Headers {
			if i > 0 {
				w.WriteString("&")
			}
			w.WriteString(kv.Name)
			if kv.Value != nil {
				w.WriteString("=")
				w.WriteString(renderURIComponent(kv.Value.Value, safeHeader))
			}
		}
	}
}

// Clone returns an independent copy (Uris are otherwise treated as
// immutable values once constructed — spec §3.2 "Lifecycle").
func (u Uri) Clone() Uri {
	c := u
	c.Params = u.Params.Clone()
	c.Headers = u.Headers.Clone()
	return c
}
