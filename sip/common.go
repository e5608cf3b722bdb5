package sip

import (
	"fmt"
	"strconv"
	"strings"
)

// Method is RFC 3261's request method token: case-sensitive, byte-exact
// comparison (spec §4.3). The well-known set is exactly the six the spec
// names; anything else is still a valid Method value (an "Extension" in
// spec terms — Go models that as "any other token", not a distinct type).
type Method string

const (
	INVITE   Method = "INVITE"
	ACK      Method = "ACK"
	OPTIONS  Method = "OPTIONS"
	BYE      Method = "BYE"
	CANCEL   Method = "CANCEL"
	REGISTER Method = "REGISTER"

	// Extension methods used widely enough in practice to warrant a
	// constant, even though spec's well-known set stops at REGISTER.
	SUBSCRIBE Method = "SUBSCRIBE"
	NOTIFY    Method = "NOTIFY"
	REFER     Method = "REFER"
	INFO      Method = "INFO"
	MESSAGE   Method = "MESSAGE"
	PRACK     Method = "PRACK"
	UPDATE    Method = "UPDATE"
	PUBLISH   Method = "PUBLISH"
)

var wellKnownMethods = map[Method]bool{
	INVITE: true, ACK: true, OPTIONS: true, BYE: true, CANCEL: true, REGISTER: true,
}

func (m Method) IsWellKnown() bool { return wellKnownMethods[m] }
func (m Method) String() string    { return string(m) }
func (m Method) Equal(o Method) bool { return m == o }

func parseMethod(s string) (Method, error) {
	if s == "" {
		return "", newParseError(ErrInvalidMethod, "Method", 0, "empty method")
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return "", newParseError(ErrInvalidMethod, "Method", i, s)
		}
	}
	return Method(s), nil
}

// StatusCode is a three-digit response code, 100..=999 (spec §4.3).
type StatusCode int

var statusCodeTable [1000]string

func init() {
	for i := 100; i <= 999; i++ {
		statusCodeTable[i] = fmt.Sprintf("%03d", i)
	}
}

func ParseStatusCode(s string) (StatusCode, error) {
	if len(s) != 3 {
		return 0, newParseError(ErrInvalidStatusCode, "Status-Code", 0, s)
	}
	for i := 0; i < 3; i++ {
		if !isDigit(s[i]) {
			return 0, newParseError(ErrInvalidStatusCode, "Status-Code", i, s)
		}
	}
	n, _ := strconv.Atoi(s)
	return StatusCode(n), nil
}

func (c StatusCode) String() string {
	if c >= 100 && c <= 999 {
		return statusCodeTable[c]
	}
	return strconv.Itoa(int(c))
}

func (c StatusCode) IsProvisional() bool  { return c >= 100 && c < 200 }
func (c StatusCode) IsSuccess() bool      { return c >= 200 && c < 300 }
func (c StatusCode) IsRedirection() bool  { return c >= 300 && c < 400 }
func (c StatusCode) IsClientError() bool  { return c >= 400 && c < 500 }
func (c StatusCode) IsServerError() bool  { return c >= 500 && c < 600 }
func (c StatusCode) IsGlobalFailure() bool { return c >= 600 && c < 700 }

// Reason is (StatusCode, phrase). Equality ignores phrase, matching the
// routing-relevant comparison the library performs (spec §4.3).
type Reason struct {
	Status StatusCode
	Phrase string
}

func (r Reason) Equal(o Reason) bool { return r.Status == o.Status }

// Version is the SIP-Version token, canonically "SIP/2.0" (spec §3.3).
type Version struct {
	Major uint
	Minor uint
}

var DefaultVersion = Version{Major: 2, Minor: 0}

func ParseVersion(s string) (Version, error) {
	const prefix = "SIP/"
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return Version{}, newParseError(ErrInvalidVersion, "SIP-Version", 0, s)
	}
	rest := s[len(prefix):]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return Version{}, newParseError(ErrInvalidVersion, "SIP-Version", len(prefix), s)
	}
	major, err := strconv.ParseUint(rest[:dot], 10, 32)
	if err != nil {
		return Version{}, newParseError(ErrInvalidVersion, "SIP-Version", len(prefix), s)
	}
	minor, err := strconv.ParseUint(rest[dot+1:], 10, 32)
	if err != nil {
		return Version{}, newParseError(ErrInvalidVersion, "SIP-Version", len(prefix)+dot+1, s)
	}
	return Version{Major: uint(major), Minor: uint(minor)}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("SIP/%d.%d", v.Major, v.Minor)
}

func (v Version) Equal(o Version) bool { return v.Major == o.Major && v.Minor == o.Minor }

// EnumToken models the small closed-enum-plus-Extension grammar values of
// spec §4.3 (Algorithm, MessageQop, Priority, Transport, DispositionType,
// Handling, ...): a known set of well-known tokens compared case-
// insensitively, with any other token accepted as an extension value.
// This is the idiomatic Go rendition of the spec's "enum with Extension
// arm" design note — a typed-string-plus-predicate instead of a tagged
// union, since Go has no sum types and every use site only ever needs
// String()/Equal()/IsKnown().
type EnumToken struct {
	Token string
}

func (e EnumToken) String() string { return e.Token }

func (e EnumToken) Equal(o EnumToken) bool { return strings.EqualFold(e.Token, o.Token) }

func (e EnumToken) Is(known string) bool { return strings.EqualFold(e.Token, known) }

// Well-known Algorithm tokens (spec §4.4.4).
const (
	AlgorithmMD5         = "MD5"
	AlgorithmMD5Sess     = "MD5-sess"
	AlgorithmSHA256      = "SHA-256"
	AlgorithmSHA256Sess  = "SHA-256-sess"
	AlgorithmSHA512256   = "SHA-512-256"
	AlgorithmSHA512256S  = "SHA-512-256-sess"
)

// Well-known MessageQop tokens (spec §4.4.4).
const (
	QopAuth    = "auth"
	QopAuthInt = "auth-int"
)

// Well-known Priority tokens (spec §4.3).
const (
	PriorityEmergency = "emergency"
	PriorityUrgent    = "urgent"
	PriorityNormal    = "normal"
	PriorityNonUrgent = "non-urgent"
)

// Well-known Transport tokens (spec §4.3). Comparison of the `transport`
// parameter is always lowercase-normalized (spec §3.2).
const (
	TransportUDP = "UDP"
	TransportTCP = "TCP"
	TransportTLS = "TLS"
	TransportSCTP = "SCTP"
	TransportWS  = "WS"
	TransportWSS = "WSS"
)

// Well-known Content-Disposition types (spec §4.3).
const (
	DispositionRender  = "render"
	DispositionSession = "session"
	DispositionIcon    = "icon"
	DispositionAlert   = "alert"
)

// Well-known handling values for unsupported Content-Disposition/auth
// extensions (spec §4.3).
const (
	HandlingOptional = "optional"
	HandlingRequired = "required"
)

// WarnCode is the three-digit warn-code of the Warning header (spec
// §4.4.3).
type WarnCode int

func (w WarnCode) String() string { return fmt.Sprintf("%03d", int(w)) }

// parseClampedUint parses a digits-only decimal integer, clamping to
// maxVal on overflow instead of failing the parse (Content-Length above
// 2^32-1, Max-Forwards above 255, Expires/Min-Expires above u32::MAX; §8.4
// S5 locks the clamp-not-error behavior in). A non-digit byte anywhere is
// still a parse error.
func parseClampedUint(s string, maxVal uint64) (uint64, error) {
	s = trimWS(s)
	if s == "" {
		return 0, newParseError(ErrInvalidHeader, "delta-seconds", 0, "empty integer")
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return 0, newParseError(ErrInvalidHeader, "delta-seconds", i, s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return maxVal, nil
	}
	if n > maxVal {
		return maxVal, nil
	}
	return n, nil
}
